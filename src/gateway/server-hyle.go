package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hyle-org/buy-my-tweet/src/gateway/request"
	"github.com/hyle-org/buy-my-tweet/src/gateway/response"
	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
	. "github.com/hyle-org/buy-my-tweet/src/utils/logger"
	"github.com/hyle-org/buy-my-tweet/src/utils/reclaim"
	"github.com/hyle-org/buy-my-tweet/src/utils/tool"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Blob data is the extracted parameters object, as serialized by the prover
func reclaimBlobData(raw json.RawMessage) (out hyle.BlobData, err error) {
	proof, err := reclaim.ParseProof(raw)
	if err != nil {
		return
	}

	var ctx struct {
		ExtractedParameters json.RawMessage `json:"extractedParameters"`
	}
	err = json.Unmarshal([]byte(proof.ClaimData.Context), &ctx)
	if err != nil {
		return
	}

	if len(ctx.ExtractedParameters) == 0 {
		return hyle.BlobData("null"), nil
	}
	return tool.MinifyJSON(ctx.ExtractedParameters), nil
}

func (self *Server) onSendBlob(c *gin.Context) {
	var in = new(request.SendBlob)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, ErrInvalidProofFormat, http.StatusBadRequest).WithError(err).Debug("Failed to parse request")
		return
	}

	if len(in.Proof) == 0 || string(in.Proof) == "null" {
		LOGE(c, ErrProofRequired, http.StatusBadRequest).Debug("Missing proof")
		return
	}

	data, err := reclaimBlobData(in.Proof)
	if err != nil {
		LOGE(c, ErrInvalidProofFormat, http.StatusBadRequest).WithError(err).Debug("Failed to parse proof")
		return
	}

	tx := &hyle.BlobTransaction{
		Identity: hyle.Identity(self.Config.Hyle.BlobIdentity),
		Blobs: []hyle.Blob{{
			ContractName: hyle.ContractName(self.Config.Hyle.BlobContractName),
			Data:         data,
		}},
	}

	txHash, err := self.node.SendTxBlob(c.Request.Context(), tx)
	if err != nil {
		self.monitor.GetReport().Hyle.Errors.NodeRequestFailures.Inc()
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to send blob transaction")
		return
	}

	self.monitor.GetReport().Hyle.State.BlobsSent.Inc()
	LOG(c).WithField("tx_hash", txHash).Info("Blob transaction sent")

	c.JSON(http.StatusOK, &response.SendBlob{TxHash: txHash, Success: true})
}

func (self *Server) onSendProof(c *gin.Context) {
	var in = new(request.SendProof)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	if in.Proof == nil {
		LOGE(c, ErrProofRequired, http.StatusBadRequest).Debug("Missing proof")
		return
	}

	result, err := self.node.SendTxProof(c.Request.Context(), &hyle.ProofTransaction{
		ContractName: hyle.ContractName(self.Config.Hyle.BlobContractName),
		Proof:        in.Proof.Proof,
	})
	if err != nil {
		self.monitor.GetReport().Hyle.Errors.NodeRequestFailures.Inc()
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to send proof transaction")
		return
	}

	self.monitor.GetReport().Hyle.State.ProofsSent.Inc()

	c.JSON(http.StatusOK, &response.SendProof{Result: result, Success: true})
}

func (self *Server) onRegisterContract(c *gin.Context) {
	var in = new(request.RegisterContract)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	if in.ContractName == "" || in.GuestId == "" {
		LOGE(c, ErrMissingParameters, http.StatusBadRequest).Debug("Missing parameters")
		return
	}

	owner := in.Owner
	if owner == "" {
		owner = hyle.DefaultOwner
	}

	txHash, err := hyle.RegisterContract(c.Request.Context(), self.node,
		hyle.ContractName(in.ContractName), in.GuestId, owner, hyle.Verifier(in.Verifier))
	if errors.Is(err, hyle.ErrInvalidProgramId) {
		LOGE(c, ErrInvalidGuestId, http.StatusBadRequest).Debug("Invalid guest id")
		return
	}
	if err != nil {
		self.monitor.GetReport().Hyle.Errors.NodeRequestFailures.Inc()
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to register contract")
		return
	}

	self.monitor.GetReport().Hyle.State.ContractsRegistered.Inc()

	c.JSON(http.StatusOK, &response.RegisterContract{
		Success:      true,
		TxHash:       txHash,
		ContractName: hyle.ContractName(in.ContractName),
		Owner:        owner,
	})
}

func (self *Server) onGetContract(c *gin.Context) {
	name := c.Param("name")

	cached, found := self.contracts.Get(name)
	if found {
		c.JSON(http.StatusOK, cached)
		return
	}

	contract, err := self.node.GetContract(c.Request.Context(), hyle.ContractName(name))
	if err != nil {
		status := hyleStatus(err)
		if status == http.StatusNotFound {
			LOGE(c, ErrContractNotFound, status).WithField("name", name).Debug("Contract not found")
			return
		}
		self.monitor.GetReport().Hyle.Errors.NodeRequestFailures.Inc()
		LOGE(c, err, status).WithField("name", name).Error("Failed to get contract")
		return
	}

	self.contracts.SetDefault(name, contract)

	c.JSON(http.StatusOK, contract)
}

// Contracts known to the indexer
func (self *Server) onListContracts(c *gin.Context) {
	contracts, err := self.indexer.ListContracts(c.Request.Context())
	if err != nil {
		self.monitor.GetReport().Hyle.Errors.IndexerRequestFailures.Inc()
		LOGE(c, err, hyleStatus(err)).Error("Failed to list contracts")
		return
	}

	c.JSON(http.StatusOK, &response.Contracts{Contracts: contracts})
}

func (self *Server) onGetInfo(c *gin.Context) {
	var out response.Info

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		out.Node, err = self.node.GetNodeInfo(ctx)
		return
	})
	g.Go(func() (err error) {
		out.Consensus, err = self.node.GetConsensusInfo(ctx)
		return
	})
	g.Go(func() (err error) {
		out.BlockHeight, err = self.node.GetBlockHeight(ctx)
		return
	})

	err := g.Wait()
	if err != nil {
		self.monitor.GetReport().Hyle.Errors.NodeRequestFailures.Inc()
		LOGE(c, err, hyleStatus(err)).Error("Failed to get node info")
		return
	}

	c.JSON(http.StatusOK, &out)
}

package hyle

import (
	"context"
	"net/url"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"

	"github.com/go-resty/resty/v2"
)

// Client of the Hyle node REST API
type NodeClient struct {
	*BaseClient
}

func NewNodeClient(config *config.Hyle) (self *NodeClient) {
	self = new(NodeClient)
	self.BaseClient = newBaseClient(config, config.NodeUrl, "hyle-node-client")
	return
}

func (self *NodeClient) SendTxBlob(ctx context.Context, tx *BlobTransaction) (out TxHash, err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		SetBody(tx).
		Post("/v1/tx/send/blob")
	if err != nil {
		return
	}

	out = parseTxHash(resp.Body())
	return
}

// Returns the raw node response, the node doesn't document its shape
func (self *NodeClient) SendTxProof(ctx context.Context, tx *ProofTransaction) (out string, err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		SetBody(tx).
		Post("/v1/tx/send/proof")
	if err != nil {
		return
	}

	out = resp.String()
	return
}

func (self *NodeClient) SendTxRegisterContract(ctx context.Context, tx *RegisterContractTransaction) (out TxHash, err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		SetBody(tx).
		Post("/v1/contract/register")
	if err != nil {
		return
	}

	out = parseTxHash(resp.Body())
	return
}

func (self *NodeClient) GetConsensusInfo(ctx context.Context) (out *ConsensusInfo, err error) {
	return get[ConsensusInfo](ctx, self.client, "/v1/consensus/info")
}

func (self *NodeClient) GetNodeInfo(ctx context.Context) (out *NodeInfo, err error) {
	return get[NodeInfo](ctx, self.client, "/v1/info")
}

func (self *NodeClient) GetBlockHeight(ctx context.Context) (out BlockHeight, err error) {
	height, err := get[BlockHeight](ctx, self.client, "/v1/da/block/height")
	if err != nil {
		return
	}
	out = *height
	return
}

func (self *NodeClient) GetContract(ctx context.Context, name ContractName) (out *Contract, err error) {
	return get[Contract](ctx, self.client, "/v1/contract/"+url.PathEscape(string(name)))
}

// GET request with a JSON response
func get[T any](ctx context.Context, client *resty.Client, path string) (out *T, err error) {
	resp, err := client.R().
		SetContext(ctx).
		SetResult(new(T)).
		ForceContentType("application/json").
		Get(path)
	if err != nil {
		return
	}

	out, ok := resp.Result().(*T)
	if !ok {
		err = ErrFailedToParse
		return
	}
	return
}

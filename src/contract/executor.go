package contract

import (
	"encoding/json"
	"strings"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
	"github.com/hyle-org/buy-my-tweet/src/utils/logger"
	"github.com/hyle-org/buy-my-tweet/src/utils/reclaim"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const OutputVersion = 1

// Executes contract actions
type Executor struct {
	config *config.Contract
	log    *logrus.Entry

	// Decides the success of a claim
	verify func(input *hyle.ContractInput) (bool, error)
}

func NewExecutor(config *config.Config) (self *Executor) {
	self = new(Executor)
	self.config = &config.Contract
	self.log = logger.NewSublogger("contract")
	self.verify = self.ProcessReclaimInput
	return
}

func (self *Executor) WithVerifier(verify func(input *hyle.ContractInput) (bool, error)) *Executor {
	self.verify = verify
	return self
}

func (self *Executor) Execute(action *Action) (out *hyle.HyleOutput, err error) {
	if action == nil || action.Input == nil {
		err = ErrInvalidInput
		return
	}

	switch action.Kind {
	case ActionClaim:
		return self.claimTweet(action.Input)
	case ActionRegister, ActionBuy:
		err = ErrNotImplemented
		return
	default:
		err = ErrUnknownAction
		return
	}
}

func (self *Executor) claimTweet(input *hyle.ContractInput) (out *hyle.HyleOutput, err error) {
	success, err := self.verify(input)
	if err != nil {
		return
	}

	out = &hyle.HyleOutput{
		Version:        OutputVersion,
		InitialState:   input.InitialState,
		NextState:      input.InitialState,
		Identity:       input.Identity,
		Index:          input.Index,
		Blobs:          hyle.FlattenBlobs(input.Blobs),
		Success:        success,
		ProgramOutputs: hyle.Bytes{},
		TxHash:         input.TxHash,
	}

	self.log.WithField("identity", out.Identity).
		WithField("success", success).
		Debug("Claim executed")
	return
}

// Checks the proof against the contract data. Malformed input is an error, a proof that fails the checks is false.
func (self *Executor) ProcessReclaimInput(input *hyle.ContractInput) (ok bool, err error) {
	if int(input.Index) >= len(input.Blobs) {
		err = errors.Wrapf(ErrInvalidInput, "no blob at index %d", input.Index)
		return
	}

	contractBlob := input.Blobs[input.Index]
	if contractBlob.ContractName != hyle.ContractName(self.config.ContractName) {
		err = errors.Wrapf(ErrInvalidInput, "blob at index %d belongs to %s", input.Index, contractBlob.ContractName)
		return
	}

	var contractData reclaim.ReclaimVerifyContractData
	err = json.Unmarshal(contractBlob.Data, &contractData)
	if err != nil {
		err = errors.Wrap(ErrInvalidInput, err.Error())
		return
	}

	var proofBlob *hyle.Blob
	for i := range input.Blobs {
		if input.Blobs[i].ContractName == hyle.ContractName(self.config.ReclaimProofName) {
			proofBlob = &input.Blobs[i]
			break
		}
	}
	if proofBlob == nil {
		err = errors.Wrap(ErrInvalidInput, "missing reclaim proof blob")
		return
	}

	proof, err := reclaim.ParseProof(proofBlob.Data)
	if err != nil {
		err = errors.Wrap(ErrInvalidInput, err.Error())
		return
	}

	err = reclaim.Verify(proof, contractData.Witnesses)
	if err != nil {
		self.log.WithError(err).Info("Reclaim proof rejected")
		return false, nil
	}

	return self.matches(proof, &contractData), nil
}

// Extracted parameters must match what the contract expects
func (self *Executor) matches(proof *reclaim.Proof, contractData *reclaim.ReclaimVerifyContractData) bool {
	ctx, err := proof.ParseContext()
	if err != nil {
		self.log.WithError(err).Info("Invalid reclaim context")
		return false
	}

	if contractData.ProviderHash != "" && !strings.EqualFold(contractData.ProviderHash, ctx.ProviderHash) {
		self.log.WithField("provider_hash", ctx.ProviderHash).Info("Provider hash mismatch")
		return false
	}

	params, err := proof.ExtractedParameters()
	if err != nil {
		return false
	}

	if contractData.Username != "" && params[reclaim.ParamScreenName] != contractData.Username {
		self.log.WithField("screen_name", params[reclaim.ParamScreenName]).Info("Username mismatch")
		return false
	}

	if contractData.Post != "" && params[reclaim.ParamFullText] != contractData.Post {
		self.log.Info("Post text mismatch")
		return false
	}

	return true
}

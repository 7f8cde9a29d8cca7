package contract

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
	"github.com/hyle-org/buy-my-tweet/src/utils/reclaim"

	"github.com/pkg/errors"
)

const (
	ContractDataFile = "reclaim-contract.json"
	ProofFile        = "reclaim.json"
)

// Builds the claim input from the JSON fixtures found in the configured directory.
// Blob order is fixed: contract data first, the proof second.
func GetClaimTweetInput(config *config.Contract) (out *hyle.ContractInput, err error) {
	contractPath := filepath.Join(config.ProofExamplesDir, ContractDataFile)
	/* #nosec */
	contractBuf, err := os.ReadFile(contractPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s", contractPath)
		return
	}

	var contractData reclaim.ReclaimVerifyContractData
	err = json.Unmarshal(contractBuf, &contractData)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse %s", contractPath)
		return
	}

	contractBlob, err := json.Marshal(&contractData)
	if err != nil {
		return
	}

	proofPath := filepath.Join(config.ProofExamplesDir, ProofFile)
	/* #nosec */
	proofBuf, err := os.ReadFile(proofPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s", proofPath)
		return
	}

	// Proof is kept as arbitrary JSON, only compacted
	proofBlob := &bytes.Buffer{}
	err = json.Compact(proofBlob, proofBuf)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse %s", proofPath)
		return
	}

	out = &hyle.ContractInput{
		InitialState: hyle.StateDigest{},
		Blobs: []hyle.Blob{
			{
				ContractName: hyle.ContractName(config.ContractName),
				Data:         contractBlob,
			},
			{
				ContractName: hyle.ContractName(config.ReclaimProofName),
				Data:         proofBlob.Bytes(),
			},
		},
		Identity:    hyle.Identity(config.Identity),
		Index:       0,
		PrivateBlob: hyle.BlobData{},
		TxHash:      "",
	}
	return
}

func MustGetClaimTweetInput(config *config.Contract) *hyle.ContractInput {
	out, err := GetClaimTweetInput(config)
	if err != nil {
		panic(err)
	}
	return out
}

package reclaim

import (
	"strings"

	"github.com/hyle-org/buy-my-tweet/src/utils/tool"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Claim identifier: keccak256 of provider, parameters and canonical context joined by new lines
func Identifier(claim *ClaimData) (out string, err error) {
	context := claim.Context
	if context != "" {
		context, err = tool.CanonicalJSON([]byte(context))
		if err != nil {
			err = errors.Wrap(ErrInvalidContext, err.Error())
			return
		}
	}

	hash := crypto.Keccak256([]byte(claim.Provider + "\n" + claim.Parameters + "\n" + context))
	out = strings.ToLower(hexutil.Encode(hash))
	return
}

// Recovers the address that signed the claim with a personal_sign signature
func RecoverSigner(claim *ClaimData, signatureHex string) (out common.Address, err error) {
	signature, err := hexutil.Decode(signatureHex)
	if err != nil {
		err = errors.Wrap(ErrInvalidSignature, err.Error())
		return
	}

	if len(signature) != crypto.SignatureLength {
		err = errors.Wrapf(ErrInvalidSignature, "expected %d bytes, got %d", crypto.SignatureLength, len(signature))
		return
	}

	// Recovery id is 27/28 in Ethereum signatures, go-ethereum expects 0/1
	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	publicKey, err := crypto.SigToPub(accounts.TextHash(claim.SignData()), sig)
	if err != nil {
		err = errors.Wrap(ErrInvalidSignature, err.Error())
		return
	}

	out = crypto.PubkeyToAddress(*publicKey)
	return
}

// Verifies the proof identifier and that every expected witness signed the claim.
// Empty expectedWitnesses falls back to the witnesses listed in the proof.
func Verify(proof *Proof, expectedWitnesses []string) (err error) {
	if len(proof.Signatures) == 0 {
		return ErrNoSignatures
	}

	identifier, err := Identifier(&proof.ClaimData)
	if err != nil {
		return
	}

	if identifier != normalizeIdentifier(proof.Identifier) ||
		identifier != normalizeIdentifier(proof.ClaimData.Identifier) {
		return errors.Wrapf(ErrIdentifierMismatch, "calculated %s", identifier)
	}

	if len(expectedWitnesses) == 0 {
		for _, witness := range proof.Witnesses {
			expectedWitnesses = append(expectedWitnesses, witness.Id)
		}
	}
	if len(expectedWitnesses) == 0 {
		return ErrNoWitnesses
	}

	signers := make(map[common.Address]struct{}, len(proof.Signatures))
	for _, signature := range proof.Signatures {
		var signer common.Address
		signer, err = RecoverSigner(&proof.ClaimData, signature)
		if err != nil {
			return
		}
		signers[signer] = struct{}{}
	}

	for _, witness := range expectedWitnesses {
		if !common.IsHexAddress(witness) {
			return errors.Wrapf(ErrWitnessMissing, "invalid witness address %s", witness)
		}
		_, ok := signers[common.HexToAddress(witness)]
		if !ok {
			return errors.Wrapf(ErrWitnessMissing, "witness %s", witness)
		}
	}

	return nil
}

// SDKs sometimes serialize the identifier with quotes
func normalizeIdentifier(in string) string {
	return strings.ToLower(strings.ReplaceAll(in, `"`, ""))
}

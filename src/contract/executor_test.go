package contract

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
	"github.com/hyle-org/buy-my-tweet/src/utils/reclaim"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestExecutorTestSuite(t *testing.T) {
	suite.Run(t, new(ExecutorTestSuite))
}

type ExecutorTestSuite struct {
	suite.Suite
	config *config.Config
	input  *hyle.ContractInput
}

func (s *ExecutorTestSuite) SetupSuite() {
	s.config = config.Default()
	s.config.Contract.ProofExamplesDir = "testdata"

	var err error
	s.input, err = GetClaimTweetInput(&s.config.Contract)
	require.Nil(s.T(), err)
}

func (s *ExecutorTestSuite) copyInput() *hyle.ContractInput {
	input := *s.input
	input.Blobs = make([]hyle.Blob, len(s.input.Blobs))
	copy(input.Blobs, s.input.Blobs)
	return &input
}

func (s *ExecutorTestSuite) TestFixtureLayout() {
	require.Len(s.T(), s.input.Blobs, 2)
	require.Equal(s.T(), hyle.ContractName("buy-my-tweet-contract"), s.input.Blobs[0].ContractName)
	require.Equal(s.T(), hyle.ContractName("buy-my-tweet-reclaim-proof"), s.input.Blobs[1].ContractName)
	require.Equal(s.T(), hyle.Identity("buy-my-tweet-verify-reclaim"), s.input.Identity)
	require.Equal(s.T(), hyle.BlobIndex(0), s.input.Index)
	require.Empty(s.T(), s.input.InitialState)
	require.Empty(s.T(), s.input.PrivateBlob)
	require.Empty(s.T(), s.input.TxHash)

	// Blobs hold compact JSON
	require.NotContains(s.T(), string(s.input.Blobs[0].Data), "\n")
	require.NotContains(s.T(), string(s.input.Blobs[1].Data), "\n")
}

func (s *ExecutorTestSuite) TestFixtureMissingDir() {
	_, err := GetClaimTweetInput(&config.Contract{ProofExamplesDir: "does-not-exist"})
	require.NotNil(s.T(), err)
	require.Panics(s.T(), func() {
		MustGetClaimTweetInput(&config.Contract{ProofExamplesDir: "does-not-exist"})
	})
}

func (s *ExecutorTestSuite) TestClaimFixture() {
	out, err := NewExecutor(s.config).Execute(&Action{Kind: ActionClaim, Input: s.input})
	require.Nil(s.T(), err)
	require.True(s.T(), out.Success)
	require.Equal(s.T(), uint32(1), out.Version)
	require.Equal(s.T(), s.input.InitialState, out.NextState)
	require.Equal(s.T(), hyle.FlattenBlobs(s.input.Blobs), out.Blobs)
	require.Empty(s.T(), out.ProgramOutputs)
	require.Equal(s.T(), s.input.Identity, out.Identity)
}

func (s *ExecutorTestSuite) TestClaimPropagatesVerifierResult() {
	for _, expected := range []bool{true, false} {
		called := false
		executor := NewExecutor(s.config).WithVerifier(func(input *hyle.ContractInput) (bool, error) {
			called = true
			return expected, nil
		})

		out, err := executor.Execute(&Action{Kind: ActionClaim, Input: s.input})
		require.Nil(s.T(), err)
		require.True(s.T(), called)
		require.Equal(s.T(), expected, out.Success)
	}
}

func (s *ExecutorTestSuite) TestClaimPropagatesVerifierError() {
	failure := errors.New("boom")
	executor := NewExecutor(s.config).WithVerifier(func(input *hyle.ContractInput) (bool, error) {
		return false, failure
	})

	out, err := executor.Execute(&Action{Kind: ActionClaim, Input: s.input})
	require.Nil(s.T(), out)
	require.ErrorIs(s.T(), err, failure)
}

func (s *ExecutorTestSuite) TestNotImplemented() {
	for _, kind := range []ActionKind{ActionRegister, ActionBuy} {
		out, err := NewExecutor(s.config).Execute(&Action{Kind: kind, Input: s.input})
		require.Nil(s.T(), out)
		require.ErrorIs(s.T(), err, ErrNotImplemented)

		out, err = NewExecutor(s.config).Execute(&Action{Kind: kind, Input: &hyle.ContractInput{}})
		require.Nil(s.T(), out)
		require.ErrorIs(s.T(), err, ErrNotImplemented)
	}
}

func (s *ExecutorTestSuite) TestWrongUsername() {
	input := s.copyInput()
	input.Blobs[0].Data = []byte(`{"witnesses":["0x21eb925d5a36715cc910c5627c44d0c590c517b8"],"username":"someone","post":"tweet this"}`)

	ok, err := NewExecutor(s.config).ProcessReclaimInput(input)
	require.Nil(s.T(), err)
	require.False(s.T(), ok)
}

func (s *ExecutorTestSuite) TestWrongPost() {
	input := s.copyInput()
	input.Blobs[0].Data = []byte(`{"witnesses":[],"username":"Matteo_Mer","post":"another tweet"}`)

	ok, err := NewExecutor(s.config).ProcessReclaimInput(input)
	require.Nil(s.T(), err)
	require.False(s.T(), ok)
}

func (s *ExecutorTestSuite) TestForeignWitness() {
	input := s.copyInput()
	input.Blobs[0].Data = []byte(`{"witnesses":["0x0000000000000000000000000000000000000001"]}`)

	ok, err := NewExecutor(s.config).ProcessReclaimInput(input)
	require.Nil(s.T(), err)
	require.False(s.T(), ok)
}

func (s *ExecutorTestSuite) TestTamperedProof() {
	var proof map[string]interface{}
	require.Nil(s.T(), json.Unmarshal(s.input.Blobs[1].Data, &proof))
	proof["signatures"] = []string{}
	data, err := json.Marshal(proof)
	require.Nil(s.T(), err)

	input := s.copyInput()
	input.Blobs[1].Data = data

	ok, err := NewExecutor(s.config).ProcessReclaimInput(input)
	require.Nil(s.T(), err)
	require.False(s.T(), ok)
}

// Input with a proof signed by key over the given context
func (s *ExecutorTestSuite) signedInput(key *ecdsa.PrivateKey, context string, unsigned map[string]string) *hyle.ContractInput {
	claim := reclaim.ClaimData{
		Provider:   "http",
		Parameters: `{"method":"GET","url":"https://x.com/i/api/graphql/tweet"}`,
		Owner:      "0x00000000000000000000000000000000000000aa",
		TimestampS: 1733415609,
		Context:    context,
		Epoch:      1,
	}
	identifier, err := reclaim.Identifier(&claim)
	require.Nil(s.T(), err)
	claim.Identifier = identifier

	signature, err := crypto.Sign(accounts.TextHash(claim.SignData()), key)
	require.Nil(s.T(), err)
	signature[crypto.RecoveryIDOffset] += 27

	witness := crypto.PubkeyToAddress(key.PublicKey).Hex()
	proof, err := json.Marshal(&reclaim.Proof{
		Identifier:               identifier,
		ClaimData:                claim,
		Signatures:               []string{hexutil.Encode(signature)},
		Witnesses:                []reclaim.Witness{{Id: witness, Url: "wss://witness.test/ws"}},
		ExtractedParameterValues: unsigned,
	})
	require.Nil(s.T(), err)

	contractData, err := json.Marshal(&reclaim.ReclaimVerifyContractData{
		Witnesses: []string{witness},
		Username:  "Matteo_Mer",
		Post:      "tweet this",
	})
	require.Nil(s.T(), err)

	input := s.copyInput()
	input.Blobs[0].Data = contractData
	input.Blobs[1].Data = proof
	return input
}

func (s *ExecutorTestSuite) TestClaimSignedContext() {
	key, err := crypto.GenerateKey()
	require.Nil(s.T(), err)

	input := s.signedInput(key, `{"extractedParameters":{"screen_name":"Matteo_Mer","full_text":"tweet this"}}`, nil)
	ok, err := NewExecutor(s.config).ProcessReclaimInput(input)
	require.Nil(s.T(), err)
	require.True(s.T(), ok)
}

func (s *ExecutorTestSuite) TestClaimIgnoresUnsignedParameters() {
	key, err := crypto.GenerateKey()
	require.Nil(s.T(), err)

	input := s.signedInput(key, `{"extractedParameters":{"something":"else"}}`, map[string]string{
		"screen_name": "Matteo_Mer",
		"full_text":   "tweet this",
	})

	out, err := NewExecutor(s.config).Execute(&Action{Kind: ActionClaim, Input: input})
	require.Nil(s.T(), err)
	require.False(s.T(), out.Success)
}

func (s *ExecutorTestSuite) TestInvalidInput() {
	executor := NewExecutor(s.config)

	input := s.copyInput()
	input.Index = 5
	_, err := executor.ProcessReclaimInput(input)
	require.ErrorIs(s.T(), err, ErrInvalidInput)

	input = s.copyInput()
	input.Blobs[0].Data = []byte("not json")
	_, err = executor.ProcessReclaimInput(input)
	require.ErrorIs(s.T(), err, ErrInvalidInput)

	input = s.copyInput()
	input.Blobs = input.Blobs[:1]
	_, err = executor.ProcessReclaimInput(input)
	require.ErrorIs(s.T(), err, ErrInvalidInput)

	input = s.copyInput()
	input.Index = 1
	_, err = executor.ProcessReclaimInput(input)
	require.ErrorIs(s.T(), err, ErrInvalidInput)
}

func TestParseActionKind(t *testing.T) {
	kind, err := ParseActionKind(" Claim ")
	require.Nil(t, err)
	require.Equal(t, ActionClaim, kind)

	kind, err = ParseActionKind("BUY")
	require.Nil(t, err)
	require.Equal(t, ActionBuy, kind)

	_, err = ParseActionKind("sell")
	require.ErrorIs(t, err, ErrUnknownAction)
}

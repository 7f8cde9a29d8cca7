package reclaim

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Claim attested by the witnesses
type ClaimData struct {
	Provider   string `json:"provider"`
	Parameters string `json:"parameters"`
	Owner      string `json:"owner"`
	TimestampS uint64 `json:"timestampS"`
	Context    string `json:"context"`
	Identifier string `json:"identifier"`
	Epoch      uint64 `json:"epoch"`
}

type Witness struct {
	Id  string `json:"id"`
	Url string `json:"url"`
}

// Reclaim proof, the way the reclaim SDK serializes it
type Proof struct {
	Identifier               string            `json:"identifier"`
	ClaimData                ClaimData         `json:"claimData"`
	Signatures               []string          `json:"signatures"`
	Witnesses                []Witness         `json:"witnesses"`
	ExtractedParameterValues map[string]string `json:"extractedParameterValues,omitempty"`
	PublicData               json.RawMessage   `json:"publicData,omitempty"`
}

// Context attached to the claim, serialized into ClaimData.Context
type Context struct {
	ContextAddress      string            `json:"contextAddress"`
	ContextMessage      string            `json:"contextMessage"`
	ProviderHash        string            `json:"providerHash"`
	ExtractedParameters map[string]string `json:"extractedParameters"`
}

// Data of the contract that verifies a claimed tweet
type ReclaimVerifyContractData struct {
	// Addresses of witnesses that must have signed the claim.
	// Empty means the witnesses listed in the proof.
	Witnesses []string `json:"witnesses"`

	// Expected author of the post
	Username string `json:"username"`

	// Expected text of the post
	Post string `json:"post"`

	// Expected provider, empty accepts any
	ProviderHash string `json:"provider_hash"`
}

// Extracted parameter names of the X post provider
const (
	ParamScreenName = "screen_name"
	ParamFullText   = "full_text"
	ParamCreatedAt  = "created_at"
)

func ParseProof(data []byte) (out *Proof, err error) {
	out = new(Proof)
	err = json.Unmarshal(data, out)
	if err != nil {
		return nil, err
	}
	return
}

func (self *Proof) ParseContext() (out *Context, err error) {
	out = new(Context)
	if self.ClaimData.Context == "" {
		return
	}

	err = json.Unmarshal([]byte(self.ClaimData.Context), out)
	if err != nil {
		return nil, err
	}
	return
}

// Parameters extracted by the provider, as signed by the witnesses.
// The top level extractedParameterValues is not covered by the signature and is never read here.
func (self *Proof) ExtractedParameters() (out map[string]string, err error) {
	ctx, err := self.ParseContext()
	if err != nil {
		return nil, err
	}

	out = make(map[string]string, len(ctx.ExtractedParameters))
	for k, v := range ctx.ExtractedParameters {
		out[k] = v
	}
	return
}

// Data signed by every witness
func (self *ClaimData) SignData() []byte {
	return []byte(self.Identifier + "\n" +
		strings.ToLower(self.Owner) + "\n" +
		strconv.FormatUint(self.TimestampS, 10) + "\n" +
		strconv.FormatUint(self.Epoch, 10))
}

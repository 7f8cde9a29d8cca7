package webauthn

import (
	"bytes"
	"encoding/json"

	"github.com/dvsekhvalnov/jose2go/base64url"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/pkg/errors"
)

// Checks the JSON is a well formed registration credential.
// Attestation statement is not verified.
func VerifyAttestation(data []byte) (err error) {
	_, err = ParseAttestation(data)
	return
}

func ParseAttestation(data []byte) (out *protocol.ParsedCredentialCreationData, err error) {
	out, err = protocol.ParseCredentialCreationResponseBody(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidAttestation, describe(err))
	}
	return
}

// Collected client data, as signed by the authenticator
type ClientData struct {
	Type        string `json:"type"`
	Challenge   string `json:"challenge"`
	Origin      string `json:"origin"`
	CrossOrigin bool   `json:"crossOrigin"`
}

// Extracts the client data from a registration or authentication response
func ChallengeFromClientData(body []byte) (out *ClientData, err error) {
	var credential struct {
		Response struct {
			ClientDataJSON string `json:"clientDataJSON"`
		} `json:"response"`
	}
	err = json.Unmarshal(body, &credential)
	if err != nil {
		return
	}

	if credential.Response.ClientDataJSON == "" {
		err = errors.New("missing clientDataJSON")
		return
	}

	raw, err := base64url.Decode(credential.Response.ClientDataJSON)
	if err != nil {
		return
	}

	out = new(ClientData)
	err = json.Unmarshal(raw, out)
	if err != nil {
		return nil, err
	}
	return
}

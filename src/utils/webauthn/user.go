package webauthn

import (
	"github.com/go-webauthn/webauthn/protocol"
	gowebauthn "github.com/go-webauthn/webauthn/webauthn"
)

// Relying party user with its registered passkeys
type User struct {
	Id          string
	Name        string
	Credentials []gowebauthn.Credential
}

func (self *User) WebAuthnID() []byte {
	return []byte(self.Id)
}

func (self *User) WebAuthnName() string {
	return self.Name
}

func (self *User) WebAuthnDisplayName() string {
	return self.Name
}

func (self *User) WebAuthnCredentials() []gowebauthn.Credential {
	return self.Credentials
}

func (self *User) exclusions() (out []protocol.CredentialDescriptor) {
	for _, credential := range self.Credentials {
		out = append(out, credential.Descriptor())
	}
	return
}

package webauthn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/logger"
	"github.com/hyle-org/buy-my-tweet/src/utils/store"

	"github.com/dvsekhvalnov/jose2go/base64url"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	gowebauthn "github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Persistence of users, credentials and pending ceremonies
type Store interface {
	GetUserId(ctx context.Context, username string) (string, error)
	GetUserName(ctx context.Context, userId string) (string, error)
	SetUser(ctx context.Context, userId, username string) error
	GetCredentials(ctx context.Context, userId string) (map[string][]byte, error)
	StoreCredential(ctx context.Context, userId, credentialId string, credential []byte) error
	StoreSession(ctx context.Context, userId string, session []byte, ttl time.Duration) error
	ConsumeSession(ctx context.Context, userId string) ([]byte, error)
}

type ceremonyKind string

const (
	ceremonyRegistration ceremonyKind = "registration"
	ceremonyLogin        ceremonyKind = "login"
)

// Pending ceremony kept between the begin and finish calls
type ceremony struct {
	Kind     ceremonyKind           `json:"kind"`
	Username string                 `json:"username"`
	Session  gowebauthn.SessionData `json:"session"`
}

type RegistrationOptions struct {
	Options  protocol.PublicKeyCredentialCreationOptions `json:"options"`
	UserId   string                                      `json:"userId"`
	Username string                                      `json:"username"`
}

type LoginOptions struct {
	Options protocol.PublicKeyCredentialRequestOptions `json:"options"`
	UserId  string                                     `json:"userId"`
}

// Registration and login ceremonies of passkeys
type Service struct {
	config   *config.WebAuthn
	log      *logrus.Entry
	webAuthn *gowebauthn.WebAuthn
	store    Store

	newUserId func() string
}

func NewService(config *config.Config) (self *Service, err error) {
	self = new(Service)
	self.config = &config.WebAuthn
	self.log = logger.NewSublogger("webauthn")
	self.newUserId = uuid.NewString

	timeout := gowebauthn.TimeoutConfig{
		Enforce:    true,
		Timeout:    config.WebAuthn.Timeout,
		TimeoutUVD: config.WebAuthn.Timeout,
	}

	self.webAuthn, err = gowebauthn.New(&gowebauthn.Config{
		RPID:          config.WebAuthn.RPID,
		RPDisplayName: config.WebAuthn.RPDisplayName,
		RPOrigins:     config.WebAuthn.RPOrigins,
		Timeouts: gowebauthn.TimeoutsConfig{
			Login:        timeout,
			Registration: timeout,
		},
	})
	if err != nil {
		return nil, err
	}
	return
}

func (self *Service) WithStore(store Store) *Service {
	self.store = store
	return self
}

func (self *Service) saveCeremony(ctx context.Context, userId string, kind ceremonyKind, username string, session *gowebauthn.SessionData) (err error) {
	buf, err := json.Marshal(&ceremony{
		Kind:     kind,
		Username: username,
		Session:  *session,
	})
	if err != nil {
		return
	}
	return self.store.StoreSession(ctx, userId, buf, self.config.ChallengeTTL)
}

// Challenge can be used only once, even if the verification fails
func (self *Service) consumeCeremony(ctx context.Context, userId string, kind ceremonyKind) (out *ceremony, err error) {
	buf, err := self.store.ConsumeSession(ctx, userId)
	if errors.Is(err, store.ErrNotFound) {
		err = ErrChallengeNotFound
		return
	}
	if err != nil {
		return
	}

	out = new(ceremony)
	err = json.Unmarshal(buf, out)
	if err != nil {
		return nil, err
	}

	if out.Kind != kind {
		return nil, ErrWrongCeremony
	}
	return
}

func (self *Service) loadUser(ctx context.Context, userId, username string) (out *User, err error) {
	credentials, err := self.store.GetCredentials(ctx, userId)
	if err != nil {
		return
	}

	out = &User{Id: userId, Name: username}
	for id, buf := range credentials {
		var credential gowebauthn.Credential
		err = json.Unmarshal(buf, &credential)
		if err != nil {
			self.log.WithError(err).WithField("credential_id", id).Warn("Skipping malformed credential")
			continue
		}
		out.Credentials = append(out.Credentials, credential)
	}
	return out, nil
}

func (self *Service) saveCredential(ctx context.Context, userId string, credential *gowebauthn.Credential) (err error) {
	buf, err := json.Marshal(credential)
	if err != nil {
		return
	}
	return self.store.StoreCredential(ctx, userId, base64url.Encode(credential.ID), buf)
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// Creates options for a new passkey of a new user
func (self *Service) BeginRegistration(ctx context.Context, username string) (out *RegistrationOptions, err error) {
	username, err = normalizeUsername(username)
	if err != nil {
		return
	}

	_, err = self.store.GetUserId(ctx, username)
	if err == nil {
		err = ErrUsernameTaken
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		return
	}

	user := &User{Id: self.newUserId(), Name: username}

	creation, session, err := self.webAuthn.BeginRegistration(user,
		gowebauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			AuthenticatorAttachment: protocol.Platform,
			RequireResidentKey:      protocol.ResidentKeyRequired(),
			ResidentKey:             protocol.ResidentKeyRequirementRequired,
			UserVerification:        protocol.VerificationRequired,
		}),
		gowebauthn.WithConveyancePreference(protocol.PreferDirectAttestation),
		gowebauthn.WithCredentialParameters([]protocol.CredentialParameter{
			{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgES256},
			{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgRS256},
		}),
		gowebauthn.WithExclusions(user.exclusions()),
		gowebauthn.WithExtensions(protocol.AuthenticationExtensions{"credProps": true}),
	)
	if err != nil {
		return nil, err
	}

	err = self.saveCeremony(ctx, user.Id, ceremonyRegistration, username, session)
	if err != nil {
		return
	}

	self.log.WithField("user_id", user.Id).WithField("username", username).Debug("Registration started")

	out = &RegistrationOptions{
		Options:  creation.Response,
		UserId:   user.Id,
		Username: username,
	}
	return
}

// Verifies the authenticator response and stores the new credential
func (self *Service) FinishRegistration(ctx context.Context, userId string, body []byte) (out *User, err error) {
	pending, err := self.consumeCeremony(ctx, userId, ceremonyRegistration)
	if err != nil {
		return
	}

	parsed, err := ParseAttestation(body)
	if err != nil {
		return
	}

	out = &User{Id: userId, Name: pending.Username}
	credential, err := self.webAuthn.CreateCredential(out, pending.Session, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrVerificationFailed, describe(err))
	}

	err = self.store.SetUser(ctx, userId, pending.Username)
	if errors.Is(err, store.ErrUsernameTaken) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}

	err = self.saveCredential(ctx, userId, credential)
	if err != nil {
		return nil, err
	}

	out.Credentials = []gowebauthn.Credential{*credential}

	self.log.WithField("user_id", userId).WithField("username", pending.Username).Info("Passkey registered")
	return
}

// Creates options for signing in with one of the user's passkeys
func (self *Service) BeginLogin(ctx context.Context, username string) (out *LoginOptions, err error) {
	username, err = normalizeUsername(username)
	if err != nil {
		return
	}

	userId, err := self.store.GetUserId(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		err = ErrUserNotFound
		return
	}
	if err != nil {
		return
	}

	user, err := self.loadUser(ctx, userId, username)
	if err != nil {
		return
	}
	if len(user.Credentials) == 0 {
		err = ErrNoCredentials
		return
	}

	assertion, session, err := self.webAuthn.BeginLogin(user,
		gowebauthn.WithUserVerification(protocol.VerificationPreferred),
	)
	if err != nil {
		return nil, err
	}

	err = self.saveCeremony(ctx, userId, ceremonyLogin, username, session)
	if err != nil {
		return
	}

	out = &LoginOptions{
		Options: assertion.Response,
		UserId:  userId,
	}
	return
}

// Verifies the assertion and persists the new sign counter
func (self *Service) FinishLogin(ctx context.Context, userId string, body []byte) (out *User, err error) {
	pending, err := self.consumeCeremony(ctx, userId, ceremonyLogin)
	if err != nil {
		return
	}

	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(ErrVerificationFailed, describe(err))
	}

	out, err = self.loadUser(ctx, userId, pending.Username)
	if err != nil {
		return
	}

	credential, err := self.webAuthn.ValidateLogin(out, pending.Session, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrVerificationFailed, describe(err))
	}

	if credential.Authenticator.CloneWarning {
		self.log.WithField("user_id", userId).Warn("Sign counter did not increase, authenticator may be cloned")
	}

	err = self.saveCredential(ctx, userId, credential)
	if err != nil {
		return nil, err
	}

	self.log.WithField("user_id", userId).Debug("Login verified")
	return
}

// Resolves the user name of a registered user
func (self *Service) GetUserName(ctx context.Context, userId string) (out string, err error) {
	out, err = self.store.GetUserName(ctx, userId)
	if errors.Is(err, store.ErrNotFound) {
		err = ErrUserNotFound
	}
	return
}

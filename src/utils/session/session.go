package session

import (
	"errors"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"

	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrMissingToken = errors.New("missing session token")
)

// Issues and verifies HS256 session tokens, the subject is the user id
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(config *config.Session) (self *Issuer) {
	self = new(Issuer)
	self.key = []byte(config.Secret)
	self.ttl = config.TTL
	self.now = time.Now
	return
}

func (self *Issuer) Issue(userId string) (out string, err error) {
	now := self.now()

	token := jwt.New()
	err = token.Set(jwt.SubjectKey, userId)
	if err != nil {
		return
	}
	err = token.Set(jwt.IssuedAtKey, now)
	if err != nil {
		return
	}
	err = token.Set(jwt.ExpirationKey, now.Add(self.ttl))
	if err != nil {
		return
	}

	signed, err := jwt.Sign(token, jwa.HS256, self.key)
	if err != nil {
		return
	}

	out = string(signed)
	return
}

// Returns the user id the token was issued for
func (self *Issuer) Verify(tokenString string) (userId string, err error) {
	if tokenString == "" {
		err = ErrMissingToken
		return
	}

	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithVerify(jwa.HS256, self.key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(self.now)),
	)
	if err != nil {
		err = pkgerrors.Wrap(ErrInvalidToken, err.Error())
		return
	}

	userId = token.Subject()
	if userId == "" {
		err = pkgerrors.Wrap(ErrInvalidToken, "missing subject")
	}
	return
}

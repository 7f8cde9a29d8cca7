package gateway

import (
	"net/http"

	"github.com/hyle-org/buy-my-tweet/src/gateway/request"
	"github.com/hyle-org/buy-my-tweet/src/gateway/response"
	. "github.com/hyle-org/buy-my-tweet/src/utils/logger"
	"github.com/hyle-org/buy-my-tweet/src/utils/webauthn"

	"github.com/gin-gonic/gin"
)

func (self *Server) onRegister(c *gin.Context) {
	var in = new(request.Register)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	out, err := self.webAuthn.BeginRegistration(c.Request.Context(), in.Username)
	if err != nil {
		self.monitor.GetReport().WebAuthn.Errors.RegistrationFailures.Inc()
		LOGE(c, err, webAuthnStatus(err)).WithField("username", in.Username).Info("Failed to generate registration options")
		return
	}

	self.monitor.GetReport().WebAuthn.State.RegistrationsStarted.Inc()

	c.JSON(http.StatusOK, out)
}

func (self *Server) onRegisterVerify(c *gin.Context) {
	var in = new(request.RegisterVerify)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	if in.UserId == "" {
		LOGE(c, ErrUserIdRequired, http.StatusBadRequest).Debug("Missing user id")
		return
	}

	user, err := self.webAuthn.FinishRegistration(c.Request.Context(), in.UserId, in.Verification)
	if err != nil {
		self.monitor.GetReport().WebAuthn.Errors.RegistrationFailures.Inc()
		LOGE(c, err, webAuthnStatus(err)).WithField("user_id", in.UserId).Info("Failed to verify registration")
		return
	}

	self.monitor.GetReport().WebAuthn.State.Registrations.Inc()

	self.respondVerified(c, user)
}

func (self *Server) onLogin(c *gin.Context) {
	var in = new(request.Login)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	out, err := self.webAuthn.BeginLogin(c.Request.Context(), in.Username)
	if err != nil {
		self.monitor.GetReport().WebAuthn.Errors.LoginFailures.Inc()
		LOGE(c, err, webAuthnStatus(err)).WithField("username", in.Username).Info("Failed to generate authentication options")
		return
	}

	self.monitor.GetReport().WebAuthn.State.LoginsStarted.Inc()

	c.JSON(http.StatusOK, out)
}

func (self *Server) onLoginVerify(c *gin.Context) {
	var in = new(request.LoginVerify)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	if in.UserId == "" {
		LOGE(c, ErrUserIdRequired, http.StatusBadRequest).Debug("Missing user id")
		return
	}

	user, err := self.webAuthn.FinishLogin(c.Request.Context(), in.UserId, in.Response)
	if err != nil {
		self.monitor.GetReport().WebAuthn.Errors.LoginFailures.Inc()
		LOGE(c, err, webAuthnStatus(err)).WithField("user_id", in.UserId).Info("Failed to verify authentication")
		return
	}

	self.monitor.GetReport().WebAuthn.State.Logins.Inc()

	self.respondVerified(c, user)
}

// Verified ceremonies open a session
func (self *Server) respondVerified(c *gin.Context, user *webauthn.User) {
	token, err := self.issuer.Issue(user.Id)
	if err != nil {
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to issue session token")
		return
	}

	c.JSON(http.StatusOK, &response.Verified{
		Verified: true,
		UserId:   user.Id,
		Username: user.Name,
		Token:    token,
	})
}

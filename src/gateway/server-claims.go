package gateway

import (
	"errors"
	"net/http"

	"github.com/hyle-org/buy-my-tweet/src/catalog"
	"github.com/hyle-org/buy-my-tweet/src/gateway/request"
	"github.com/hyle-org/buy-my-tweet/src/gateway/response"
	. "github.com/hyle-org/buy-my-tweet/src/utils/logger"
	"github.com/hyle-org/buy-my-tweet/src/utils/model"
	"github.com/hyle-org/buy-my-tweet/src/utils/session"

	"github.com/gin-gonic/gin"
)

func (self *Server) onCalculateClaim(c *gin.Context) {
	var in = new(request.CalculateClaim)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	amount, err := catalog.CalculateReward(&catalog.RewardRequest{
		Username: in.Username,
		Post:     in.Post,
		Date:     in.Date,
	})
	if errors.Is(err, catalog.ErrMissingData) {
		LOGE(c, ErrMissingData, http.StatusBadRequest).Debug("Missing claim data")
		return
	}
	if err != nil {
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to calculate claimable amount")
		return
	}

	c.JSON(http.StatusOK, &response.CalculateClaim{Success: true, Amount: amount})
}

// Records the reward of the session user and resets the proof flow
func (self *Server) onClaim(c *gin.Context) {
	var in = new(request.Claim)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	if in.Username == "" || in.Amount == 0 {
		LOGE(c, ErrMissingClaimData, http.StatusBadRequest).Debug("Missing claim data")
		return
	}

	username, err := self.webAuthn.GetUserName(c.Request.Context(), session.UserId(c))
	if err != nil {
		LOGE(c, err, webAuthnStatus(err)).Info("Failed to resolve session user")
		return
	}
	if username != in.Username {
		LOGE(c, ErrForeignClaim, http.StatusForbidden).
			WithField("username", in.Username).
			WithField("session_username", username).
			Info("Claim of another user")
		return
	}

	err = self.ledger.Record(c.Request.Context(), &model.Claim{
		Username:        in.Username,
		Amount:          in.Amount,
		ProofIdentifier: self.latestProofIdentifier(c),
	})
	if err != nil {
		self.monitor.GetReport().Proofs.Errors.LedgerFailures.Inc()
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to process claim")
		return
	}
	self.monitor.GetReport().Proofs.State.ClaimsRecorded.Inc()

	err = self.store.ClearLatestProof(c.Request.Context())
	if err != nil {
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to clear proof")
		return
	}

	LOG(c).WithField("username", in.Username).WithField("amount", in.Amount).Info("Reward claimed")

	c.JSON(http.StatusOK, &response.Claim{Success: true, Message: "Reward claimed successfully"})
}

// Claims recorded for a user, newest first
func (self *Server) onGetClaims(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		LOGE(c, ErrUsernameRequired, http.StatusBadRequest).Debug("Missing username")
		return
	}

	claims, err := self.ledger.ForUser(c.Request.Context(), username)
	if err != nil {
		self.monitor.GetReport().Proofs.Errors.LedgerFailures.Inc()
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to list claims")
		return
	}
	if claims == nil {
		claims = []model.Claim{}
	}

	c.JSON(http.StatusOK, &response.Claims{Claims: claims})
}

func (self *Server) onGetTweetsToVerify(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		LOGE(c, ErrUsernameRequired, http.StatusBadRequest).Debug("Missing username")
		return
	}

	c.JSON(http.StatusOK, catalog.TweetsToVerify(username))
}

func (self *Server) onGetUsers(c *gin.Context) {
	c.JSON(http.StatusOK, &response.Users{Users: catalog.Users()})
}

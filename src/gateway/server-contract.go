package gateway

import (
	"net/http"

	"github.com/hyle-org/buy-my-tweet/src/contract"
	"github.com/hyle-org/buy-my-tweet/src/gateway/request"
	. "github.com/hyle-org/buy-my-tweet/src/utils/logger"

	"github.com/gin-gonic/gin"
)

func (self *Server) onExecute(c *gin.Context) {
	var in = new(request.ExecuteContract)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Error("Failed to parse request")
		return
	}

	kind, err := contract.ParseActionKind(in.Action)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).WithField("action", in.Action).Debug("Unknown action")
		return
	}

	input := in.Input
	if input == nil {
		input, err = contract.GetClaimTweetInput(&self.Config.Contract)
		if err != nil {
			LOGE(c, err, http.StatusInternalServerError).Error("Failed to load fixture input")
			return
		}
	}

	self.monitor.GetReport().Proofs.State.ClaimsExecuted.Inc()

	out, err := self.executor.Execute(&contract.Action{Kind: kind, Input: input})
	if err != nil {
		self.monitor.GetReport().Proofs.Errors.ClaimFailures.Inc()
		LOGE(c, err, contractStatus(err)).WithField("action", kind).Info("Failed to execute action")
		return
	}

	if out.Success {
		self.monitor.GetReport().Proofs.State.ClaimsSucceeded.Inc()
	}

	c.JSON(http.StatusOK, out)
}

package session

import (
	"net/http"
	"strings"

	"github.com/hyle-org/buy-my-tweet/src/utils/logger"

	"github.com/gin-gonic/gin"
)

const userIdKey = "session.user_id"

// Requires a valid bearer token, the user id is available through UserId
func (self *Issuer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			token = ""
		}

		userId, err := self.Verify(strings.TrimSpace(token))
		if err != nil {
			logger.LOGE(c, err, http.StatusUnauthorized).Debug("Unauthorized request")
			return
		}

		c.Set(userIdKey, userId)
		c.Next()
	}
}

func UserId(c *gin.Context) string {
	return c.GetString(userIdKey)
}

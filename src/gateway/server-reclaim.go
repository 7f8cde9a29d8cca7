package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/hyle-org/buy-my-tweet/src/gateway/response"
	. "github.com/hyle-org/buy-my-tweet/src/utils/logger"
	"github.com/hyle-org/buy-my-tweet/src/utils/reclaim"
	"github.com/hyle-org/buy-my-tweet/src/utils/store"
	"github.com/hyle-org/buy-my-tweet/src/utils/tool"

	"github.com/gin-gonic/gin"
)

const maxProofSize = 1 << 20

// Streams verified proofs as server-sent events
func (self *Server) onReceiveEvents(c *gin.Context) {
	subscriber := self.broker.Subscribe()
	defer self.broker.Unsubscribe(subscriber)

	self.monitor.GetReport().Gateway.State.EventSubscribers.Inc()
	defer self.monitor.GetReport().Gateway.State.EventSubscribers.Dec()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	LOG(c).WithField("subscriber", subscriber.Id).Debug("Event stream opened")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case frame, ok := <-subscriber.C:
			if !ok {
				return false
			}
			_, err := w.Write(frame)
			return err == nil
		}
	})

	LOG(c).WithField("subscriber", subscriber.Id).Debug("Event stream closed")
}

// Callback of the reclaim prover. Body is an URL encoded JSON proof.
func (self *Server) onReceiveProof(c *gin.Context) {
	self.monitor.GetReport().Proofs.State.ProofsReceived.Inc()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxProofSize))
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to read proof")
		return
	}

	decoded, err := url.PathUnescape(string(body))
	if err != nil {
		LOGE(c, ErrInvalidProofFormat, http.StatusBadRequest).WithError(err).Debug("Failed to decode proof")
		return
	}

	if !tool.IsJSON([]byte(decoded)) {
		LOGE(c, ErrInvalidProofFormat, http.StatusBadRequest).Debug("Proof is not JSON")
		return
	}
	raw := tool.MinifyJSON([]byte(decoded))

	proof, err := reclaim.ParseProof(raw)
	if err != nil {
		LOGE(c, ErrInvalidProofFormat, http.StatusBadRequest).WithError(err).Debug("Failed to parse proof")
		return
	}

	err = reclaim.Verify(proof, nil)
	if err != nil {
		self.monitor.GetReport().Proofs.Errors.ProofsRejected.Inc()
		LOG(c).WithError(err).WithField("identifier", proof.Identifier).Info("Proof is not valid")

		message := err.Error()
		self.SubmitToWorker(func() {
			err := self.store.StoreProofError(self.Ctx, message)
			if err != nil {
				self.Log.WithError(err).Error("Failed to store proof error")
			}
		})

		c.JSON(http.StatusBadRequest, gin.H{"message": "Proof is not valid"})
		return
	}

	self.monitor.GetReport().Proofs.State.ProofsVerified.Inc()

	err = self.store.StoreLatestProof(c.Request.Context(), raw)
	if err != nil {
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to store proof")
		return
	}

	delivered := self.broker.Publish(raw)
	self.monitor.GetReport().Proofs.State.EventsPublished.Add(uint64(delivered))

	LOG(c).WithField("identifier", proof.Identifier).
		WithField("delivered", delivered).
		Info("Proof verified")

	c.JSON(http.StatusOK, &response.ReceiveProof{Proof: raw})
}

// Latest verified proof, otherwise the reason the last one was rejected
func (self *Server) onGetProofStatus(c *gin.Context) {
	latest, err := self.store.GetLatestProof(c.Request.Context())
	if err == nil {
		var out []byte
		out, err = withTimestamp(latest)
		if err != nil {
			LOGE(c, err, http.StatusInternalServerError).Error("Failed to encode latest proof")
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", out)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to get latest proof")
		return
	}

	message, err := self.store.GetProofError(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, &response.ProofStatus{Error: message})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to get proof error")
		return
	}

	c.JSON(http.StatusOK, &response.ProofStatus{Status: "pending"})
}

// Identifier of the latest proof, empty when there's none
func (self *Server) latestProofIdentifier(c *gin.Context) string {
	latest, err := self.store.GetLatestProof(c.Request.Context())
	if err != nil {
		return ""
	}

	var proof struct {
		Identifier string `json:"identifier"`
	}
	if json.Unmarshal(latest.Proof, &proof) != nil {
		return ""
	}
	return proof.Identifier
}

// Stored proof with the time it was received, in unix milliseconds
func withTimestamp(latest *store.LatestProof) (out []byte, err error) {
	var fields map[string]json.RawMessage
	err = json.Unmarshal(latest.Proof, &fields)
	if err != nil {
		return
	}

	fields["timestamp"], err = json.Marshal(latest.Timestamp.UnixMilli())
	if err != nil {
		return
	}

	return tool.MarshalNoEscape(fields)
}

package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/events"
	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
	"github.com/hyle-org/buy-my-tweet/src/utils/model"
	monitor_gateway "github.com/hyle-org/buy-my-tweet/src/utils/monitoring/gateway"
	"github.com/hyle-org/buy-my-tweet/src/utils/store"
	"github.com/hyle-org/buy-my-tweet/src/utils/tool"
	"github.com/hyle-org/buy-my-tweet/src/utils/webauthn"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"
)

const (
	nodeUrl        = "http://node.hyle.test"
	indexerUrl     = "http://indexer.hyle.test"
	fixtureProof   = "../../proof-examples/reclaim.json"
	fixtureContext = `{"created_at":"Thu Dec 05 16:20:09 +0000 2024","full_text":"tweet this","screen_name":"Matteo_Mer"}`
)

type fakeLedger struct {
	mtx    sync.Mutex
	claims []model.Claim
}

func (self *fakeLedger) Record(ctx context.Context, claim *model.Claim) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.claims = append(self.claims, *claim)
	return nil
}

func (self *fakeLedger) ForUser(ctx context.Context, username string) (out []model.Claim, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	for _, claim := range self.claims {
		if claim.Username == username {
			out = append(out, claim)
		}
	}
	return
}

func (self *fakeLedger) Close() {}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type ServerTestSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	config  *config.Config
	redis   *miniredis.Miniredis
	store   *store.Store
	broker  *events.Broker
	monitor *monitor_gateway.Monitor
	ledger  *fakeLedger
	server  *Server
	proof   []byte
}

func (s *ServerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	proof, err := os.ReadFile(fixtureProof)
	require.Nil(s.T(), err)
	s.proof = tool.MinifyJSON(proof)
}

func (s *ServerTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.redis = miniredis.RunT(s.T())

	port, err := strconv.ParseUint(s.redis.Port(), 10, 16)
	require.Nil(s.T(), err)

	s.config = config.Default()
	s.config.IsDevelopment = true
	s.config.Redis.Host = s.redis.Host()
	s.config.Redis.Port = uint16(port)
	s.config.Contract.ProofExamplesDir = "../../proof-examples"
	s.config.Hyle.NodeUrl = nodeUrl
	s.config.Hyle.IndexerUrl = indexerUrl
	s.config.Hyle.RetryCount = 0
	s.config.Hyle.RequestsPerSecond = 0
	s.config.Gateway.LimiterRate = 1000
	s.config.Gateway.LimiterBurst = 1000

	s.store = store.NewStore(s.config)
	require.Nil(s.T(), s.store.Connect())

	s.setupServer()
}

func (s *ServerTestSuite) setupServer() {
	service, err := webauthn.NewService(s.config)
	require.Nil(s.T(), err)

	node := hyle.NewNodeClient(&s.config.Hyle)
	httpmock.ActivateNonDefault(node.GetClient().GetClient())
	indexer := hyle.NewIndexerClient(&s.config.Hyle)
	httpmock.ActivateNonDefault(indexer.GetClient().GetClient())

	s.broker = events.NewBroker(s.config)
	s.monitor = monitor_gateway.NewMonitor(s.config)
	s.ledger = &fakeLedger{}

	s.server = NewServer(s.config).
		WithMonitor(s.monitor).
		WithBroker(s.broker).
		WithStore(s.store).
		WithWebAuthn(service.WithStore(s.store)).
		WithHyle(node, indexer).
		WithLedger(s.ledger)
	require.Nil(s.T(), s.server.register())
}

func (s *ServerTestSuite) TearDownTest() {
	s.server.Workers.StopWait()
	httpmock.DeactivateAndReset()
	s.store.Close()
	s.cancel()
}

func (s *ServerTestSuite) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.server.Router.ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) decode(w *httptest.ResponseRecorder) (out map[string]interface{}) {
	require.Nil(s.T(), json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return
}

func (s *ServerTestSuite) TestUsers() {
	w := s.do(http.MethodGet, "/api/users", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.Len(s.T(), s.decode(w)["users"], 4)
	require.NotEmpty(s.T(), w.Header().Get(RequestIdHeader))
}

func (s *ServerTestSuite) TestTweetsToVerify() {
	w := s.do(http.MethodGet, "/api/tweets-to-verify", "")
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), "Username is required", s.decode(w)["error"])

	w = s.do(http.MethodGet, "/api/tweets-to-verify?username=matteo_mer", "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	var tweets []map[string]interface{}
	require.Nil(s.T(), json.Unmarshal(w.Body.Bytes(), &tweets))
	require.Len(s.T(), tweets, 2)

	w = s.do(http.MethodGet, "/api/tweets-to-verify?username=nobody", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.Equal(s.T(), "[]", w.Body.String())
}

func (s *ServerTestSuite) TestCalculateClaim() {
	w := s.do(http.MethodPost, "/api/calculate-claim", `{"username":"alice"}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), "Missing required data", s.decode(w)["error"])

	w = s.do(http.MethodPost, "/api/calculate-claim", `{"username":"alice","post":"hi","date":"2024-12-05"}`)
	require.Equal(s.T(), http.StatusOK, w.Code)
	out := s.decode(w)
	require.Equal(s.T(), true, out["success"])
	require.Equal(s.T(), float64(100), out["amount"])
}

func (s *ServerTestSuite) TestExecute() {
	w := s.do(http.MethodPost, "/api/contract/execute", `{"action":"claim"}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	out := s.decode(w)
	require.Equal(s.T(), true, out["success"])
	require.Equal(s.T(), float64(1), out["version"])
	require.Equal(s.T(), uint64(1), s.monitor.GetReport().Proofs.State.ClaimsSucceeded.Load())

	w = s.do(http.MethodPost, "/api/contract/execute", `{"action":"buy"}`)
	require.Equal(s.T(), http.StatusNotImplemented, w.Code)

	w = s.do(http.MethodPost, "/api/contract/execute", `{"action":"sell"}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/contract/execute", `{}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestSendBlob() {
	var received hyle.BlobTransaction
	httpmock.RegisterResponder(http.MethodPost, nodeUrl+"/v1/tx/send/blob",
		func(req *http.Request) (*http.Response, error) {
			require.Nil(s.T(), json.NewDecoder(req.Body).Decode(&received))
			return httpmock.NewStringResponse(http.StatusOK, "0xblob"), nil
		})

	w := s.do(http.MethodPost, "/api/hyle/blob", `{"proof":`+string(s.proof)+`}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	out := s.decode(w)
	require.Equal(s.T(), "0xblob", out["txHash"])
	require.Equal(s.T(), true, out["success"])

	require.Equal(s.T(), hyle.Identity("test.reclaim-test"), received.Identity)
	require.Len(s.T(), received.Blobs, 1)
	require.Equal(s.T(), hyle.ContractName("reclaim-test"), received.Blobs[0].ContractName)
	require.Equal(s.T(), fixtureContext, string(received.Blobs[0].Data))
}

func (s *ServerTestSuite) TestSendBlobInvalid() {
	w := s.do(http.MethodPost, "/api/hyle/blob", `{}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), "Proof is required in request body", s.decode(w)["error"])

	w = s.do(http.MethodPost, "/api/hyle/blob", `{"proof":{"claimData":{"context":"{"}}}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), "Invalid proof format", s.decode(w)["error"])
	require.Equal(s.T(), 0, httpmock.GetTotalCallCount())
}

func (s *ServerTestSuite) TestSendBlobNodeFailure() {
	httpmock.RegisterResponder(http.MethodPost, nodeUrl+"/v1/tx/send/blob",
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

	w := s.do(http.MethodPost, "/api/hyle/blob", `{"proof":`+string(s.proof)+`}`)
	require.Equal(s.T(), http.StatusInternalServerError, w.Code)
	require.Equal(s.T(), "Internal server error", s.decode(w)["error"])
	require.Equal(s.T(), uint64(1), s.monitor.GetReport().Hyle.Errors.NodeRequestFailures.Load())
}

func (s *ServerTestSuite) TestSendProof() {
	var received hyle.ProofTransaction
	httpmock.RegisterResponder(http.MethodPost, nodeUrl+"/v1/tx/send/proof",
		func(req *http.Request) (*http.Response, error) {
			require.Nil(s.T(), json.NewDecoder(req.Body).Decode(&received))
			return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
		})

	w := s.do(http.MethodPost, "/api/hyle/proof", `{"proof":{"proof":[1,2,3]}}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	require.Equal(s.T(), "ok", s.decode(w)["result"])
	require.Equal(s.T(), hyle.Bytes{1, 2, 3}, received.Proof)
	require.Equal(s.T(), hyle.ContractName("reclaim-test"), received.ContractName)

	w = s.do(http.MethodPost, "/api/hyle/proof", `{}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestRegisterContract() {
	httpmock.RegisterResponder(http.MethodPost, nodeUrl+"/v1/contract/register",
		httpmock.NewStringResponder(http.StatusOK, "0xregister"))

	w := s.do(http.MethodPost, "/api/hyle/register", `{"contractName":"buy-my-tweet"}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/hyle/register", `{"contractName":"buy-my-tweet","guestId":"xyz"}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), "guestId must be a 64-character hex string", s.decode(w)["error"])

	guestId := strings.Repeat("ab", 32)
	w = s.do(http.MethodPost, "/api/hyle/register", `{"contractName":"buy-my-tweet","guestId":"`+guestId+`"}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	out := s.decode(w)
	require.Equal(s.T(), "0xregister", out["txHash"])
	require.Equal(s.T(), "buy-my-tweet", out["contractName"])
	require.Equal(s.T(), "test", out["owner"])
}

func (s *ServerTestSuite) TestGetContractCached() {
	httpmock.RegisterResponder(http.MethodGet, nodeUrl+"/v1/contract/reclaim-test",
		httpmock.NewStringResponder(http.StatusOK, `{"name":"reclaim-test","program_id":"aa","state":"00","verifier":"reclaim"}`))
	httpmock.RegisterResponder(http.MethodGet, nodeUrl+"/v1/contract/missing",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	for i := 0; i < 3; i++ {
		w := s.do(http.MethodGet, "/api/hyle/contract/reclaim-test", "")
		require.Equal(s.T(), http.StatusOK, w.Code)
		require.Equal(s.T(), "reclaim", s.decode(w)["verifier"])
	}
	require.Equal(s.T(), 1, httpmock.GetTotalCallCount())

	w := s.do(http.MethodGet, "/api/hyle/contract/missing", "")
	require.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *ServerTestSuite) TestListContracts() {
	httpmock.RegisterResponder(http.MethodGet, indexerUrl+"/v1/indexer/contracts",
		httpmock.NewStringResponder(http.StatusOK, `[{"tx_hash":"01","owner":"test","verifier":"reclaim","program_id":[1,2],"state_digest":[0],"contract_name":"reclaim-test"}]`))

	w := s.do(http.MethodGet, "/api/hyle/indexer/contracts", "")
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	contracts := s.decode(w)["contracts"].([]interface{})
	require.Len(s.T(), contracts, 1)
	require.Equal(s.T(), "reclaim-test", contracts[0].(map[string]interface{})["contract_name"])

	httpmock.RegisterResponder(http.MethodGet, indexerUrl+"/v1/indexer/contracts",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "down"))

	w = s.do(http.MethodGet, "/api/hyle/indexer/contracts", "")
	require.Equal(s.T(), http.StatusInternalServerError, w.Code)
	require.Equal(s.T(), uint64(1), s.monitor.GetReport().Hyle.Errors.IndexerRequestFailures.Load())
}

func (s *ServerTestSuite) TestGetInfo() {
	httpmock.RegisterResponder(http.MethodGet, nodeUrl+"/v1/da/block/height",
		httpmock.NewStringResponder(http.StatusOK, `7`))
	httpmock.RegisterResponder(http.MethodGet, nodeUrl+"/v1/info",
		httpmock.NewStringResponder(http.StatusOK, `{"id":"node-1","da_address":"localhost:4141"}`))
	httpmock.RegisterResponder(http.MethodGet, nodeUrl+"/v1/consensus/info",
		httpmock.NewStringResponder(http.StatusOK, `{"slot":3,"view":1,"round_leader":"node-1","validators":[]}`))

	w := s.do(http.MethodGet, "/api/hyle/info", "")
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	out := s.decode(w)
	require.Equal(s.T(), float64(7), out["blockHeight"])
	require.Equal(s.T(), "node-1", out["node"].(map[string]interface{})["id"])
	require.Equal(s.T(), float64(3), out["consensus"].(map[string]interface{})["slot"])
}

func (s *ServerTestSuite) TestReceiveProof() {
	subscriber := s.broker.Subscribe()
	defer s.broker.Unsubscribe(subscriber)

	w := s.do(http.MethodGet, "/api/proof-status", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.Equal(s.T(), "pending", s.decode(w)["status"])

	w = s.do(http.MethodPost, "/api/reclaim/receive", url.PathEscape(string(s.proof)))
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	require.Contains(s.T(), s.decode(w), "proof")

	select {
	case frame := <-subscriber.C:
		require.Equal(s.T(), events.Frame(s.proof), frame)
	case <-time.After(time.Second):
		s.T().Fatal("proof was not published")
	}

	w = s.do(http.MethodGet, "/api/proof-status", "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	status := s.decode(w)
	timestamp, ok := status["timestamp"].(float64)
	require.True(s.T(), ok, w.Body.String())
	require.InDelta(s.T(), float64(time.Now().UnixMilli()), timestamp, float64(time.Minute.Milliseconds()))

	delete(status, "timestamp")
	withoutTimestamp, err := json.Marshal(status)
	require.Nil(s.T(), err)
	require.JSONEq(s.T(), string(s.proof), string(withoutTimestamp))
	require.Equal(s.T(), uint64(1), s.monitor.GetReport().Proofs.State.ProofsVerified.Load())
}

func (s *ServerTestSuite) TestReceiveInvalidProof() {
	tampered := strings.ReplaceAll(string(s.proof), "tweet this", "tweet that")

	w := s.do(http.MethodPost, "/api/reclaim/receive", url.PathEscape(tampered))
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), "Proof is not valid", s.decode(w)["message"])

	require.Eventually(s.T(), func() bool {
		w := s.do(http.MethodGet, "/api/proof-status", "")
		return w.Code == http.StatusOK && s.decode(w)["error"] != nil
	}, time.Second, 10*time.Millisecond)

	w = s.do(http.MethodPost, "/api/reclaim/receive", "not%20json")
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), uint64(2), s.monitor.GetReport().Proofs.State.ProofsReceived.Load())
	require.Equal(s.T(), uint64(1), s.monitor.GetReport().Proofs.Errors.ProofsRejected.Load())
}

func (s *ServerTestSuite) TestEventStream() {
	srv := httptest.NewServer(s.server.Router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/reclaim/receive")
	require.Nil(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(s.T(), func() bool { return s.broker.Count() == 1 }, time.Second, 10*time.Millisecond)
	require.Equal(s.T(), 1, s.broker.Publish([]byte(`{"identifier":"0x01"}`)))

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.Nil(s.T(), err)
	require.Equal(s.T(), "data: {\"identifier\":\"0x01\"}\n", line)
}

func (s *ServerTestSuite) TestClaim() {
	w := s.do(http.MethodPost, "/api/claim", `{"username":"Matteo_Mer","amount":100}`)
	require.Equal(s.T(), http.StatusUnauthorized, w.Code)

	require.Nil(s.T(), s.store.SetUser(s.ctx, "user-1", "Matteo_Mer"))
	require.Nil(s.T(), s.store.StoreLatestProof(s.ctx, s.proof))
	token, err := s.server.issuer.Issue("user-1")
	require.Nil(s.T(), err)

	w = s.do(http.MethodPost, "/api/claim", `{"username":"Matteo_Mer"}`, "Authorization", "Bearer "+token)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), "Missing required claim data", s.decode(w)["error"])

	w = s.do(http.MethodPost, "/api/claim", `{"username":"bob_crypto","amount":100}`, "Authorization", "Bearer "+token)
	require.Equal(s.T(), http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/claim", `{"username":"Matteo_Mer","amount":100}`, "Authorization", "Bearer "+token)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	out := s.decode(w)
	require.Equal(s.T(), true, out["success"])
	require.Equal(s.T(), "Reward claimed successfully", out["message"])

	w = s.do(http.MethodGet, "/api/claims?username=Matteo_Mer", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	claims := s.decode(w)["claims"].([]interface{})
	require.Len(s.T(), claims, 1)
	claim := claims[0].(map[string]interface{})
	require.Equal(s.T(), float64(100), claim["amount"])
	require.Equal(s.T(), "0x70e417536595696333461ff01779fe92ba0cab6f9774d45d8879a3abfa954871", claim["proofIdentifier"])

	w = s.do(http.MethodGet, "/api/claims?username=bob_crypto", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.Empty(s.T(), s.decode(w)["claims"])

	w = s.do(http.MethodGet, "/api/claims", "")
	require.Equal(s.T(), http.StatusBadRequest, w.Code)

	_, err = s.store.GetLatestProof(s.ctx)
	require.ErrorIs(s.T(), err, store.ErrNotFound)
}

func (s *ServerTestSuite) TestRegisterCeremony() {
	w := s.do(http.MethodPost, "/api/auth/register", `{"username":"alice"}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	out := s.decode(w)
	require.Equal(s.T(), "alice", out["username"])
	require.NotEmpty(s.T(), out["userId"])
	options := out["options"].(map[string]interface{})
	require.NotEmpty(s.T(), options["challenge"])
	require.Equal(s.T(), "localhost", options["rp"].(map[string]interface{})["id"])

	w = s.do(http.MethodPost, "/api/auth/register/verify", `{"userId":"unknown","verification":{}}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), webauthn.ErrChallengeNotFound.Error(), s.decode(w)["error"])

	require.Nil(s.T(), s.store.SetUser(s.ctx, "user-2", "taken"))
	w = s.do(http.MethodPost, "/api/auth/register", `{"username":"taken"}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), webauthn.ErrUsernameTaken.Error(), s.decode(w)["error"])
}

func (s *ServerTestSuite) TestLoginCeremony() {
	w := s.do(http.MethodPost, "/api/auth/webauthn", `{"username":"nobody"}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), webauthn.ErrUserNotFound.Error(), s.decode(w)["error"])

	require.Nil(s.T(), s.store.SetUser(s.ctx, "user-3", "carol"))
	w = s.do(http.MethodPost, "/api/auth/webauthn", `{"username":"carol"}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Equal(s.T(), webauthn.ErrNoCredentials.Error(), s.decode(w)["error"])

	w = s.do(http.MethodPost, "/api/auth/webauthn/verify", `{"response":{}}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestMonitoring() {
	s.do(http.MethodGet, "/api/users", "")

	w := s.do(http.MethodGet, "/v1/health", "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/v1/state", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.Contains(s.T(), w.Body.String(), "requests_served")

	w = s.do(http.MethodGet, "/metrics", "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.Contains(s.T(), w.Body.String(), "gateway_requests_served")
}

func (s *ServerTestSuite) TestRateLimit() {
	s.config.Gateway.LimiterRate = 0.001
	s.config.Gateway.LimiterBurst = 1
	httpmock.DeactivateAndReset()
	s.setupServer()

	w := s.do(http.MethodGet, "/api/users", "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/users", "")
	require.Equal(s.T(), http.StatusTooManyRequests, w.Code)
	require.Equal(s.T(), uint64(1), s.monitor.GetReport().Gateway.Errors.RateLimited.Load())
}

func (s *ServerTestSuite) TestLimiterSharedAcrossConcurrentRequests() {
	limiters := cache.New(time.Minute, time.Minute)

	var wg sync.WaitGroup
	out := make([]*rate.Limiter, 16)
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = s.server.limiterFor(limiters, "10.0.0.1")
		}(i)
	}
	wg.Wait()

	for _, limiter := range out {
		require.Same(s.T(), out[0], limiter)
	}
	require.Equal(s.T(), 1, limiters.ItemCount())
	require.NotSame(s.T(), out[0], s.server.limiterFor(limiters, "10.0.0.2"))
}

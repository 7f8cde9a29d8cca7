package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/contract"
	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/events"
	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
	"github.com/hyle-org/buy-my-tweet/src/utils/logger"
	"github.com/hyle-org/buy-my-tweet/src/utils/model"
	"github.com/hyle-org/buy-my-tweet/src/utils/monitoring"
	"github.com/hyle-org/buy-my-tweet/src/utils/session"
	"github.com/hyle-org/buy-my-tweet/src/utils/store"
	"github.com/hyle-org/buy-my-tweet/src/utils/task"
	"github.com/hyle-org/buy-my-tweet/src/utils/webauthn"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// REST API of the backend
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	monitor  monitoring.Monitor
	broker   *events.Broker
	store    *store.Store
	webAuthn *webauthn.Service
	issuer   *session.Issuer
	node     *hyle.NodeClient
	indexer  *hyle.IndexerClient
	executor *contract.Executor
	ledger   model.Ledger

	// Node contract lookups
	contracts *cache.Cache
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "rest-server").
		WithOnBeforeStart(self.register).
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop).
		WithWorkerPool(config.Gateway.MaxWorkers)

	self.contracts = cache.New(config.Hyle.ContractCacheTTL, 2*config.Hyle.ContractCacheTTL)
	self.executor = contract.NewExecutor(config)
	self.issuer = session.NewIssuer(&config.Session)
	self.ledger = &model.NoopLedger{}

	self.Router = gin.New()

	self.httpServer = &http.Server{
		Addr:              self.Config.Gateway.RESTListenAddress,
		Handler:           self.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return
}

func (self *Server) WithMonitor(monitor monitoring.Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) WithBroker(broker *events.Broker) *Server {
	self.broker = broker
	return self
}

func (self *Server) WithStore(store *store.Store) *Server {
	self.store = store
	return self
}

func (self *Server) WithWebAuthn(service *webauthn.Service) *Server {
	self.webAuthn = service
	return self
}

func (self *Server) WithHyle(node *hyle.NodeClient, indexer *hyle.IndexerClient) *Server {
	self.node = node
	self.indexer = indexer
	return self
}

func (self *Server) WithLedger(ledger model.Ledger) *Server {
	self.ledger = ledger
	return self
}

func (self *Server) WithExecutor(executor *contract.Executor) *Server {
	self.executor = executor
	return self
}

func (self *Server) register() (err error) {
	if !self.Config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	self.Router.Use(
		gin.Recovery(),
		self.requestId(),
		logger.Middleware("gateway"),
		self.monitor.Middleware(),
	)

	if self.Config.Profiler.Enabled {
		pprof.Register(self.Router)
	}

	registry := prometheus.NewRegistry()
	err = registry.Register(self.monitor.GetPrometheusCollector())
	if err != nil {
		return
	}

	v1 := self.Router.Group("v1")
	{
		v1.GET("state", self.monitor.OnGetState)
		v1.GET("health", self.monitor.OnGetHealth)
	}
	self.Router.GET("metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := self.Router.Group("api", self.limit(), self.withTaskContext())
	{
		api.POST("contract/execute", self.onExecute)

		api.POST("hyle/blob", self.onSendBlob)
		api.POST("hyle/proof", self.onSendProof)
		api.POST("hyle/register", self.onRegisterContract)
		api.GET("hyle/contract/:name", self.onGetContract)
		api.GET("hyle/info", self.onGetInfo)
		api.GET("hyle/indexer/contracts", self.onListContracts)

		api.POST("auth/register", self.onRegister)
		api.POST("auth/register/verify", self.onRegisterVerify)
		api.POST("auth/webauthn", self.onLogin)
		api.POST("auth/webauthn/verify", self.onLoginVerify)

		api.POST("reclaim/receive", self.onReceiveProof)
		api.GET("proof-status", self.onGetProofStatus)

		api.POST("calculate-claim", self.onCalculateClaim)
		api.POST("claim", self.issuer.Middleware(), self.onClaim)
		api.GET("claims", self.onGetClaims)
		api.GET("tweets-to-verify", self.onGetTweetsToVerify)
		api.GET("users", self.onGetUsers)
	}

	// Event streams are long lived, they skip the request timeout
	self.Router.GET("api/reclaim/receive", self.limit(), self.onReceiveEvents)

	return
}

func (self *Server) run() (err error) {
	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}

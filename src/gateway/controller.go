package gateway

import (
	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/events"
	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
	"github.com/hyle-org/buy-my-tweet/src/utils/model"
	monitor_gateway "github.com/hyle-org/buy-my-tweet/src/utils/monitoring/gateway"
	"github.com/hyle-org/buy-my-tweet/src/utils/store"
	"github.com/hyle-org/buy-my-tweet/src/utils/task"
	"github.com/hyle-org/buy-my-tweet/src/utils/webauthn"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates the backend
// Setups the REST API with its storage, event streams and Hyle clients
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "controller")

	monitor := monitor_gateway.NewMonitor(config).
		WithMaxHistorySize(30)

	redisStore := store.NewStore(config)
	err = redisStore.Connect()
	if err != nil {
		return
	}

	ledger, err := model.NewLedger(self.Ctx, config)
	if err != nil {
		redisStore.Close()
		return
	}

	service, err := webauthn.NewService(config)
	if err != nil {
		redisStore.Close()
		ledger.Close()
		return
	}
	service = service.WithStore(redisStore)

	broker := events.NewBroker(config).
		WithBufferSize(config.Gateway.EventsSubscriberBuffer)

	server := NewServer(config).
		WithMonitor(monitor).
		WithBroker(broker).
		WithStore(redisStore).
		WithWebAuthn(service).
		WithHyle(hyle.NewNodeClient(&config.Hyle), hyle.NewIndexerClient(&config.Hyle)).
		WithLedger(ledger)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(broker.Task).
		WithSubtask(server.Task).
		WithOnAfterStop(func() {
			ledger.Close()
			redisStore.Close()
		})

	return
}

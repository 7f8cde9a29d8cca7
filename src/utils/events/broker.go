package events

import (
	"sync"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/task"

	"github.com/rs/xid"
	"go.uber.org/atomic"
)

var pingFrame = []byte("data: ping\n\n")

// Encodes data as a single server-sent event
func Frame(data []byte) []byte {
	out := make([]byte, 0, len(data)+8)
	out = append(out, "data: "...)
	out = append(out, data...)
	out = append(out, "\n\n"...)
	return out
}

// Stream of frames sent to one client
type Subscriber struct {
	Id string
	C  chan []byte

	closeOnce sync.Once
}

func (self *Subscriber) close() {
	self.closeOnce.Do(func() {
		close(self.C)
	})
}

// Fans out server-sent events to connected clients.
// Subscribers that can't keep up are dropped.
type Broker struct {
	*task.Task

	mtx         sync.RWMutex
	subscribers map[string]*Subscriber
	bufferSize  int

	Published *atomic.Uint64
	Dropped   *atomic.Uint64
}

func NewBroker(config *config.Config) (self *Broker) {
	self = new(Broker)
	self.subscribers = make(map[string]*Subscriber)
	self.bufferSize = config.Gateway.EventsSubscriberBuffer
	self.Published = atomic.NewUint64(0)
	self.Dropped = atomic.NewUint64(0)

	self.Task = task.NewTask(config, "events").
		WithPeriodicSubtaskFunc(config.Gateway.EventsKeepAliveInterval, self.ping).
		WithOnStop(self.closeAll)

	return
}

func (self *Broker) WithBufferSize(v int) *Broker {
	self.bufferSize = v
	return self
}

func (self *Broker) Subscribe() (out *Subscriber) {
	out = &Subscriber{
		Id: xid.New().String(),
		C:  make(chan []byte, self.bufferSize),
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.IsStopping.Load() {
		out.close()
		return
	}

	self.subscribers[out.Id] = out
	self.Log.WithField("subscriber", out.Id).WithField("count", len(self.subscribers)).Debug("Subscribed")
	return
}

func (self *Broker) Unsubscribe(subscriber *Subscriber) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	_, ok := self.subscribers[subscriber.Id]
	if !ok {
		return
	}

	delete(self.subscribers, subscriber.Id)
	subscriber.close()
	self.Log.WithField("subscriber", subscriber.Id).WithField("count", len(self.subscribers)).Debug("Unsubscribed")
}

func (self *Broker) Count() int {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return len(self.subscribers)
}

// Sends data to every subscriber without blocking, returns the number of receivers
func (self *Broker) Publish(data []byte) int {
	return self.broadcast(Frame(data))
}

func (self *Broker) broadcast(frame []byte) (delivered int) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	for id, subscriber := range self.subscribers {
		select {
		case subscriber.C <- frame:
			delivered++
		default:
			// Buffer full
			delete(self.subscribers, id)
			subscriber.close()
			self.Dropped.Inc()
			self.Log.WithField("subscriber", id).Warn("Slow subscriber dropped")
		}
	}

	self.Published.Inc()
	return
}

func (self *Broker) ping() error {
	if self.Count() == 0 {
		return nil
	}
	self.broadcast(pingFrame)
	return nil
}

func (self *Broker) closeAll() {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	for id, subscriber := range self.subscribers {
		delete(self.subscribers, id)
		subscriber.close()
	}
}


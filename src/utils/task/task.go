package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/logger"

	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Lifecycle of a long lived component: hooks, subtasks, periodic jobs and an optional worker pool.
// A failed subtask stops the whole tree of tasks, the first failure is kept.
type Task struct {
	Config *config.Config
	Log    *logrus.Entry
	Name   string

	// Stopping
	IsStopping  *atomic.Bool
	StopChannel chan bool
	stopOnce    sync.Once
	running     sync.WaitGroup

	// Done when nothing runs in the task anymore.
	// Used by the owner of the task.
	CtxRunning    context.Context
	cancelRunning context.CancelFunc

	// Cancelled when Stop() is called.
	// Used inside the task.
	Ctx    context.Context
	cancel context.CancelFunc

	Workers *workerpool.WorkerPool

	// First failure of this task or its subtasks
	mtx       sync.Mutex
	err       error
	onFailure func(error)

	beforeStart []func() error
	onStop      []func()
	afterStop   []func()
	funcs       []func() error
	children    []*Task
}

func NewTask(config *config.Config, name string) (self *Task) {
	self = new(Task)
	self.Name = name
	self.Log = logger.NewSublogger(name)
	self.Config = config

	self.Ctx, self.cancel = context.WithCancel(context.Background())
	self.CtxRunning, self.cancelRunning = context.WithCancel(context.Background())

	self.IsStopping = atomic.NewBool(false)
	self.StopChannel = make(chan bool)

	return
}

func (self *Task) WithOnBeforeStart(f func() error) *Task {
	self.beforeStart = append(self.beforeStart, f)
	return self
}

// Called once everything in the task finished
func (self *Task) WithOnAfterStop(f func()) *Task {
	self.afterStop = append(self.afterStop, f)
	return self
}

// Called when stopping is requested
func (self *Task) WithOnStop(f func()) *Task {
	self.onStop = append(self.onStop, f)
	return self
}

// Child is started and stopped along with this task, its failure fails this task
func (self *Task) WithSubtask(child *Task) *Task {
	child.onFailure = self.fail
	child = child.WithOnBeforeStart(func() error {
		self.running.Add(1)
		return nil
	}).WithOnAfterStop(func() {
		self.running.Done()
	})
	self.children = append(self.children, child)
	return self
}

// Runs f in its own goroutine, returning an error fails the task
func (self *Task) WithSubtaskFunc(f func() error) *Task {
	self.funcs = append(self.funcs, f)
	return self
}

// Runs f right away and then period after each run finishes
func (self *Task) WithPeriodicSubtaskFunc(period time.Duration, f func() error) *Task {
	return self.WithSubtaskFunc(func() error {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-self.StopChannel:
				self.Log.Debug("Periodic subtask stopped")
				return nil
			case <-timer.C:
			}

			err := f()
			if err != nil {
				return err
			}
			timer.Reset(period)
		}
	})
}

// Pool is drained after the task stops
func (self *Task) WithWorkerPool(maxWorkers int) *Task {
	self.Workers = workerpool.New(maxWorkers)
	return self.WithOnAfterStop(func() {
		self.Workers.StopWait()
	})
}

// Runs f in the worker pool, unless the task is stopping
func (self *Task) SubmitToWorker(f func()) {
	if self.IsStopping.Load() {
		return
	}
	self.Workers.Submit(f)
}

// First failure, nil if everything went fine so far
func (self *Task) Err() error {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.err
}

func (self *Task) fail(err error) {
	self.mtx.Lock()
	first := self.err == nil
	if first {
		self.err = err
	}
	self.mtx.Unlock()

	if !first {
		return
	}

	self.Log.WithError(err).Error("Task failed, stopping")
	if self.onFailure != nil {
		self.onFailure(err)
	}
	self.Stop()
}

func (self *Task) run(subtask func() error) {
	self.running.Add(1)
	go func() {
		defer self.running.Done()
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			self.Log.WithError(fmt.Errorf("%v", p)).Error("Panic. Stopping.")
			panic(p)
		}()

		err := subtask()
		if err != nil {
			self.fail(fmt.Errorf("%s: %w", self.Name, err))
		}
	}()
}

func (self *Task) Start() (err error) {
	for _, cb := range self.beforeStart {
		err = cb()
		if err != nil {
			return
		}
	}

	for _, child := range self.children {
		err = child.Start()
		if err != nil {
			return
		}
	}

	for _, f := range self.funcs {
		self.run(f)
	}

	go func() {
		// Subtasks are expected to finish once StopChannel is closed
		self.running.Wait()

		for _, cb := range self.afterStop {
			cb()
		}

		self.cancelRunning()
	}()

	return nil
}

func (self *Task) Stop() {
	self.stopOnce.Do(func() {
		self.Log.Info("Stopping...")
		self.IsStopping.Store(true)

		for _, child := range self.children {
			child.Stop()
		}

		close(self.StopChannel)
		self.cancel()

		for _, cb := range self.onStop {
			cb()
		}
	})
}

// Stops and waits at most StopTimeout for everything to finish
func (self *Task) StopWait() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	self.Stop()

	select {
	case <-ctx.Done():
		self.Log.Error("Timeout reached, failed to stop")
	case <-self.CtxRunning.Done():
		self.Log.Info("Task finished")
	}
}

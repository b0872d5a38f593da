package ordersync

import (
	"context"
	"fmt"

	"github.com/goliatone/go-job/queue"
	glog "github.com/goliatone/go-logger/glog"

	gocommandadapter "github.com/goliatone/go-ordersync/adapters/gocommand"
	gojobadapter "github.com/goliatone/go-ordersync/adapters/gojob"
	gologgeradapter "github.com/goliatone/go-ordersync/adapters/gologger"
	"github.com/goliatone/go-ordersync/core"
)

// RuntimeConfig collects the external surfaces a composed runtime
// binds to. Every field is optional: without a bus a private command
// registry is used, without queue endpoints scheduling stays
// unconfigured, and loggers resolve to nop.
type RuntimeConfig struct {
	Bus            *gocommandadapter.RegistryAdapter
	LoggerProvider glog.LoggerProvider
	Logger         glog.Logger
	QueueEnqueuer  queue.Enqueuer
	QueueDequeuer  queue.Dequeuer
	RetryPolicy    gojobadapter.RetryPolicy
}

// Runtime is the composed deployment unit: the linking service behind
// its command/query facade, subscribed on the go-command dispatcher,
// with scheduled syncs flowing through a go-job queue.
type Runtime struct {
	service  *Service
	facade   *Facade
	bus      *gocommandadapter.RegistryAdapter
	bundle   *gocommandadapter.CommandBundle
	dequeuer core.JobDequeuer
}

// NewRuntime builds the service from cfg plus the runtime bindings and
// registers its full command and query surface on the dispatcher.
// Extra service options append after the logger and queue wiring so
// callers can still override either.
func NewRuntime(cfg Config, rcfg RuntimeConfig, opts ...Option) (*Runtime, error) {
	serviceOpts := gologgeradapter.ServiceOptions(rcfg.LoggerProvider, rcfg.Logger)
	if rcfg.QueueEnqueuer != nil {
		serviceOpts = append(serviceOpts, WithJobEnqueuer(gojobadapter.NewEnqueuerAdapter(rcfg.QueueEnqueuer)))
	}
	serviceOpts = append(serviceOpts, opts...)

	svc, err := Setup(cfg, serviceOpts...)
	if err != nil {
		return nil, err
	}
	facade, err := NewFacade(svc)
	if err != nil {
		return nil, err
	}

	bus := rcfg.Bus
	if bus == nil {
		bus = gocommandadapter.NewRegistryAdapter(nil)
	}
	bundle, err := gocommandadapter.RegisterService(bus, svc, svc, resolveScanCursorReader(svc))
	if err != nil {
		return nil, err
	}

	runtime := &Runtime{
		service: svc,
		facade:  facade,
		bus:     bus,
		bundle:  bundle,
	}
	if rcfg.QueueDequeuer != nil {
		runtime.dequeuer = gojobadapter.NewDequeuerAdapter(rcfg.QueueDequeuer, rcfg.RetryPolicy)
	}
	return runtime, nil
}

func (r *Runtime) Service() *Service {
	if r == nil {
		return nil
	}
	return r.service
}

func (r *Runtime) Facade() *Facade {
	if r == nil {
		return nil
	}
	return r.facade
}

func (r *Runtime) Bus() *gocommandadapter.RegistryAdapter {
	if r == nil {
		return nil
	}
	return r.bus
}

// ProcessNextJob pulls one queued sync message and executes it, acking
// on success. A failed run nacks with the configured retry policy and
// still returns the run error; the queue decides redelivery.
func (r *Runtime) ProcessNextJob(ctx context.Context) error {
	if r == nil || r.dequeuer == nil {
		return fmt.Errorf("ordersync: queue dequeuer is not configured")
	}
	delivery, err := r.dequeuer.Dequeue(ctx)
	if err != nil {
		return err
	}
	if runErr := r.service.RunSyncJob(ctx, delivery.Message()); runErr != nil {
		if nackErr := delivery.Nack(ctx, core.JobNackOptions{
			Requeue: true,
			Reason:  runErr.Error(),
		}); nackErr != nil {
			return nackErr
		}
		return runErr
	}
	return delivery.Ack(ctx)
}

// Close drops the runtime's dispatcher subscriptions.
func (r *Runtime) Close() {
	if r == nil {
		return
	}
	r.bundle.Unsubscribe()
}

// Package notifier drains the outbox and delivers in-app notifications and
// tracking updates. Delivery failures are logged and retried on the next run;
// they never reach the code path that enqueued the message.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/internal/infrastructure/outbox"
	"github.com/fastygo/contracts/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// TrackingSender posts tracking updates to the customer-facing channel.
type TrackingSender interface {
	Send(ctx context.Context, update domain.TrackingUpdate) error
}

// Config controls how frequently the outbox is drained.
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// Processor delivers outbox messages on a cron schedule and whenever a new
// message is enqueued.
type Processor struct {
	store         *outbox.Store
	monitor       ConnectionHealth
	notifications repository.NotificationRepository
	tracker       TrackingSender
	logger        *zap.Logger
	cron          *cron.Cron
	cfg           Config

	drainMu sync.Mutex
	wake    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	stop    sync.Once
}

func NewProcessor(
	store *outbox.Store,
	monitor ConnectionHealth,
	notifications repository.NotificationRepository,
	tracker TrackingSender,
	logger *zap.Logger,
	cfg Config,
) *Processor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Processor{
		store:         store,
		monitor:       monitor,
		notifications: notifications,
		tracker:       tracker,
		logger:        logger,
		cfg:           cfg,
		cron:          cron.New(cron.WithSeconds()),
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
	}

	schedule := fmt.Sprintf("@every %ds", max(1, int(cfg.Interval.Seconds())))
	_, _ = p.cron.AddFunc(schedule, p.drainOnce)

	return p
}

// Start launches the cron scheduler and the wake-up loop.
func (p *Processor) Start() {
	if p == nil || p.cron == nil {
		return
	}
	p.cron.Start()
	p.wg.Add(1)
	go p.loop()
	p.logger.Info("notification processor started")
}

// Stop halts scheduling and waits for the running drain, bounded by ctx.
func (p *Processor) Stop(ctx context.Context) {
	if p == nil || p.cron == nil {
		return
	}
	p.stop.Do(func() {
		close(p.done)
		stopCtx := p.cron.Stop()

		finished := make(chan struct{})
		go func() {
			p.wg.Wait()
			<-stopCtx.Done()
			close(finished)
		}()

		select {
		case <-finished:
		case <-ctx.Done():
		}
		p.logger.Info("notification processor stopped")
	})
}

// Enqueue persists msg and wakes the worker. It returns once the message is
// stored; delivery happens in the background.
func (p *Processor) Enqueue(msg outbox.Message) error {
	if p == nil || p.store == nil {
		return fmt.Errorf("notification processor not configured")
	}
	if err := p.store.Enqueue(msg); err != nil {
		return err
	}
	select {
	case p.wake <- struct{}{}:
	default:
	}
	return nil
}

// Drain delivers one batch synchronously.
func (p *Processor) Drain(ctx context.Context) error {
	if p == nil || p.store == nil {
		return nil
	}
	if p.monitor != nil && !p.monitor.IsOnline() {
		p.logger.Debug("skipping outbox drain (offline)")
		return nil
	}

	p.drainMu.Lock()
	defer p.drainMu.Unlock()

	messages, err := p.store.GetBatch(p.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if err := p.deliver(ctx, msg); err != nil {
			msg.Attempts++
			msg.LastError = err.Error()
			p.logger.Error("outbox delivery failed",
				zap.String("message_id", msg.ID),
				zap.String("kind", msg.Kind),
				zap.String("contract_id", msg.ContractID),
				zap.Int("attempts", msg.Attempts),
				zap.Error(err))

			if msg.Attempts >= p.cfg.MaxRetries {
				p.logger.Warn("dropping outbox message (max retries reached)", zap.String("message_id", msg.ID))
				_ = p.store.Remove(msg)
				continue
			}
			if err := p.store.Requeue(msg); err != nil {
				p.logger.Error("failed to requeue outbox message", zap.Error(err))
			}
			continue
		}

		if err := p.store.Remove(msg); err != nil {
			p.logger.Warn("failed to purge delivered outbox message", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of pending messages.
func (p *Processor) Size() int {
	if p == nil || p.store == nil {
		return 0
	}
	size, err := p.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (p *Processor) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.wake:
			p.drainOnce()
		case <-p.done:
			return
		}
	}
}

func (p *Processor) drainOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Interval)
	defer cancel()
	if err := p.Drain(ctx); err != nil {
		p.logger.Error("outbox drain failed", zap.Error(err))
	}
}

func (p *Processor) deliver(ctx context.Context, msg outbox.Message) error {
	switch msg.Kind {
	case outbox.KindNotification:
		if p.notifications == nil {
			return fmt.Errorf("notification repository not configured")
		}
		var n domain.Notification
		if err := json.Unmarshal(msg.Data, &n); err != nil {
			return err
		}
		return p.notifications.CreateMany(ctx, n)

	case outbox.KindTracking:
		if p.tracker == nil {
			return nil
		}
		var u domain.TrackingUpdate
		if err := json.Unmarshal(msg.Data, &u); err != nil {
			return err
		}
		return p.tracker.Send(ctx, u)

	default:
		return fmt.Errorf("unsupported outbox message kind %s", msg.Kind)
	}
}

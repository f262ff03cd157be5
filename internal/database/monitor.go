package database

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Status struct {
	Live      bool      `json:"live"`
	CheckedAt time.Time `json:"checkedAt"`
	Error     string    `json:"error,omitempty"`
}

// Monitor tracks datastore connectivity. Checks run on a cron schedule and
// on demand; readers only ever see the last recorded result.
type Monitor struct {
	pinger    Pinger
	logger    logrus.FieldLogger
	timeout   time.Duration
	onRecover func(ctx context.Context) error

	mu     sync.RWMutex
	status Status

	cron *cron.Cron
}

type MonitorOption func(*Monitor)

// WithTimeout bounds each ping.
func WithTimeout(d time.Duration) MonitorOption {
	return func(m *Monitor) { m.timeout = d }
}

// WithRecover runs fn when the datastore comes back after being down
// (or is reached for the first time). If fn fails the datastore stays down.
func WithRecover(fn func(ctx context.Context) error) MonitorOption {
	return func(m *Monitor) { m.onRecover = fn }
}

func NewMonitor(pinger Pinger, logger logrus.FieldLogger, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		pinger:  pinger,
		logger:  logger,
		timeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetLive records a result without pinging; used after startup init.
func (m *Monitor) SetLive(live bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = Status{Live: live, CheckedAt: time.Now()}
	if err != nil {
		m.status.Error = err.Error()
	}
}

// Check pings the datastore and records the outcome.
func (m *Monitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	wasLive := m.Live()

	err := m.pinger.Ping(ctx)
	if err == nil && !wasLive && m.onRecover != nil {
		err = m.onRecover(ctx)
	}

	live := err == nil
	m.SetLive(live, err)

	switch {
	case live && !wasLive:
		m.logger.Info("datastore is reachable")
	case !live && wasLive:
		m.logger.WithError(err).Warn("datastore became unreachable")
	case !live:
		m.logger.WithError(err).Debug("datastore still unreachable")
	}

	return live
}

func (m *Monitor) Live() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Live
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Start schedules periodic checks, e.g. "@every 15s".
func (m *Monitor) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { m.Check(context.Background()) }); err != nil {
		return err
	}

	m.cron = c
	c.Start()
	return nil
}

func (m *Monitor) Stop() {
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}
}

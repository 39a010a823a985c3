package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type pgStub struct{ err error }

func (p pgStub) Ping(context.Context) error { return p.err }

type redisStub struct{ err error }

func (r redisStub) Ping(ctx context.Context) *redislib.StatusCmd {
	cmd := redislib.NewStatusCmd(ctx)
	if r.err != nil {
		cmd.SetErr(r.err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

type sizer struct {
	n   int
	err error
}

func (s sizer) Size() (int, error) { return s.n, s.err }

func TestMonitorReportsStatus(t *testing.T) {
	m := New(pgStub{}, redisStub{}, sizer{n: 3}, time.Hour, nil)
	m.Start()
	defer m.Stop()

	assert.Eventually(t, func() bool { return !m.GetStatus().LastCheck.IsZero() }, time.Second, 5*time.Millisecond)
	status := m.GetStatus()
	assert.True(t, status.Healthy())
	assert.Equal(t, 3, status.OutboxSize)
	assert.True(t, m.IsOnline())
}

func TestMonitorDegraded(t *testing.T) {
	m := New(pgStub{err: errors.New("down")}, redisStub{err: errors.New("down")}, sizer{err: errors.New("closed")}, time.Hour, nil)
	m.refresh()

	status := m.GetStatus()
	assert.False(t, status.PostgreSQL)
	assert.False(t, status.Redis)
	assert.False(t, status.Outbox)
	assert.False(t, m.IsOnline())

	m.Stop()
	m.Stop()
}

func TestMonitorWithoutDependencies(t *testing.T) {
	m := New(nil, nil, nil, 0, nil)
	m.refresh()
	assert.False(t, m.GetStatus().Healthy())
}

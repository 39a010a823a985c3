package tracking

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/fastygo/contracts/domain"
)

type recorder struct {
	mu      sync.Mutex
	auth    string
	updates []domain.TrackingUpdate
	status  int
}

func serve(t *testing.T, rec *recorder) *fasthttp.Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.auth = string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
		var u domain.TrackingUpdate
		if err := json.Unmarshal(ctx.PostBody(), &u); err == nil {
			rec.updates = append(rec.updates, u)
		}
		if rec.status != 0 {
			ctx.SetStatusCode(rec.status)
		}
	}}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	return &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}
}

func TestSendPostsJSON(t *testing.T) {
	rec := &recorder{}
	client := New(Config{URL: "http://tracking.local/updates", Token: "secret"}, serve(t, rec))

	err := client.Send(context.Background(), domain.TrackingUpdate{ProjectID: "prj-1", Stage: "contract_signed"})
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.updates, 1)
	assert.Equal(t, "prj-1", rec.updates[0].ProjectID)
	assert.False(t, rec.updates[0].OccurredAt.IsZero())
	assert.Equal(t, "Bearer secret", rec.auth)
}

func TestSendReportsErrorStatus(t *testing.T) {
	rec := &recorder{status: fasthttp.StatusBadGateway}
	client := New(Config{URL: "http://tracking.local/updates", Timeout: time.Second}, serve(t, rec))
	err := client.Send(context.Background(), domain.TrackingUpdate{Stage: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDisabledClientIsNoop(t *testing.T) {
	client := New(Config{}, nil)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Send(context.Background(), domain.TrackingUpdate{Stage: "x"}))
}

func TestSendHonorsExpiredContext(t *testing.T) {
	client := New(Config{URL: "http://tracking.local"}, nil)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	assert.ErrorIs(t, client.Send(ctx, domain.TrackingUpdate{Stage: "x"}), context.DeadlineExceeded)
}

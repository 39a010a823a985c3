package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/contracts/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

const (
	HeaderRequestID = "X-Request-ID"
	// HeaderUserID is written by the auth middleware from verified claims.
	HeaderUserID = "X-User-ID"
)

// Adapter converts a fasthttp.RequestCtx into a deadline-bound context
// carrying the request id and acting user.
type Adapter struct {
	timeout time.Duration
	newID   func() string
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
		newID:   uuid.NewString,
	}
}

// Attach derives the request context. The request id is echoed in the
// response headers; a missing or oversized client id is replaced.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
	if ctx == nil {
		return appLogger.ContextWithRequestID(stdCtx, a.newID()), cancel
	}

	reqID := a.requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set(HeaderRequestID, reqID)

	stdCtx = appLogger.ContextWithUserID(stdCtx, string(ctx.Request.Header.Peek(HeaderUserID)))

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

func (a *Adapter) requestID(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID)))
	if header == "" || len(header) > 128 {
		return a.newID()
	}
	return header
}

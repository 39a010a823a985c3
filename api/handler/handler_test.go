package handler

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/internal/infrastructure/monitor"
	"github.com/fastygo/contracts/pkg/httpcontext"
	"github.com/fastygo/contracts/usecase"
	"github.com/fastygo/contracts/usecase/contract"
	signatureUC "github.com/fastygo/contracts/usecase/signature"
)

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &out))
	return out
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrContractNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUnresolvedPlaceholders.WithDetail("keys", []string{"A"}), http.StatusBadRequest, "INVALID"},
		{fmt.Errorf("wrapped: %w", domain.ErrContractSigned), http.StatusConflict, "CONFLICT"},
		{domain.ErrInvalidSignature, http.StatusUnauthorized, "UNAUTHORIZED"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestRespondErrorCarriesDetails(t *testing.T) {
	h := newBaseHandler(nil, nil)
	var ctx fasthttp.RequestCtx

	h.respondError(&ctx, context.Background(), domain.ErrUnresolvedPlaceholders.WithDetail("keys", []string{"CUSTOMER_NAME"}))

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	body := decodeEnvelope(t, &ctx)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "INVALID", body["code"])
	assert.Equal(t, map[string]interface{}{"keys": []interface{}{"CUSTOMER_NAME"}}, body["meta"])
}

func TestRespondErrorHidesInternalMessages(t *testing.T) {
	h := newBaseHandler(nil, nil)
	var ctx fasthttp.RequestCtx

	h.respondError(&ctx, context.Background(), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, "internal error", decodeEnvelope(t, &ctx)["error"])
}

func TestContractHandlerRequiresUser(t *testing.T) {
	h := NewContractHandler(nil, httpcontext.NewAdapter(time.Second), nil)
	var ctx fasthttp.RequestCtx
	ctx.Request.SetBody([]byte(`{"template_id":"tpl-1"}`))

	h.Create(&ctx)
	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestContractHandlerRejectsMalformedBody(t *testing.T) {
	h := NewContractHandler(nil, nil, nil)
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("X-User-ID", "u-1")
	ctx.SetUserValue("id", "ctr-1")
	ctx.Request.SetBody([]byte(`{"status":`))

	h.ChangeStatus(&ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "invalid payload", decodeEnvelope(t, &ctx)["error"])
}

type seenEvents map[string]bool

func (s seenEvents) MarkProcessed(_ context.Context, id string) (bool, error) {
	if s[id] {
		return false, nil
	}
	s[id] = true
	return true, nil
}

func (s seenEvents) Forget(_ context.Context, id string) error {
	delete(s, id)
	return nil
}

func TestWebhookHandler(t *testing.T) {
	const secret = "whsec"
	d := usecase.NewDispatcher()
	d.RegisterCommand(contract.CommandConfirmSignature, func(_ context.Context, payload interface{}) (interface{}, error) {
		p := payload.(contract.ConfirmSignaturePayload)
		return &domain.Contract{ID: "ctr-" + p.DocumentID}, nil
	})
	h := NewWebhookHandler(signatureUC.New(secret, seenEvents{}, d, nil), nil, nil)

	body := []byte(`{"event_id":"e-1","event_type":"document.completed","document_id":"42"}`)

	t.Run("valid signature", func(t *testing.T) {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetBody(body)
		ctx.Request.Header.Set("X-Signature", "sha256="+hex.EncodeToString(signatureUC.Sign([]byte(secret), body)))

		h.Signature(&ctx)
		require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
		data := decodeEnvelope(t, &ctx)["data"].(map[string]interface{})
		assert.Equal(t, "processed", data["outcome"])
		assert.Equal(t, "ctr-42", data["contract_id"])
	})

	t.Run("bad signature", func(t *testing.T) {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetBody(body)
		ctx.Request.Header.Set("X-Signature", "00")

		h.Signature(&ctx)
		assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	})
}

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

func TestHealthHandler(t *testing.T) {
	healthy := NewHealthHandler(staticStatus{PostgreSQL: true, Redis: true, Outbox: true, OutboxSize: 2}, nil, nil)
	var ok fasthttp.RequestCtx
	healthy.Check(&ok)
	assert.Equal(t, http.StatusOK, ok.Response.StatusCode())

	degraded := NewHealthHandler(staticStatus{PostgreSQL: true}, nil, nil)
	var bad fasthttp.RequestCtx
	degraded.Check(&bad)
	assert.Equal(t, http.StatusServiceUnavailable, bad.Response.StatusCode())
	assert.Equal(t, "DEGRADED", decodeEnvelope(t, &bad)["code"])
}


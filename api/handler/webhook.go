package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/contracts/pkg/httpcontext"
	signatureUC "github.com/fastygo/contracts/usecase/signature"
)

type WebhookHandler struct {
	baseHandler
	uc *signatureUC.UseCase
}

func NewWebhookHandler(uc *signatureUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary E-signature provider callback
// @Tags webhooks
// @Router /api/v1/webhooks/signature [post]
func (h *WebhookHandler) Signature(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	body := append([]byte(nil), ctx.PostBody()...)
	signature := string(ctx.Request.Header.Peek(signatureUC.SignatureHeader))

	result, err := h.uc.Handle(stdCtx, body, signature)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

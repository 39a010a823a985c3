package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/contracts/api/transport"
	"github.com/fastygo/contracts/pkg/httpcontext"
	"github.com/fastygo/contracts/repository"
	templateUC "github.com/fastygo/contracts/usecase/template"
)

type TemplateHandler struct {
	baseHandler
	uc *templateUC.UseCase
}

func NewTemplateHandler(uc *templateUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List templates
// @Tags templates
// @Router /api/v1/templates [get]
func (h *TemplateHandler) List(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	filter := repository.TemplateFilter{
		ScopeID: string(args.Peek("scope_id")),
		Search:  string(args.Peek("q")),
		Limit:   parseInt(string(args.Peek("limit")), 50),
		Offset:  parseInt(string(args.Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	items, err := h.uc.ListTemplates(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondPage(ctx, items, len(items), filter.Limit, filter.Offset)
}

// @Summary Get template
// @Tags templates
// @Router /api/v1/templates/{id} [get]
func (h *TemplateHandler) Get(ctx *fasthttp.RequestCtx) {
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	item, err := h.uc.GetTemplate(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, item)
}

// @Summary Create template
// @Tags templates
// @Router /api/v1/templates [post]
func (h *TemplateHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.TemplateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	item, err := h.uc.CreateTemplate(stdCtx, templateInput(req))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, item)
}

// @Summary Update template
// @Tags templates
// @Router /api/v1/templates/{id} [put]
func (h *TemplateHandler) Update(ctx *fasthttp.RequestCtx) {
	id := h.pathID(ctx)
	if id == "" {
		return
	}
	var req transport.TemplateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	item, err := h.uc.UpdateTemplate(stdCtx, id, templateInput(req))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, item)
}

// @Summary Delete template
// @Tags templates
// @Router /api/v1/templates/{id} [delete]
func (h *TemplateHandler) Delete(ctx *fasthttp.RequestCtx) {
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTemplate(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func templateInput(req transport.TemplateRequest) templateUC.Input {
	return templateUC.Input{
		ScopeID:     req.ScopeID,
		Name:        req.Name,
		Description: req.Description,
		HTML:        req.HTML,
	}
}

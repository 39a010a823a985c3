package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/contracts/api/transport"
	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/pkg/httpcontext"
	"github.com/fastygo/contracts/repository"
	contractUC "github.com/fastygo/contracts/usecase/contract"
)

type ContractHandler struct {
	baseHandler
	uc *contractUC.UseCase
}

func NewContractHandler(uc *contractUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List contracts
// @Tags contracts
// @Router /api/v1/contracts [get]
func (h *ContractHandler) List(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	filter := repository.ContractFilter{
		ProjectID:          string(args.Peek("project_id")),
		CustomerID:         string(args.Peek("customer_id")),
		CollaboratorUserID: string(args.Peek("collaborator_user_id")),
		Status:             domain.ContractStatus(args.Peek("status")),
		Limit:              parseInt(string(args.Peek("limit")), 50),
		Offset:             parseInt(string(args.Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	contracts, err := h.uc.ListContracts(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondPage(ctx, contracts, len(contracts), filter.Limit, filter.Offset)
}

// @Summary Get contract
// @Tags contracts
// @Router /api/v1/contracts/{id} [get]
func (h *ContractHandler) Get(ctx *fasthttp.RequestCtx) {
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.GetContract(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, c)
}

// @Summary Create contract
// @Tags contracts
// @Router /api/v1/contracts [post]
func (h *ContractHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.ContractRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.Create(stdCtx, contractUC.CreateInput{
		Title:        req.Title,
		TemplateID:   req.TemplateID,
		Variables:    req.Variables,
		CreatedBy:    userID,
		Parties:      partiesFrom(req.ProjectID, req.CustomerID, req.CollaboratorUserID, req.ScopeID),
		PaymentTerms: termsFrom(req.MonthlyValue, req.MonthsCount, req.FirstPaymentDay),
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, c)
}

// @Summary Preview contract rendering
// @Tags contracts
// @Router /api/v1/contracts/preview [post]
func (h *ContractHandler) Preview(ctx *fasthttp.RequestCtx) {
	var req transport.ContractRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	out, err := h.uc.Preview(stdCtx, contractUC.PreviewInput{
		TemplateID:   req.TemplateID,
		Variables:    req.Variables,
		Parties:      partiesFrom(req.ProjectID, req.CustomerID, req.CollaboratorUserID, req.ScopeID),
		PaymentTerms: termsFrom(req.MonthlyValue, req.MonthsCount, req.FirstPaymentDay),
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, out)
}

// @Summary Update contract
// @Tags contracts
// @Router /api/v1/contracts/{id} [put]
func (h *ContractHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}
	var req transport.ContractUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.Update(stdCtx, id, contractUC.UpdateInput{
		Title:        req.Title,
		TemplateID:   req.TemplateID,
		Variables:    req.Variables,
		ContractHTML: req.ContractHTML,
		ActorID:      userID,
		Parties:      partiesFrom(req.ProjectID, req.CustomerID, req.CollaboratorUserID, req.ScopeID),
		PaymentTerms: termsFrom(req.MonthlyValue, req.MonthsCount, req.FirstPaymentDay),
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, c)
}

// @Summary Delete contract
// @Tags contracts
// @Router /api/v1/contracts/{id} [delete]
func (h *ContractHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id, userID); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Change contract status
// @Tags contracts
// @Router /api/v1/contracts/{id}/status [post]
func (h *ContractHandler) ChangeStatus(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}
	var req transport.StatusRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.Transition(stdCtx, id, domain.ContractStatus(req.Status), userID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, c)
}

// @Summary Lock contract
// @Tags contracts
// @Router /api/v1/contracts/{id}/lock [post]
func (h *ContractHandler) Lock(ctx *fasthttp.RequestCtx) {
	h.setLock(ctx, true)
}

// @Summary Unlock contract
// @Tags contracts
// @Router /api/v1/contracts/{id}/unlock [post]
func (h *ContractHandler) Unlock(ctx *fasthttp.RequestCtx) {
	h.setLock(ctx, false)
}

func (h *ContractHandler) setLock(ctx *fasthttp.RequestCtx, locked bool) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var (
		c   *domain.Contract
		err error
	)
	if locked {
		c, err = h.uc.Lock(stdCtx, id, userID)
	} else {
		c, err = h.uc.Unlock(stdCtx, id, userID)
	}
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, c)
}

// @Summary Bind e-signature document
// @Tags contracts
// @Router /api/v1/contracts/{id}/signature-document [post]
func (h *ContractHandler) AttachSignatureDocument(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}
	var req transport.SignatureDocumentRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.AttachSignatureDocument(stdCtx, id, req.DocumentID, userID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, c)
}

// @Summary Export contract as PDF
// @Tags contracts
// @Router /api/v1/contracts/{id}/pdf [get]
func (h *ContractHandler) PDF(ctx *fasthttp.RequestCtx) {
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	data, c, err := h.uc.RenderPDF(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.Response.Header.SetContentType("application/pdf")
	ctx.Response.Header.Set("Content-Disposition", "inline; filename="+strconv.Quote("contrato-"+c.ID+".pdf"))
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(data)
}

func partiesFrom(projectID, customerID, collaboratorID, scopeID *string) contractUC.Parties {
	return contractUC.Parties{
		ProjectID:          projectID,
		CustomerID:         customerID,
		CollaboratorUserID: collaboratorID,
		ScopeID:            scopeID,
	}
}

func termsFrom(monthly *float64, months *int, firstDay *transport.PaymentDay) contractUC.PaymentTerms {
	return contractUC.PaymentTerms{
		MonthlyValue:    monthly,
		MonthsCount:     months,
		FirstPaymentDay: firstDay.Ptr(),
	}
}

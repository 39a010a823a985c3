package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/contracts/api/handler"
)

type Handlers struct {
	Contract *apiHandler.ContractHandler
	Template *apiHandler.TemplateHandler
	Webhook  *apiHandler.WebhookHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Provider callbacks authenticate with an HMAC signature instead of a JWT.
	r.POST("/api/v1/webhooks/signature", handlers.Webhook.Signature)

	r.GET("/api/v1/templates", authMiddleware(handlers.Template.List))
	r.POST("/api/v1/templates", authMiddleware(handlers.Template.Create))
	r.GET("/api/v1/templates/{id}", authMiddleware(handlers.Template.Get))
	r.PUT("/api/v1/templates/{id}", authMiddleware(handlers.Template.Update))
	r.DELETE("/api/v1/templates/{id}", authMiddleware(handlers.Template.Delete))

	r.GET("/api/v1/contracts", authMiddleware(handlers.Contract.List))
	r.POST("/api/v1/contracts", authMiddleware(handlers.Contract.Create))
	r.POST("/api/v1/contracts/preview", authMiddleware(handlers.Contract.Preview))
	r.GET("/api/v1/contracts/{id}", authMiddleware(handlers.Contract.Get))
	r.PUT("/api/v1/contracts/{id}", authMiddleware(handlers.Contract.Update))
	r.DELETE("/api/v1/contracts/{id}", authMiddleware(handlers.Contract.Delete))
	r.POST("/api/v1/contracts/{id}/status", authMiddleware(handlers.Contract.ChangeStatus))
	r.POST("/api/v1/contracts/{id}/lock", authMiddleware(handlers.Contract.Lock))
	r.POST("/api/v1/contracts/{id}/unlock", authMiddleware(handlers.Contract.Unlock))
	r.POST("/api/v1/contracts/{id}/signature-document", authMiddleware(handlers.Contract.AttachSignatureDocument))
	r.GET("/api/v1/contracts/{id}/pdf", authMiddleware(handlers.Contract.PDF))

	return r
}

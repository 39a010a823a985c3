// Package signature accepts e-signature provider webhooks.
package signature

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/repository"
	"github.com/fastygo/contracts/usecase"
	"github.com/fastygo/contracts/usecase/contract"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Signature"

// Provider event types that confirm a signature.
const (
	EventDocumentSigned    = "document.signed"
	EventDocumentCompleted = "document.completed"
)

// Event is the provider payload.
type Event struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	DocumentID string `json:"document_id"`
}

// Outcome values reported back to the provider.
const (
	OutcomeProcessed = "processed"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
)

type Result struct {
	EventID    string `json:"event_id"`
	Outcome    string `json:"outcome"`
	ContractID string `json:"contract_id,omitempty"`
}

type UseCase struct {
	secret     []byte
	events     repository.WebhookEventRepository
	dispatcher *usecase.Dispatcher
	logger     *zap.Logger
}

func New(secret string, events repository.WebhookEventRepository, dispatcher *usecase.Dispatcher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		secret:     []byte(secret),
		events:     events,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Verify checks signature against the HMAC-SHA256 of body. A "sha256="
// prefix is accepted.
func (uc *UseCase) Verify(body []byte, signature string) error {
	if len(uc.secret) == 0 {
		return domain.ErrInvalidSignature.WithDetail("reason", "secret not configured")
	}
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	if signature == "" {
		return domain.ErrInvalidSignature.WithDetail("reason", "missing signature")
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return domain.ErrInvalidSignature.WithDetail("reason", "signature is not hex")
	}
	if !hmac.Equal(Sign(uc.secret, body), provided) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign computes the raw HMAC-SHA256 of body.
func Sign(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write(body)
	return mac.Sum(nil)
}

// Handle verifies and processes one webhook delivery. Unknown event types are
// acknowledged without side effects; repeated event ids are reported as
// duplicates.
func (uc *UseCase) Handle(ctx context.Context, body []byte, signature string) (*Result, error) {
	if err := uc.Verify(body, signature); err != nil {
		uc.logger.Warn("webhook rejected", zap.Error(err))
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid webhook payload", err)
	}
	event.EventID = strings.TrimSpace(event.EventID)
	event.DocumentID = strings.TrimSpace(event.DocumentID)
	if event.EventID == "" {
		return nil, domain.ErrInvalidPayload.WithDetail("field", "event_id")
	}

	log := uc.logger.With(zap.String("event_id", event.EventID), zap.String("event_type", event.EventType))
	result := &Result{EventID: event.EventID, Outcome: OutcomeIgnored}

	if event.EventType != EventDocumentSigned && event.EventType != EventDocumentCompleted {
		log.Info("webhook event ignored")
		return result, nil
	}
	if event.DocumentID == "" {
		return nil, domain.ErrInvalidPayload.WithDetail("field", "document_id")
	}

	if uc.events != nil {
		fresh, err := uc.events.MarkProcessed(ctx, event.EventID)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "webhook de-duplication failed", err)
		}
		if !fresh {
			log.Info("webhook event already processed")
			result.Outcome = OutcomeDuplicate
			return result, nil
		}
	}

	out, err := uc.dispatcher.ExecuteCommand(ctx, contract.CommandConfirmSignature, contract.ConfirmSignaturePayload{
		EventID:    event.EventID,
		DocumentID: event.DocumentID,
	})
	if err != nil {
		if uc.events != nil {
			if ferr := uc.events.Forget(context.WithoutCancel(ctx), event.EventID); ferr != nil {
				log.Warn("webhook event not released", zap.Error(ferr))
			}
		}
		log.Error("signature confirmation failed", zap.String("document_id", event.DocumentID), zap.Error(err))
		return nil, err
	}

	result.Outcome = OutcomeProcessed
	if c, ok := out.(*domain.Contract); ok && c != nil {
		result.ContractID = c.ID
	}
	log.Info("signature confirmed", zap.String("document_id", event.DocumentID), zap.String("contract_id", result.ContractID))
	return result, nil
}

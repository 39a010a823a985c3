package contract

import (
	"context"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/usecase"
)

// CommandConfirmSignature signs the contract bound to a provider document.
// Its payload is a ConfirmSignaturePayload.
const CommandConfirmSignature = "contract.confirm_signature"

type ConfirmSignaturePayload struct {
	EventID    string
	DocumentID string
}

// RegisterCommands exposes the engine on d.
func (uc *UseCase) RegisterCommands(d *usecase.Dispatcher) {
	d.RegisterCommand(CommandConfirmSignature, func(ctx context.Context, payload interface{}) (interface{}, error) {
		p, ok := payload.(ConfirmSignaturePayload)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		return uc.ConfirmSignature(ctx, p.DocumentID)
	})
}

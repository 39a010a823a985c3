package contract

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/contracts/domain"
)

// Create renders a new draft contract and stores it with its snapshots.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*domain.Contract, error) {
	if strings.TrimSpace(in.TemplateID) == "" {
		return nil, domain.ErrInvalidPayload.WithDetail("field", "template_id")
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return nil, domain.ErrUnauthorized
	}

	c := &domain.Contract{
		Title:              strings.TrimSpace(in.Title),
		ProjectID:          normalizeID(in.ProjectID),
		CustomerID:         normalizeID(in.CustomerID),
		CollaboratorUserID: normalizeID(in.CollaboratorUserID),
		ScopeID:            normalizeID(in.ScopeID),
		TemplateID:         in.TemplateID,
		CreatedBy:          in.CreatedBy,
		Status:             domain.ContractDraft,
		MonthlyValue:       in.MonthlyValue,
		MonthsCount:        in.MonthsCount,
		FirstPaymentDay:    in.FirstPaymentDay,
		Variables:          in.Variables,
	}

	out, err := uc.render(ctx, renderRequest{
		templateID: c.TemplateID,
		parties:    partiesOf(c),
		overrides:  in.Variables,
		terms:      in.PaymentTerms,
		contract:   c,
	})
	if err != nil {
		return nil, err
	}
	applyRendition(c, out)

	err = uc.inTx(ctx, func(ctx context.Context) error {
		if err := uc.repos.Contracts.Create(ctx, c); err != nil {
			return err
		}
		return uc.appendEvent(ctx, c.ID, domain.EventContractCreated, in.CreatedBy, map[string]interface{}{
			"template_id": c.TemplateID,
			"unresolved":  c.UnresolvedPlaceholders,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("contract created", zap.String("contract_id", c.ID), zap.String("template_id", c.TemplateID))
	uc.notifyContract(ctx, c, "Contrato criado", "O contrato foi gerado como rascunho.", in.CreatedBy)
	return c, nil
}

// Update changes content fields and re-renders the document. A manual
// ContractHTML replaces the template output but still goes through
// placeholder substitution. A final contract keeps its status, so an edit
// that leaves placeholders unresolved is rejected.
func (uc *UseCase) Update(ctx context.Context, id string, in UpdateInput) (*domain.Contract, error) {
	current, err := uc.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.Editable(); err != nil {
		return nil, err
	}

	next := *current
	if in.Title != nil {
		next.Title = strings.TrimSpace(*in.Title)
	}
	if in.TemplateID != nil {
		if strings.TrimSpace(*in.TemplateID) == "" {
			return nil, domain.ErrInvalidPayload.WithDetail("field", "template_id")
		}
		next.TemplateID = *in.TemplateID
	}
	next.ProjectID = mergeID(next.ProjectID, in.ProjectID)
	next.CustomerID = mergeID(next.CustomerID, in.CustomerID)
	next.CollaboratorUserID = mergeID(next.CollaboratorUserID, in.CollaboratorUserID)
	next.ScopeID = mergeID(next.ScopeID, in.ScopeID)
	if in.Variables != nil {
		next.Variables = in.Variables
	}
	if in.MonthlyValue != nil {
		next.MonthlyValue = in.MonthlyValue
	}
	if in.MonthsCount != nil {
		next.MonthsCount = in.MonthsCount
	}
	if in.FirstPaymentDay != nil {
		next.FirstPaymentDay = in.FirstPaymentDay
	}

	out, err := uc.render(ctx, renderRequest{
		templateID: next.TemplateID,
		parties:    partiesOf(&next),
		overrides:  next.Variables,
		terms:      termsOf(&next),
		contract:   &next,
		manualHTML: in.ContractHTML,
	})
	if err != nil {
		return nil, err
	}
	applyRendition(&next, out)

	err = uc.inTx(ctx, func(ctx context.Context) error {
		locked, err := uc.repos.Contracts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := locked.Editable(); err != nil {
			return err
		}
		if locked.Status == domain.ContractFinal && len(next.UnresolvedPlaceholders) > 0 {
			return domain.ErrUnresolvedPlaceholders.WithDetail("keys", next.UnresolvedPlaceholders)
		}
		next.Status = locked.Status
		next.IsLocked = locked.IsLocked
		next.ExternalSignatureDocumentID = locked.ExternalSignatureDocumentID
		if err := uc.repos.Contracts.Update(ctx, &next); err != nil {
			return err
		}
		return uc.appendEvent(ctx, id, domain.EventContractUpdated, in.ActorID, map[string]interface{}{
			"template_id": next.TemplateID,
			"manual_html": in.ContractHTML != nil,
			"unresolved":  next.UnresolvedPlaceholders,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("contract updated", zap.String("contract_id", id), zap.Bool("manual_html", in.ContractHTML != nil))
	return &next, nil
}

// Transition moves a contract to target. Signing is routed to the signing
// cascade; every other move runs in a single transaction.
func (uc *UseCase) Transition(ctx context.Context, id string, target domain.ContractStatus, actorID string) (*domain.Contract, error) {
	if !target.Valid() {
		return nil, domain.ErrInvalidStatus.WithDetail("status", string(target))
	}
	if target == domain.ContractSigned {
		return uc.sign(ctx, id, actorID, "operator")
	}

	var (
		c    *domain.Contract
		from domain.ContractStatus
	)
	err := uc.inTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repos.Contracts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = c.Status
		if !from.CanTransitionTo(target) {
			return domain.ErrInvalidTransition.
				WithDetail("from", string(from)).
				WithDetail("to", string(target))
		}
		if target == domain.ContractFinal && len(c.UnresolvedPlaceholders) > 0 {
			return domain.ErrUnresolvedPlaceholders.WithDetail("keys", c.UnresolvedPlaceholders)
		}
		c.Status = target
		if err := uc.repos.Contracts.Update(ctx, c); err != nil {
			return err
		}
		return uc.appendEvent(ctx, id, domain.EventContractStatusChanged, actorID, map[string]interface{}{
			"from": from,
			"to":   target,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("contract status changed",
		zap.String("contract_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)
	uc.notifyContract(ctx, c, statusTitle(target), "Status do contrato: "+string(target)+".", actorID)
	return c, nil
}

// ConfirmSignature signs the contract bound to an e-signature provider
// document. Repeated confirmations are a no-op.
func (uc *UseCase) ConfirmSignature(ctx context.Context, documentID string) (*domain.Contract, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, domain.ErrInvalidPayload.WithDetail("field", "document_id")
	}
	c, err := uc.repos.Contracts.GetByExternalDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return uc.sign(ctx, c.ID, "", "signature_provider")
}

// sign moves a final contract to signed, locks it and runs the cascade in the
// same transaction. Notifications go out only after commit and only on the
// first signature.
func (uc *UseCase) sign(ctx context.Context, id, actorID, source string) (*domain.Contract, error) {
	var (
		c         *domain.Contract
		already   bool
		activated []string
	)
	err := uc.inTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repos.Contracts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c.Status == domain.ContractSigned {
			already = true
			return nil
		}
		if !c.Status.CanTransitionTo(domain.ContractSigned) {
			return domain.ErrInvalidTransition.
				WithDetail("from", string(c.Status)).
				WithDetail("to", string(domain.ContractSigned))
		}

		c.Status = domain.ContractSigned
		c.IsLocked = true
		if err := uc.repos.Contracts.Update(ctx, c); err != nil {
			return err
		}
		if projectID := domain.StringValue(c.ProjectID); projectID != "" {
			if err := uc.syncProjectFlag(ctx, projectID); err != nil {
				return err
			}
		}
		if customerID := domain.StringValue(c.CustomerID); customerID != "" {
			activated, err = uc.repos.Customers.ActivateCascade(ctx, customerID)
			if err != nil {
				return err
			}
		}
		return uc.appendEvent(ctx, id, domain.EventContractSigned, actorID, map[string]interface{}{
			"source":                 source,
			"activated_customer_ids": activated,
		})
	})
	if err != nil {
		return nil, err
	}

	if already {
		uc.logger.Info("contract already signed", zap.String("contract_id", id), zap.String("source", source))
		return c, nil
	}

	uc.logger.Info("contract signed",
		zap.String("contract_id", id),
		zap.String("source", source),
		zap.Strings("activated_customer_ids", activated),
	)
	uc.notifySigned(ctx, c, actorID, activated)
	return c, nil
}

// AttachSignatureDocument records the e-signature provider document id used
// to match incoming webhooks.
func (uc *UseCase) AttachSignatureDocument(ctx context.Context, id, documentID, actorID string) (*domain.Contract, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, domain.ErrInvalidPayload.WithDetail("field", "document_id")
	}

	var c *domain.Contract
	err := uc.inTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repos.Contracts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch c.Status {
		case domain.ContractSigned:
			return domain.ErrContractSigned
		case domain.ContractCanceled:
			return domain.ErrContractCanceled
		}
		c.ExternalSignatureDocumentID = &documentID
		if err := uc.repos.Contracts.Update(ctx, c); err != nil {
			return err
		}
		return uc.appendEvent(ctx, id, domain.EventContractUpdated, actorID, map[string]interface{}{
			"external_signature_document_id": documentID,
		})
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Lock blocks content changes. Locking a locked contract is a no-op.
func (uc *UseCase) Lock(ctx context.Context, id, actorID string) (*domain.Contract, error) {
	return uc.setLock(ctx, id, actorID, true)
}

// Unlock clears the lock. Signed contracts stay locked.
func (uc *UseCase) Unlock(ctx context.Context, id, actorID string) (*domain.Contract, error) {
	return uc.setLock(ctx, id, actorID, false)
}

func (uc *UseCase) setLock(ctx context.Context, id, actorID string, locked bool) (*domain.Contract, error) {
	var c *domain.Contract
	err := uc.inTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repos.Contracts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c.Status == domain.ContractSigned && !locked {
			return domain.ErrContractSigned
		}
		if c.Status == domain.ContractCanceled && locked {
			return domain.ErrContractCanceled
		}
		if c.IsLocked == locked {
			return nil
		}
		c.IsLocked = locked
		if err := uc.repos.Contracts.Update(ctx, c); err != nil {
			return err
		}
		name := domain.EventContractUnlocked
		if locked {
			name = domain.EventContractLocked
		}
		return uc.appendEvent(ctx, id, name, actorID, nil)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete soft-deletes a contract and recomputes the project flag.
func (uc *UseCase) Delete(ctx context.Context, id, actorID string) error {
	err := uc.inTx(ctx, func(ctx context.Context) error {
		c, err := uc.repos.Contracts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch {
		case c.Status == domain.ContractSigned:
			return domain.ErrContractSigned
		case c.IsLocked:
			return domain.ErrContractLocked
		}
		if err := uc.repos.Contracts.SoftDelete(ctx, id, uc.now()); err != nil {
			return err
		}
		if projectID := domain.StringValue(c.ProjectID); projectID != "" {
			if err := uc.syncProjectFlag(ctx, projectID); err != nil {
				return err
			}
		}
		return uc.appendEvent(ctx, id, domain.EventContractDeleted, actorID, nil)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("contract deleted", zap.String("contract_id", id))
	return nil
}

func (uc *UseCase) syncProjectFlag(ctx context.Context, projectID string) error {
	count, err := uc.repos.Contracts.CountSigned(ctx, projectID)
	if err != nil {
		return err
	}
	return uc.repos.Projects.SetHasSignedContract(ctx, projectID, count > 0)
}

func (uc *UseCase) appendEvent(ctx context.Context, contractID, name, actorID string, payload map[string]interface{}) error {
	if uc.repos.Events == nil {
		return nil
	}
	event := domain.ContractEvent{
		ContractID: contractID,
		Name:       name,
		ActorID:    actorID,
		CreatedAt:  uc.now(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "failed to encode contract event", err)
		}
		event.Payload = raw
	}
	return uc.repos.Events.Append(ctx, event)
}

func applyRendition(c *domain.Contract, out *Rendition) {
	c.TemplateHTMLSnapshot = out.TemplateHTML
	c.ScopeHTMLSnapshot = out.ScopeHTML
	c.ContractHTML = out.HTML
	c.UnresolvedPlaceholders = out.Unresolved
}

func partiesOf(c *domain.Contract) Parties {
	return Parties{
		ProjectID:          c.ProjectID,
		CustomerID:         c.CustomerID,
		CollaboratorUserID: c.CollaboratorUserID,
		ScopeID:            c.ScopeID,
	}
}

func termsOf(c *domain.Contract) PaymentTerms {
	return PaymentTerms{
		MonthlyValue:    c.MonthlyValue,
		MonthsCount:     c.MonthsCount,
		FirstPaymentDay: c.FirstPaymentDay,
	}
}

func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	return domain.StringPtr(strings.TrimSpace(*id))
}

// mergeID keeps current when next is nil and clears the link when next
// points to an empty string.
func mergeID(current, next *string) *string {
	if next == nil {
		return current
	}
	return normalizeID(next)
}

func statusTitle(status domain.ContractStatus) string {
	switch status {
	case domain.ContractFinal:
		return "Contrato finalizado"
	case domain.ContractCanceled:
		return "Contrato cancelado"
	}
	return "Contrato atualizado"
}

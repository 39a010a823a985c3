package contract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/contracts/domain"
)

// Tracking stage reported when a contract is signed.
const StageContractSigned = "contract_signed"

// notifyContract hands an in-app notification to the notifier. It runs after
// commit; failures are logged and never returned.
func (uc *UseCase) notifyContract(ctx context.Context, c *domain.Contract, title, body, actorID string) {
	if uc.notifier == nil || c == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	recipients := uc.recipients(ctx, c, actorID, false)
	if len(recipients) == 0 {
		return
	}
	err := uc.notifier.Notify(ctx, domain.Notification{
		Title:        title,
		Body:         contractLabel(c) + ": " + body,
		EntityType:   "contract",
		EntityID:     c.ID,
		RecipientIDs: recipients,
	})
	if err != nil {
		uc.logger.Warn("contract notification not queued", zap.String("contract_id", c.ID), zap.Error(err))
	}
}

// notifySigned tells the team and admins about a signature and pushes a
// tracking update for the project and customer.
func (uc *UseCase) notifySigned(ctx context.Context, c *domain.Contract, actorID string, activated []string) {
	if uc.notifier == nil || c == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	if recipients := uc.recipients(ctx, c, actorID, true); len(recipients) > 0 {
		err := uc.notifier.Notify(ctx, domain.Notification{
			Title:        "Contrato assinado",
			Body:         contractLabel(c) + ": assinatura confirmada.",
			EntityType:   "contract",
			EntityID:     c.ID,
			RecipientIDs: recipients,
		})
		if err != nil {
			uc.logger.Warn("signature notification not queued", zap.String("contract_id", c.ID), zap.Error(err))
		}
	}

	projectID := domain.StringValue(c.ProjectID)
	customerID := domain.StringValue(c.CustomerID)
	if projectID == "" && customerID == "" {
		return
	}
	metadata := map[string]string{"contract_id": c.ID}
	if len(activated) > 0 {
		metadata["activated_customers"] = strings.Join(activated, ",")
	}
	err := uc.notifier.Track(ctx, domain.TrackingUpdate{
		ProjectID:  projectID,
		CustomerID: customerID,
		Stage:      StageContractSigned,
		Message:    "Contrato assinado",
		Metadata:   metadata,
		OccurredAt: uc.now(),
	})
	if err != nil {
		uc.logger.Warn("tracking update not queued", zap.String("contract_id", c.ID), zap.Error(err))
	}
}

// recipients collects the creator, the collaborator and the project members,
// plus active admins when withAdmins is set. The actor is skipped unless they
// are the only recipient.
func (uc *UseCase) recipients(ctx context.Context, c *domain.Contract, actorID string, withAdmins bool) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	add(c.CreatedBy)
	add(domain.StringValue(c.CollaboratorUserID))
	if projectID := domain.StringValue(c.ProjectID); projectID != "" && uc.repos.Projects != nil {
		project, err := uc.repos.Projects.GetByID(ctx, projectID)
		if err != nil {
			uc.logger.Warn("project members not loaded", zap.String("project_id", projectID), zap.Error(err))
		} else {
			for _, id := range project.MemberIDs {
				add(id)
			}
		}
	}
	if withAdmins && uc.repos.Users != nil {
		admins, err := uc.repos.Users.ListAdminIDs(ctx)
		if err != nil {
			uc.logger.Warn("admin recipients not loaded", zap.Error(err))
		}
		for _, id := range admins {
			add(id)
		}
	}

	if actorID != "" && len(out) > 1 {
		filtered := out[:0]
		for _, id := range out {
			if id != actorID {
				filtered = append(filtered, id)
			}
		}
		out = filtered
	}
	return out
}

func contractLabel(c *domain.Contract) string {
	if c.Title != "" {
		return c.Title
	}
	return "Contrato " + c.ID
}

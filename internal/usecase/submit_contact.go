package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arpitk/portfolio-backend/internal/entity"
	"github.com/arpitk/portfolio-backend/internal/infra/queue"
	"github.com/arpitk/portfolio-backend/pkg/logger"
)

// SubmitContactUseCase persists a contact-form lead and schedules the
// acknowledgment mail. Recruiters get the dashboard welcome instead of the
// plain acknowledgment; the admin is alerted about every new lead.
type SubmitContactUseCase struct {
	LeadRepo   entity.LeadRepositoryInterface
	Dispatcher queue.DispatcherInterface
	AdminEmail string
}

func NewSubmitContactUseCase(
	leadRepo entity.LeadRepositoryInterface,
	dispatcher queue.DispatcherInterface,
	adminEmail string,
) *SubmitContactUseCase {
	return &SubmitContactUseCase{
		LeadRepo:   leadRepo,
		Dispatcher: dispatcher,
		AdminEmail: adminEmail,
	}
}

func (uc *SubmitContactUseCase) Execute(ctx context.Context, input SubmitContactInput) (*SubmitContactOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	lead := entity.NewLead(
		input.Name, input.Email, input.Subject, input.Message,
		input.Company, input.Role, entity.LeadTypeContact, input.Metadata,
	)

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("save contact lead: %w", err)
	}

	if isRecruiter(input.Role) {
		uc.dispatch(ctx, queue.Notification{
			Kind:    queue.KindRecruiterWelcome,
			To:      input.Email,
			Name:    input.Name,
			Subject: input.Subject,
			Company: input.Company,
		})
	} else {
		uc.dispatch(ctx, queue.Notification{
			Kind:    queue.KindContactAck,
			To:      input.Email,
			Name:    input.Name,
			Subject: input.Subject,
			Message: input.Message,
		})
	}

	if uc.AdminEmail != "" {
		uc.dispatch(ctx, queue.Notification{
			Kind:      queue.KindAdminAlert,
			To:        uc.AdminEmail,
			Name:      input.Name,
			Subject:   input.Subject,
			Message:   input.Message,
			Company:   input.Company,
			Role:      input.Role,
			LeadEmail: input.Email,
		})
	}

	return &SubmitContactOutput{
		Status:  "success",
		ID:      lead.ID,
		Message: "Inquiry logged and acknowledgment dispatched.",
	}, nil
}

// dispatch schedules a notification; a scheduling failure is logged and
// swallowed, since the lead record is already the durable source of truth.
func (uc *SubmitContactUseCase) dispatch(ctx context.Context, n queue.Notification) {
	if err := uc.Dispatcher.Dispatch(ctx, n); err != nil {
		logger.Log.Error("failed to schedule notification",
			zap.String("kind", n.Kind), zap.Error(err))
	}
}

func isRecruiter(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), "recruiter")
}

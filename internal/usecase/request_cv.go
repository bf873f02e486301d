package usecase

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arpitk/portfolio-backend/internal/entity"
	"github.com/arpitk/portfolio-backend/internal/infra/queue"
	"github.com/arpitk/portfolio-backend/pkg/logger"
)

// RequestCVUseCase persists a cv_request lead and schedules delivery of the
// CV attachment. Two deliberate asymmetries with the contact flow:
//
//   - a missing CV file fails the request synchronously, because the
//     attachment is the entire point of this flow;
//   - a storage failure while saving the lead is logged and swallowed, so
//     the requester still receives the CV. Availability over durability.
type RequestCVUseCase struct {
	LeadRepo   entity.LeadRepositoryInterface
	Dispatcher queue.DispatcherInterface
	AdminEmail string
	CVPath     string
}

func NewRequestCVUseCase(
	leadRepo entity.LeadRepositoryInterface,
	dispatcher queue.DispatcherInterface,
	adminEmail string,
	cvPath string,
) *RequestCVUseCase {
	return &RequestCVUseCase{
		LeadRepo:   leadRepo,
		Dispatcher: dispatcher,
		AdminEmail: adminEmail,
		CVPath:     cvPath,
	}
}

func (uc *RequestCVUseCase) Execute(ctx context.Context, input RequestCVInput) (*RequestCVOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	cv, err := os.ReadFile(uc.CVPath)
	if err != nil {
		return nil, &ErrCVUnavailable{Path: uc.CVPath, Err: err}
	}

	lead := entity.NewLead(
		input.Name, input.Email, input.Subject, input.Message,
		input.Company, input.Role, entity.LeadTypeCVRequest, input.Metadata,
	)

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		// Deliberate: the lead record is lost but the CV still goes out.
		logger.Log.Error("cv-request lead not persisted, delivering CV anyway",
			zap.String("email", input.Email), zap.Error(err))
	}

	uc.dispatch(ctx, queue.Notification{
		Kind:           queue.KindCVDelivery,
		To:             input.Email,
		Name:           input.Name,
		Subject:        input.Subject,
		Company:        input.Company,
		AttachmentName: filepath.Base(uc.CVPath),
		Attachment:     cv,
	})

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

	return &RequestCVOutput{
		Status: "success",
		Detail: "CV dispatch scheduled.",
	}, nil
}

func (uc *RequestCVUseCase) dispatch(ctx context.Context, n queue.Notification) {
	if err := uc.Dispatcher.Dispatch(ctx, n); err != nil {
		logger.Log.Error("failed to schedule notification",
			zap.String("kind", n.Kind), zap.Error(err))
	}
}

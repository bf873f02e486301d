package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/arpitk/portfolio-backend/internal/entity"
	"github.com/arpitk/portfolio-backend/internal/infra/queue"
)

type MockLeadRepository struct {
	mock.Mock
}

func leadResult(args mock.Arguments) (*entity.Lead, error) {
	if lead, ok := args.Get(0).(*entity.Lead); ok {
		return lead, args.Error(1)
	}
	return nil, args.Error(1)
}

func leadsResult(args mock.Arguments) ([]*entity.Lead, error) {
	if leads, ok := args.Get(0).([]*entity.Lead); ok {
		return leads, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	return leadResult(m.Called(ctx, id))
}

func (m *MockLeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	return leadsResult(m.Called(ctx))
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id int64, status string) (*entity.Lead, error) {
	return leadResult(m.Called(ctx, id, status))
}

func (m *MockLeadRepository) UpdatePriority(ctx context.Context, id int64, priority string) (*entity.Lead, error) {
	return leadResult(m.Called(ctx, id, priority))
}

func (m *MockLeadRepository) UpdateQualityScore(ctx context.Context, id int64, score float64) (*entity.Lead, error) {
	return leadResult(m.Called(ctx, id, score))
}

func (m *MockLeadRepository) UpdateNotes(ctx context.Context, id int64, notes string) (*entity.Lead, error) {
	return leadResult(m.Called(ctx, id, notes))
}

func (m *MockLeadRepository) UpdateTags(ctx context.Context, id int64, tags []string) (*entity.Lead, error) {
	return leadResult(m.Called(ctx, id, tags))
}

func (m *MockLeadRepository) SetFlag(ctx context.Context, id int64, flagged bool) (*entity.Lead, error) {
	return leadResult(m.Called(ctx, id, flagged))
}

func (m *MockLeadRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) Search(ctx context.Context, keyword string) ([]*entity.Lead, error) {
	return leadsResult(m.Called(ctx, keyword))
}

func (m *MockLeadRepository) FilterByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Lead, error) {
	return leadsResult(m.Called(ctx, start, end))
}

func (m *MockLeadRepository) Filter(ctx context.Context, status, priority string, minScore *float64) ([]*entity.Lead, error) {
	return leadsResult(m.Called(ctx, status, priority, minScore))
}

func (m *MockLeadRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) Statistics(ctx context.Context) (*entity.LeadStatistics, error) {
	args := m.Called(ctx)
	if stats, ok := args.Get(0).(*entity.LeadStatistics); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingDispatcher collects notifications synchronously so handler tests
// can assert on them without racing a goroutine.
type recordingDispatcher struct {
	mu    sync.Mutex
	notes []queue.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n queue.Notification) error {
	d.mu.Lock()
	d.notes = append(d.notes, n)
	d.mu.Unlock()
	return nil
}

func (d *recordingDispatcher) dispatched() []queue.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]queue.Notification(nil), d.notes...)
}

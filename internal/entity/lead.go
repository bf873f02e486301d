package entity

import (
	"context"
	"strings"
	"time"
)

// Lead lifecycle status values.
const (
	StatusUnread     = "unread"
	StatusProcessing = "processing"
	StatusContacted  = "contacted"
	StatusArchived   = "archived"
)

// Lead priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Lead type values, fixed at creation.
const (
	LeadTypeContact       = "contact"
	LeadTypeCVRequest     = "cv_request"
	LeadTypeCollaboration = "collaboration"
)

const DefaultSource = "contact_form"

// Statuses returns the status set in lifecycle order.
func Statuses() []string {
	return []string{StatusUnread, StatusProcessing, StatusContacted, StatusArchived}
}

func ValidStatus(s string) bool {
	switch s {
	case StatusUnread, StatusProcessing, StatusContacted, StatusArchived:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ValidLeadType(t string) bool {
	switch t {
	case LeadTypeContact, LeadTypeCVRequest, LeadTypeCollaboration:
		return true
	}
	return false
}

// NormalizePriority lower-cases a priority value before validation.
func NormalizePriority(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

// ContactEvent is a reserved slot in a lead's contact history. No endpoint
// writes it yet; it round-trips through storage untouched.
type ContactEvent struct {
	At   time.Time `json:"at"`
	Kind string    `json:"kind"`
	Note string    `json:"note,omitempty"`
}

type Lead struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Subject        string            `json:"subject"`
	Message        string            `json:"message"`
	Company        string            `json:"company,omitempty"`
	Role           string            `json:"role,omitempty"`
	LeadType       string            `json:"lead_type"`
	Status         string            `json:"status"`
	Priority       string            `json:"priority"`
	QualityScore   float64           `json:"quality_score"`
	InternalNotes  string            `json:"internal_notes"`
	Tags           []string          `json:"tags"`
	Flagged        bool              `json:"flagged"`
	LastContacted  *time.Time        `json:"last_contacted,omitempty"`
	FollowUpDate   *time.Time        `json:"follow_up_date,omitempty"`
	ContactHistory []ContactEvent    `json:"contact_history"`
	Source         string            `json:"source"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewLead builds a lead with the lifecycle defaults applied. Storage assigns
// the id and stamps created_at/updated_at.
func NewLead(name, email, subject, message, company, role, leadType string, metadata map[string]string) *Lead {
	if leadType == "" {
		leadType = LeadTypeContact
	}
	return &Lead{
		Name:           name,
		Email:          email,
		Subject:        subject,
		Message:        message,
		Company:        company,
		Role:           role,
		LeadType:       leadType,
		Status:         StatusUnread,
		Priority:       PriorityMedium,
		QualityScore:   0.0,
		Tags:           []string{},
		ContactHistory: []ContactEvent{},
		Source:         DefaultSource,
		Metadata:       metadata,
	}
}

// LeadStatistics aggregates the admin dashboard numbers.
type LeadStatistics struct {
	TotalLeads         int            `json:"total_leads"`
	StatusDistribution map[string]int `json:"status_distribution"`
	ConversionRate     float64        `json:"conversion_rate"`
	AvgQualityScore    float64        `json:"avg_quality_score"`
	LeadsLast30Days    int            `json:"leads_last_30_days"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id int64) (*Lead, error)
	List(ctx context.Context) ([]*Lead, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Lead, error)
	UpdatePriority(ctx context.Context, id int64, priority string) (*Lead, error)
	UpdateQualityScore(ctx context.Context, id int64, score float64) (*Lead, error)
	UpdateNotes(ctx context.Context, id int64, notes string) (*Lead, error)
	UpdateTags(ctx context.Context, id int64, tags []string) (*Lead, error)
	SetFlag(ctx context.Context, id int64, flagged bool) (*Lead, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, keyword string) ([]*Lead, error)
	FilterByDateRange(ctx context.Context, start, end time.Time) ([]*Lead, error)
	Filter(ctx context.Context, status, priority string, minScore *float64) ([]*Lead, error)
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	Statistics(ctx context.Context) (*LeadStatistics, error)
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arpitk/portfolio-backend/internal/entity"
)

const leadColumns = `id, name, email, subject, message, company, role, lead_type,
	status, priority, quality_score, internal_notes, tags, flagged,
	last_contacted, follow_up_date, contact_history, source, metadata,
	created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	tags, err := json.Marshal(lead.Tags)
	if err != nil {
		return err
	}
	history, err := json.Marshal(lead.ContactHistory)
	if err != nil {
		return err
	}
	metadata, err := json.Marshal(lead.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO contact_leads
			(name, email, subject, message, company, role, lead_type, status,
			 priority, quality_score, internal_notes, tags, flagged,
			 contact_history, source, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(ctx, query,
		lead.Name,
		lead.Email,
		lead.Subject,
		lead.Message,
		nullString(lead.Company),
		nullString(lead.Role),
		lead.LeadType,
		lead.Status,
		lead.Priority,
		lead.QualityScore,
		lead.InternalNotes,
		tags,
		lead.Flagged,
		history,
		lead.Source,
		metadata,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM contact_leads WHERE id = $1`
	return scanLead(r.DB.QueryRowContext(ctx, query, id))
}

func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM contact_leads ORDER BY created_at DESC`
	return r.queryLeads(ctx, query)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status string) (*entity.Lead, error) {
	if !entity.ValidStatus(status) {
		return nil, entity.ErrInvalidStatus
	}
	query := `
		UPDATE contact_leads
		SET status = $2, last_contacted = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leadColumns
	return scanLead(r.DB.QueryRowContext(ctx, query, id, status))
}

func (r *LeadRepository) UpdatePriority(ctx context.Context, id int64, priority string) (*entity.Lead, error) {
	priority = entity.NormalizePriority(priority)
	if !entity.ValidPriority(priority) {
		return nil, entity.ErrInvalidPriority
	}
	query := `
		UPDATE contact_leads
		SET priority = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leadColumns
	return scanLead(r.DB.QueryRowContext(ctx, query, id, priority))
}

func (r *LeadRepository) UpdateQualityScore(ctx context.Context, id int64, score float64) (*entity.Lead, error) {
	if score < 0.0 || score > 1.0 {
		return nil, entity.ErrScoreOutOfRange
	}
	query := `
		UPDATE contact_leads
		SET quality_score = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leadColumns
	return scanLead(r.DB.QueryRowContext(ctx, query, id, score))
}

func (r *LeadRepository) UpdateNotes(ctx context.Context, id int64, notes string) (*entity.Lead, error) {
	query := `
		UPDATE contact_leads
		SET internal_notes = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leadColumns
	return scanLead(r.DB.QueryRowContext(ctx, query, id, notes))
}

func (r *LeadRepository) UpdateTags(ctx context.Context, id int64, tags []string) (*entity.Lead, error) {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE contact_leads
		SET tags = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leadColumns
	return scanLead(r.DB.QueryRowContext(ctx, query, id, encoded))
}

// SetFlag is idempotent: flagging an already-flagged lead succeeds unchanged.
func (r *LeadRepository) SetFlag(ctx context.Context, id int64, flagged bool) (*entity.Lead, error) {
	query := `
		UPDATE contact_leads
		SET flagged = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leadColumns
	return scanLead(r.DB.QueryRowContext(ctx, query, id, flagged))
}

// Delete reports whether a row was removed; absence is not an error here.
func (r *LeadRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM contact_leads WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Search matches the keyword as a case-insensitive substring in any of name,
// email, subject, message or internal notes.
func (r *LeadRepository) Search(ctx context.Context, keyword string) ([]*entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM contact_leads
		WHERE name ILIKE $1 OR email ILIKE $1 OR subject ILIKE $1
			OR message ILIKE $1 OR internal_notes ILIKE $1
		ORDER BY created_at DESC`
	return r.queryLeads(ctx, query, "%"+keyword+"%")
}

// FilterByDateRange returns leads created within [start, end], inclusive.
func (r *LeadRepository) FilterByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM contact_leads
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC`
	return r.queryLeads(ctx, query, start, end)
}

// Filter AND-composes the optional criteria; empty values impose no constraint.
func (r *LeadRepository) Filter(ctx context.Context, status, priority string, minScore *float64) ([]*entity.Lead, error) {
	var (
		conditions []string
		args       []any
	)
	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if priority != "" {
		args = append(args, priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if minScore != nil {
		args = append(args, *minScore)
		conditions = append(conditions, fmt.Sprintf("quality_score >= $%d", len(args)))
	}

	query := `SELECT ` + leadColumns + ` FROM contact_leads`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	return r.queryLeads(ctx, query, args...)
}

// BulkUpdateStatus updates every listed lead that exists and returns the
// count actually changed. Absent ids are skipped silently.
func (r *LeadRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if !entity.ValidStatus(status) {
		return 0, entity.ErrInvalidStatus
	}
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders, args := idPlaceholders(ids, 2)
	args = append([]any{status}, args...)

	query := fmt.Sprintf(`
		UPDATE contact_leads
		SET status = $1, last_contacted = NOW(), updated_at = NOW()
		WHERE id IN (%s)`, placeholders)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *LeadRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders, args := idPlaceholders(ids, 1)
	query := fmt.Sprintf(`DELETE FROM contact_leads WHERE id IN (%s)`, placeholders)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Statistics aggregates the dashboard numbers. Rates are zero-guarded: an
// empty table yields 0 conversion and 0.0 average score.
func (r *LeadRepository) Statistics(ctx context.Context) (*entity.LeadStatistics, error) {
	stats := &entity.LeadStatistics{
		StatusDistribution: make(map[string]int, 4),
	}
	for _, status := range entity.Statuses() {
		stats.StatusDistribution[status] = 0
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM contact_leads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.StatusDistribution[status] = count
		stats.TotalLeads += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.TotalLeads > 0 {
		contacted := stats.StatusDistribution[entity.StatusContacted]
		stats.ConversionRate = float64(contacted) / float64(stats.TotalLeads) * 100
	}

	var avg sql.NullFloat64
	err = r.DB.QueryRowContext(ctx, `SELECT AVG(quality_score) FROM contact_leads`).Scan(&avg)
	if err != nil {
		return nil, err
	}
	if avg.Valid {
		stats.AvgQualityScore = avg.Float64
	}

	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_leads WHERE created_at >= NOW() - INTERVAL '30 days'`,
	).Scan(&stats.LeadsLast30Days)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *LeadRepository) queryLeads(ctx context.Context, query string, args ...any) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]*entity.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanLead reads one lead row, filling defaults for optional columns so rows
// written before a column existed still come back well-formed.
func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead          entity.Lead
		company, role sql.NullString
		lastContacted sql.NullTime
		followUpDate  sql.NullTime
		tags          []byte
		history       []byte
		metadata      []byte
	)

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Subject,
		&lead.Message,
		&company,
		&role,
		&lead.LeadType,
		&lead.Status,
		&lead.Priority,
		&lead.QualityScore,
		&lead.InternalNotes,
		&tags,
		&lead.Flagged,
		&lastContacted,
		&followUpDate,
		&history,
		&lead.Source,
		&metadata,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	lead.Company = company.String
	lead.Role = role.String
	if lastContacted.Valid {
		lead.LastContacted = &lastContacted.Time
	}
	if followUpDate.Valid {
		lead.FollowUpDate = &followUpDate.Time
	}

	lead.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &lead.Tags); err != nil {
			return nil, err
		}
	}
	lead.ContactHistory = []entity.ContactEvent{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &lead.ContactHistory); err != nil {
			return nil, err
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &lead.Metadata); err != nil {
			return nil, err
		}
	}

	return &lead, nil
}

func idPlaceholders(ids []int64, first int) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", first+i)
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

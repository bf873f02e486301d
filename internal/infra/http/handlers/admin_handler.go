package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arpitk/portfolio-backend/internal/entity"
)

// AdminLeadHandler serves the triage surface over the lead store. Every route
// here sits behind the authorization gate; by the time a request lands the
// handler only performs one logical operation and translates the outcome.
type AdminLeadHandler struct {
	Repo entity.LeadRepositoryInterface
}

func NewAdminLeadHandler(repo entity.LeadRepositoryInterface) *AdminLeadHandler {
	return &AdminLeadHandler{Repo: repo}
}

func (h *AdminLeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Repo.List(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *AdminLeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	lead, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *AdminLeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Repo.Delete(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "Lead deleted"})
}

func (h *AdminLeadHandler) Flag(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, true, "Lead flagged")
}

func (h *AdminLeadHandler) Unflag(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, false, "Lead unflagged")
}

func (h *AdminLeadHandler) setFlag(w http.ResponseWriter, r *http.Request, flagged bool, status string) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	lead, err := h.Repo.SetFlag(r.Context(), id, flagged)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"lead":   map[string]any{"id": lead.ID, "flagged": lead.Flagged},
	})
}

func (h *AdminLeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !entity.ValidStatus(body.Status) {
		writeError(w, http.StatusBadRequest, entity.ErrInvalidStatus.Error())
		return
	}
	lead, err := h.Repo.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *AdminLeadHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	var body struct {
		Priority string `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	priority := entity.NormalizePriority(body.Priority)
	if !entity.ValidPriority(priority) {
		writeError(w, http.StatusBadRequest, entity.ErrInvalidPriority.Error())
		return
	}
	lead, err := h.Repo.UpdatePriority(r.Context(), id, priority)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *AdminLeadHandler) UpdateQualityScore(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	var body struct {
		QualityScore float64 `json:"quality_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if body.QualityScore < 0.0 || body.QualityScore > 1.0 {
		writeError(w, http.StatusBadRequest, "Score must be between 0 and 1")
		return
	}
	lead, err := h.Repo.UpdateQualityScore(r.Context(), id, body.QualityScore)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *AdminLeadHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	var body struct {
		InternalNotes string `json:"internal_notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	lead, err := h.Repo.UpdateNotes(r.Context(), id, body.InternalNotes)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *AdminLeadHandler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	var body struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	lead, err := h.Repo.UpdateTags(r.Context(), id, body.Tags)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// BulkUpdateStatus applies the status to every listed lead that exists.
// Absent ids are skipped silently; the count reflects rows actually changed.
func (h *AdminLeadHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LeadIDs []int64 `json:"lead_ids"`
		Status  string  `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "lead_ids must be a list")
		return
	}
	if !entity.ValidStatus(body.Status) {
		writeError(w, http.StatusBadRequest, entity.ErrInvalidStatus.Error())
		return
	}
	count, err := h.Repo.BulkUpdateStatus(r.Context(), body.LeadIDs, body.Status)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        fmt.Sprintf("Updated %d leads", count),
		"updated_count": count,
	})
}

func (h *AdminLeadHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LeadIDs []int64 `json:"lead_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "lead_ids must be a list")
		return
	}
	count, err := h.Repo.BulkDelete(r.Context(), body.LeadIDs)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        fmt.Sprintf("Deleted %d leads", count),
		"deleted_count": count,
	})
}

func (h *AdminLeadHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "q parameter is required")
		return
	}
	leads, err := h.Repo.Search(r.Context(), keyword)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// FilterByDate returns leads created within the inclusive date range.
func (h *AdminLeadHandler) FilterByDate(w http.ResponseWriter, r *http.Request) {
	start, err := parseDate(r.URL.Query().Get("start_date"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD or RFC3339")
		return
	}
	end, err := parseDate(r.URL.Query().Get("end_date"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD or RFC3339")
		return
	}
	leads, err := h.Repo.FilterByDateRange(r.Context(), start, end)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *AdminLeadHandler) Filtered(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !entity.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, entity.ErrInvalidStatus.Error())
		return
	}
	priority := entity.NormalizePriority(r.URL.Query().Get("priority"))
	if priority != "" && !entity.ValidPriority(priority) {
		writeError(w, http.StatusBadRequest, entity.ErrInvalidPriority.Error())
		return
	}

	var minScore *float64
	if raw := r.URL.Query().Get("min_score"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_score must be a number")
			return
		}
		minScore = &score
	}

	leads, err := h.Repo.Filter(r.Context(), status, priority, minScore)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *AdminLeadHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.Statistics(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Export streams the full lead list as CSV (default) or JSON.
func (h *AdminLeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Repo.List(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Disposition", `attachment; filename=leads_export.json`)
		writeJSON(w, http.StatusOK, leads)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=leads_export.csv`)

	writer := csv.NewWriter(w)
	writer.Write([]string{
		"ID", "Name", "Email", "Subject", "Company", "Message", "Created At",
		"Updated At", "Flagged", "Status", "Priority", "Quality Score",
		"Internal Notes", "Last Contacted", "Follow-up Date", "Tags",
		"Source", "Lead Type",
	})
	for _, lead := range leads {
		writer.Write([]string{
			strconv.FormatInt(lead.ID, 10),
			lead.Name,
			lead.Email,
			lead.Subject,
			lead.Company,
			lead.Message,
			lead.CreatedAt.Format(time.RFC3339),
			lead.UpdatedAt.Format(time.RFC3339),
			strconv.FormatBool(lead.Flagged),
			lead.Status,
			lead.Priority,
			strconv.FormatFloat(lead.QualityScore, 'f', -1, 64),
			lead.InternalNotes,
			formatTimePtr(lead.LastContacted),
			formatTimePtr(lead.FollowUpDate),
			strings.Join(lead.Tags, ","),
			lead.Source,
			lead.LeadType,
		})
	}
	writer.Flush()
}

func leadID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "leadID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lead id")
		return 0, false
	}
	return id, true
}

// parseDate accepts YYYY-MM-DD or RFC3339. A date-only end bound is widened
// to the end of that day so the range stays inclusive.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

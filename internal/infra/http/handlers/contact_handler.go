package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/arpitk/portfolio-backend/internal/entity"
	"github.com/arpitk/portfolio-backend/internal/infra/http/middleware"
	"github.com/arpitk/portfolio-backend/internal/usecase"
)

// ContactHandler serves the public submission endpoints. Both accept form
// posts (what the portfolio frontend sends) and JSON bodies.
type ContactHandler struct {
	SubmitContactUC *usecase.SubmitContactUseCase
	RequestCVUC     *usecase.RequestCVUseCase
	rateLimiter     *RateLimiter
}

func NewContactHandler(submitUC *usecase.SubmitContactUseCase, cvUC *usecase.RequestCVUseCase) *ContactHandler {
	return &ContactHandler{
		SubmitContactUC: submitUC,
		RequestCVUC:     cvUC,
		rateLimiter:     NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var input usecase.SubmitContactInput
	if !decodeSubmission(w, r, &input, func(form map[string]string) {
		input.Name = form["name"]
		input.Email = form["email"]
		input.Subject = form["subject"]
		input.Message = form["message"]
		input.Company = form["company"]
		input.Role = form["role"]
	}) {
		return
	}
	input.Metadata = captureMetadata(r)

	output, err := h.SubmitContactUC.Execute(r.Context(), input)
	if err != nil {
		var vErrs usecase.ValidationErrors
		if errors.As(err, &vErrs) {
			writeError(w, http.StatusBadRequest, vErrs.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save contact")
		return
	}

	middleware.RecordLeadCreated(entity.LeadTypeContact)
	writeJSON(w, http.StatusOK, output)
}

func (h *ContactHandler) RequestCV(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var input usecase.RequestCVInput
	if !decodeSubmission(w, r, &input, func(form map[string]string) {
		input.Name = form["name"]
		input.Email = form["email"]
		input.Company = form["company"]
		input.Subject = form["subject"]
		input.Message = form["message"]
		input.Role = form["role"]
	}) {
		return
	}
	input.Metadata = captureMetadata(r)

	output, err := h.RequestCVUC.Execute(r.Context(), input)
	if err != nil {
		var vErrs usecase.ValidationErrors
		if errors.As(err, &vErrs) {
			writeError(w, http.StatusBadRequest, vErrs.Error())
			return
		}
		var cvErr *usecase.ErrCVUnavailable
		if errors.As(err, &cvErr) {
			writeError(w, http.StatusInternalServerError, "CV is temporarily unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to process CV request")
		return
	}

	middleware.RecordLeadCreated(entity.LeadTypeCVRequest)
	writeJSON(w, http.StatusOK, output)
}

// decodeSubmission fills the input from a JSON body or form fields. Reports
// whether decoding succeeded; on failure the 400 response is already written.
func decodeSubmission(w http.ResponseWriter, r *http.Request, jsonTarget any, fromForm func(map[string]string)) bool {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(jsonTarget); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return false
		}
		return true
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return false
	}
	form := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		form[key] = r.PostForm.Get(key)
	}
	fromForm(form)
	return true
}

// captureMetadata records the request context on the lead; written once at
// creation, never mutated.
func captureMetadata(r *http.Request) map[string]string {
	return map[string]string{
		"ip_address": getClientIP(r),
		"user_agent": r.Header.Get("User-Agent"),
		"referer":    r.Header.Get("Referer"),
		"origin":     r.Header.Get("Origin"),
	}
}

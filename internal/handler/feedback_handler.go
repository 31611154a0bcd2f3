package handlers

import (
	"encoding/json"
	"net/http"

	"faqcenter/internal/service"
)

func (h *Handlers) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.FeedbackService.Submit(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, result, http.StatusCreated)
}

func (h *Handlers) ListFeedbacks(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	feedbacks, err := h.FeedbackService.ListFeedbacks(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, feedbacks, http.StatusOK)
}

func (h *Handlers) ListAutoReplyTemplates(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	templates, err := h.FeedbackService.ListTemplates(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, templates, http.StatusOK)
}

func (h *Handlers) GetAutoReplyLogs(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	feedbackID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Неверный ID", http.StatusBadRequest)
		return
	}

	logs, err := h.FeedbackService.LogsForFeedback(r.Context(), feedbackID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, logs, http.StatusOK)
}

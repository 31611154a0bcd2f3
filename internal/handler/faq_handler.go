package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"faqcenter/internal/models"
	"faqcenter/internal/repository"
	"faqcenter/internal/service"
)

type FAQCreateResponse struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
}

type FAQUpdateResponse struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FAQStatusResponse struct {
	ID          int64      `json:"id"`
	Status      string     `json:"status"`
	Version     int        `json:"version"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type DeleteResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type VersionHistoryItem struct {
	Version       int       `json:"version"`
	ChangeSummary string    `json:"changeSummary"`
	Status        string    `json:"status"`
	ChangedAt     time.Time `json:"changedAt"`
	ChangedBy     string    `json:"changedBy"`
}

type VersionHistoryResponse struct {
	Versions []VersionHistoryItem `json:"versions"`
}

type RestoreVersionResponse struct {
	ID                  int64     `json:"id"`
	Version             int       `json:"version"`
	RestoredFromVersion int       `json:"restoredFromVersion"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type UploadImageRequest struct {
	FileName string  `json:"fileName" validate:"required"`
	FileData string  `json:"fileData" validate:"required"` // base64
	AltText  *string `json:"altText"`
	Caption  *string `json:"caption"`
}

type UpdateImageBody struct {
	AltText      *string `json:"altText"`
	Caption      *string `json:"caption"`
	DisplayOrder *int    `json:"displayOrder"`
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func (h *Handlers) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req repository.CreateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	faq, err := h.FAQService.Create(r.Context(), req, actor(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, FAQCreateResponse{
		ID:        faq.ID,
		Slug:      faq.Slug,
		Status:    faq.Status,
		Version:   faq.Version,
		CreatedAt: faq.CreatedAt,
	}, http.StatusCreated)
}

func (h *Handlers) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Неверный ID", http.StatusBadRequest)
		return
	}

	var req repository.UpdateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	req.ID = id

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// OptString-поля валидатор не покрывает тегами
	if req.FeaturedImageURL.Value != nil {
		if err := h.Validate.Var(*req.FeaturedImageURL.Value, "url"); err != nil {
			WriteError(w, "Неверный URL изображения", http.StatusBadRequest)
			return
		}
	}
	if req.SEOTitle.Value != nil {
		if err := h.Validate.Var(*req.SEOTitle.Value, "max=255"); err != nil {
			WriteError(w, "SEO-заголовок длиннее 255 символов", http.StatusBadRequest)
			return
		}
	}

	faq, err := h.FAQService.Update(r.Context(), req, actor(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, FAQUpdateResponse{
		ID:        faq.ID,
		Slug:      faq.Slug,
		Status:    faq.Status,
		Version:   faq.Version,
		UpdatedAt: faq.UpdatedAt,
	}, http.StatusOK)
}

func (h *Handlers) GetFAQ(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Неверный ID", http.StatusBadRequest)
		return
	}

	details, err := h.FAQService.GetByID(r.Context(), id, isAdmin(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, details, http.StatusOK)
}

func (h *Handlers) GetFAQBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if slug == "" {
		WriteError(w, "Не указан slug", http.StatusBadRequest)
		return
	}

	details, err := h.FAQService.GetBySlug(r.Context(), slug, isAdmin(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, details, http.StatusOK)
}

func (h *Handlers) ListFAQs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	filter := repository.ListFAQFilter{
		Status:      query.Get("status"),
		ProductType: query.Get("productType"),
		Scenario:    query.Get("scenario"),
		Search:      query.Get("search"),
		Page:        page,
		Limit:       limit,
		Sort:        query.Get("sort"),
		Order:       query.Get("order"),
	}

	pageResult, err := h.FAQService.List(r.Context(), filter, isAdmin(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, pageResult, http.StatusOK)
}

func (h *Handlers) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Неверный ID", http.StatusBadRequest)
		return
	}

	success, err := h.FAQService.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, DeleteResponse{Success: success, ID: id}, http.StatusOK)
}

func (h *Handlers) PublishFAQ(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, true)
}

func (h *Handlers) UnpublishFAQ(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, false)
}

func (h *Handlers) setStatus(w http.ResponseWriter, r *http.Request, publish bool) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Неверный ID", http.StatusBadRequest)
		return
	}

	var faq *models.FAQ
	if publish {
		faq, err = h.FAQService.Publish(r.Context(), id)
	} else {
		faq, err = h.FAQService.Unpublish(r.Context(), id)
	}
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, FAQStatusResponse{
		ID:          faq.ID,
		Status:      faq.Status,
		Version:     faq.Version,
		PublishedAt: faq.PublishedAt,
	}, http.StatusOK)
}

func (h *Handlers) GetVersionHistory(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Неверный ID", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	versions, err := h.FAQService.VersionHistory(r.Context(), id, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	response := VersionHistoryResponse{Versions: make([]VersionHistoryItem, 0, len(versions))}
	for _, v := range versions {
		response.Versions = append(response.Versions, VersionHistoryItem{
			Version:       v.Version,
			ChangeSummary: v.ChangeSummary,
			Status:        v.Status,
			ChangedAt:     v.ChangedAt,
			ChangedBy:     v.ChangedBy,
		})
	}

	WriteSuccess(w, response, http.StatusOK)
}

func (h *Handlers) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Неверный ID", http.StatusBadRequest)
		return
	}

	targetVersion, err := strconv.Atoi(mux.Vars(r)["version"])
	if err != nil || targetVersion < 1 {
		WriteError(w, "Неверный номер версии", http.StatusBadRequest)
		return
	}

	faq, err := h.FAQService.RestoreVersion(r.Context(), id, targetVersion, actor(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, RestoreVersionResponse{
		ID:                  faq.ID,
		Version:             faq.Version,
		RestoredFromVersion: targetVersion,
		UpdatedAt:           faq.UpdatedAt,
	}, http.StatusOK)
}

func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Неверный ID", http.StatusBadRequest)
		return
	}

	var req UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.FileData)
	if err != nil {
		WriteError(w, "Неверная base64-кодировка файла", http.StatusBadRequest)
		return
	}

	if int64(len(data)) > h.Cfg.MaxUploadSize {
		WriteError(w, fmt.Sprintf("Файл слишком большой (макс. %d MB)",
			h.Cfg.MaxUploadSize/(1024*1024)), http.StatusBadRequest)
		return
	}

	image, err := h.FAQService.UploadImage(r.Context(), service.UploadImageRequest{
		FAQID:    id,
		FileName: req.FileName,
		Data:     data,
		AltText:  req.AltText,
		Caption:  req.Caption,
	}, actor(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, image, http.StatusCreated)
}

func (h *Handlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	imageID, err := pathID(r, "imageId")
	if err != nil {
		WriteError(w, "Неверный ID изображения", http.StatusBadRequest)
		return
	}

	if err := h.FAQService.DeleteImage(r.Context(), imageID); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, DeleteResponse{Success: true, ID: imageID}, http.StatusOK)
}

func (h *Handlers) UpdateImage(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	imageID, err := pathID(r, "imageId")
	if err != nil {
		WriteError(w, "Неверный ID изображения", http.StatusBadRequest)
		return
	}

	var body UpdateImageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	image, err := h.FAQService.UpdateImage(r.Context(), service.UpdateImageRequest{
		ImageID:      imageID,
		AltText:      body.AltText,
		Caption:      body.Caption,
		DisplayOrder: body.DisplayOrder,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, image, http.StatusOK)
}

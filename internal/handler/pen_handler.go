package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
	"github.com/hs6uej/farmpigs-sub001/internal/repository"
	"github.com/hs6uej/farmpigs-sub001/internal/security"
)

// PenHandler は豚房管理のHTTPハンドラー。
type PenHandler struct {
	repo      repository.PenRepository
	sanitizer security.TextSanitizerService
}

// NewPenHandler はPenHandlerを生成する。
func NewPenHandler(repo repository.PenRepository, sanitizer security.TextSanitizerService) *PenHandler {
	return &PenHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// penRequest は豚房の作成・更新リクエストのボディ。
type penRequest struct {
	Name     string `json:"name"`
	PenType  string `json:"pen_type"`
	Capacity int    `json:"capacity"`
	Notes    string `json:"notes"`
}

// penResponse は豚房のAPIレスポンス。
type penResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PenType   string    `json:"pen_type"`
	Capacity  int       `json:"capacity"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List は豚房一覧を返す。
// GET /api/pens
func (h *PenHandler) List(w http.ResponseWriter, r *http.Request) {
	pens, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]penResponse, len(pens))
	for i, pen := range pens {
		results[i] = toPenResponse(pen)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は豚房詳細を返す。
// GET /api/pens/{id}
func (h *PenHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pen, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if pen == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("豚房", id))
		return
	}

	writeJSON(w, http.StatusOK, toPenResponse(pen))
}

// Create は豚房を登録する。
// POST /api/pens
func (h *PenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req penRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("name"))
		return
	}

	now := time.Now()
	pen := &model.Pen{
		ID:        uuid.New().String(),
		Name:      req.Name,
		PenType:   req.PenType,
		Capacity:  req.Capacity,
		Notes:     h.sanitizer.Sanitize(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(r.Context(), pen); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPenResponse(pen))
}

// Update は豚房情報を更新する。
// PUT /api/pens/{id}
func (h *PenHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req penRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("name"))
		return
	}

	pen, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if pen == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("豚房", id))
		return
	}

	pen.Name = req.Name
	pen.PenType = req.PenType
	pen.Capacity = req.Capacity
	pen.Notes = h.sanitizer.Sanitize(req.Notes)
	pen.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), pen); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPenResponse(pen))
}

// Delete は豚房を削除する。
// DELETE /api/pens/{id}
func (h *PenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toPenResponse はmodel.PenからAPIレスポンスに変換する。
func toPenResponse(pen *model.Pen) penResponse {
	return penResponse{
		ID:        pen.ID,
		Name:      pen.Name,
		PenType:   pen.PenType,
		Capacity:  pen.Capacity,
		Notes:     pen.Notes,
		CreatedAt: pen.CreatedAt,
		UpdatedAt: pen.UpdatedAt,
	}
}

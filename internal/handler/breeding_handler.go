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

// RecordMetrics は記録作成数のメトリクスを収集するインターフェース。
type RecordMetrics interface {
	RecordRecordsCreated(kind string)
}

// BreedingHandler は交配記録管理のHTTPハンドラー。
type BreedingHandler struct {
	repo      repository.BreedingRepository
	sanitizer security.TextSanitizerService
	metrics   RecordMetrics
}

// NewBreedingHandler はBreedingHandlerを生成する。metricsはnil許容。
func NewBreedingHandler(repo repository.BreedingRepository, sanitizer security.TextSanitizerService, metrics RecordMetrics) *BreedingHandler {
	return &BreedingHandler{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// breedingRequest は交配記録の作成・更新リクエストのボディ。
type breedingRequest struct {
	SowID              string `json:"sow_id"`
	BoarID             string `json:"boar_id"`
	BreedingDate       string `json:"breeding_date"`
	Success            *bool  `json:"success"`
	ExpectedFarrowDate string `json:"expected_farrow_date"`
	Notes              string `json:"notes"`
}

// breedingResponse は交配記録のAPIレスポンス。
type breedingResponse struct {
	ID                 string    `json:"id"`
	SowID              string    `json:"sow_id"`
	BoarID             string    `json:"boar_id"`
	BreedingDate       string    `json:"breeding_date"`
	Success            *bool     `json:"success"`
	ExpectedFarrowDate string    `json:"expected_farrow_date"`
	Notes              string    `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// List は交配記録一覧を返す。
// GET /api/breedings
func (h *BreedingHandler) List(w http.ResponseWriter, r *http.Request) {
	breedings, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]breedingResponse, len(breedings))
	for i, breeding := range breedings {
		results[i] = toBreedingResponse(breeding)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は交配記録詳細を返す。
// GET /api/breedings/{id}
func (h *BreedingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	breeding, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if breeding == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("交配記録", id))
		return
	}

	writeJSON(w, http.StatusOK, toBreedingResponse(breeding))
}

// Create は交配記録を登録する。
// 分娩予定日の指定がない場合は交配日+114日を設定する。
// POST /api/breedings
func (h *BreedingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req breedingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.SowID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("sow_id"))
		return
	}
	if req.BoarID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("boar_id"))
		return
	}

	breedingDate, ok := parseRequiredBodyDate(w, "breeding_date", req.BreedingDate)
	if !ok {
		return
	}
	expectedFarrowDate, ok := parseOptionalBodyDate(w, "expected_farrow_date", req.ExpectedFarrowDate)
	if !ok {
		return
	}
	if expectedFarrowDate == nil {
		defaulted := breedingDate.AddDate(0, 0, model.GestationDays)
		expectedFarrowDate = &defaulted
	}

	now := time.Now()
	breeding := &model.Breeding{
		ID:                 uuid.New().String(),
		SowID:              req.SowID,
		BoarID:             req.BoarID,
		BreedingDate:       breedingDate,
		Success:            req.Success,
		ExpectedFarrowDate: *expectedFarrowDate,
		Notes:              h.sanitizer.Sanitize(req.Notes),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := h.repo.Create(r.Context(), breeding); err != nil {
		handleServiceError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordRecordsCreated("breeding")
	}

	writeJSON(w, http.StatusCreated, toBreedingResponse(breeding))
}

// Update は交配記録を更新する。
// PUT /api/breedings/{id}
func (h *BreedingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req breedingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.SowID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("sow_id"))
		return
	}
	if req.BoarID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("boar_id"))
		return
	}

	breedingDate, ok := parseRequiredBodyDate(w, "breeding_date", req.BreedingDate)
	if !ok {
		return
	}
	expectedFarrowDate, ok := parseOptionalBodyDate(w, "expected_farrow_date", req.ExpectedFarrowDate)
	if !ok {
		return
	}
	if expectedFarrowDate == nil {
		defaulted := breedingDate.AddDate(0, 0, model.GestationDays)
		expectedFarrowDate = &defaulted
	}

	breeding, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if breeding == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("交配記録", id))
		return
	}

	breeding.SowID = req.SowID
	breeding.BoarID = req.BoarID
	breeding.BreedingDate = breedingDate
	breeding.Success = req.Success
	breeding.ExpectedFarrowDate = *expectedFarrowDate
	breeding.Notes = h.sanitizer.Sanitize(req.Notes)
	breeding.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), breeding); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBreedingResponse(breeding))
}

// Delete は交配記録を削除する。
// DELETE /api/breedings/{id}
func (h *BreedingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toBreedingResponse(breeding *model.Breeding) breedingResponse {
	return breedingResponse{
		ID:                 breeding.ID,
		SowID:              breeding.SowID,
		BoarID:             breeding.BoarID,
		BreedingDate:       breeding.BreedingDate.Format(dateLayout),
		Success:            breeding.Success,
		ExpectedFarrowDate: breeding.ExpectedFarrowDate.Format(dateLayout),
		Notes:              breeding.Notes,
		CreatedAt:          breeding.CreatedAt,
		UpdatedAt:          breeding.UpdatedAt,
	}
}

// FarrowingHandler は分娩記録管理のHTTPハンドラー。
type FarrowingHandler struct {
	repo      repository.FarrowingRepository
	sanitizer security.TextSanitizerService
	metrics   RecordMetrics
}

// NewFarrowingHandler はFarrowingHandlerを生成する。metricsはnil許容。
func NewFarrowingHandler(repo repository.FarrowingRepository, sanitizer security.TextSanitizerService, metrics RecordMetrics) *FarrowingHandler {
	return &FarrowingHandler{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// farrowingRequest は分娩記録の作成・更新リクエストのボディ。
type farrowingRequest struct {
	BreedingID     string   `json:"breeding_id"`
	SowID          string   `json:"sow_id"`
	FarrowingDate  string   `json:"farrowing_date"`
	TotalBorn      int      `json:"total_born"`
	BornAlive      int      `json:"born_alive"`
	Stillborn      int      `json:"stillborn"`
	Mummified      int      `json:"mummified"`
	AvgBirthWeight *float64 `json:"avg_birth_weight"`
	Notes          string   `json:"notes"`
}

// farrowingResponse は分娩記録のAPIレスポンス。
type farrowingResponse struct {
	ID             string    `json:"id"`
	BreedingID     string    `json:"breeding_id"`
	SowID          string    `json:"sow_id"`
	FarrowingDate  string    `json:"farrowing_date"`
	TotalBorn      int       `json:"total_born"`
	BornAlive      int       `json:"born_alive"`
	Stillborn      int       `json:"stillborn"`
	Mummified      int       `json:"mummified"`
	AvgBirthWeight *float64  `json:"avg_birth_weight"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// validateLitterSize はBornAlive ≤ TotalBornの不変条件を検証する。
func validateLitterSize(w http.ResponseWriter, bornAlive, totalBorn int) bool {
	if bornAlive > totalBorn {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidLitterSizeError(bornAlive, totalBorn))
		return false
	}
	return true
}

// List は分娩記録一覧を返す。
// GET /api/farrowings
func (h *FarrowingHandler) List(w http.ResponseWriter, r *http.Request) {
	farrowings, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]farrowingResponse, len(farrowings))
	for i, farrowing := range farrowings {
		results[i] = toFarrowingResponse(farrowing)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は分娩記録詳細を返す。
// GET /api/farrowings/{id}
func (h *FarrowingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	farrowing, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if farrowing == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("分娩記録", id))
		return
	}

	writeJSON(w, http.StatusOK, toFarrowingResponse(farrowing))
}

// Create は分娩記録を登録する。
// POST /api/farrowings
func (h *FarrowingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req farrowingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.BreedingID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("breeding_id"))
		return
	}
	if req.SowID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("sow_id"))
		return
	}

	farrowingDate, ok := parseRequiredBodyDate(w, "farrowing_date", req.FarrowingDate)
	if !ok {
		return
	}
	if !validateLitterSize(w, req.BornAlive, req.TotalBorn) {
		return
	}

	now := time.Now()
	farrowing := &model.Farrowing{
		ID:             uuid.New().String(),
		BreedingID:     req.BreedingID,
		SowID:          req.SowID,
		FarrowingDate:  farrowingDate,
		TotalBorn:      req.TotalBorn,
		BornAlive:      req.BornAlive,
		Stillborn:      req.Stillborn,
		Mummified:      req.Mummified,
		AvgBirthWeight: req.AvgBirthWeight,
		Notes:          h.sanitizer.Sanitize(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.repo.Create(r.Context(), farrowing); err != nil {
		handleServiceError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordRecordsCreated("farrowing")
	}

	writeJSON(w, http.StatusCreated, toFarrowingResponse(farrowing))
}

// Update は分娩記録を更新する。
// PUT /api/farrowings/{id}
func (h *FarrowingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req farrowingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.BreedingID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("breeding_id"))
		return
	}
	if req.SowID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("sow_id"))
		return
	}

	farrowingDate, ok := parseRequiredBodyDate(w, "farrowing_date", req.FarrowingDate)
	if !ok {
		return
	}
	if !validateLitterSize(w, req.BornAlive, req.TotalBorn) {
		return
	}

	farrowing, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if farrowing == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("分娩記録", id))
		return
	}

	farrowing.BreedingID = req.BreedingID
	farrowing.SowID = req.SowID
	farrowing.FarrowingDate = farrowingDate
	farrowing.TotalBorn = req.TotalBorn
	farrowing.BornAlive = req.BornAlive
	farrowing.Stillborn = req.Stillborn
	farrowing.Mummified = req.Mummified
	farrowing.AvgBirthWeight = req.AvgBirthWeight
	farrowing.Notes = h.sanitizer.Sanitize(req.Notes)
	farrowing.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), farrowing); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFarrowingResponse(farrowing))
}

// Delete は分娩記録を削除する。
// DELETE /api/farrowings/{id}
func (h *FarrowingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toFarrowingResponse(farrowing *model.Farrowing) farrowingResponse {
	return farrowingResponse{
		ID:             farrowing.ID,
		BreedingID:     farrowing.BreedingID,
		SowID:          farrowing.SowID,
		FarrowingDate:  farrowing.FarrowingDate.Format(dateLayout),
		TotalBorn:      farrowing.TotalBorn,
		BornAlive:      farrowing.BornAlive,
		Stillborn:      farrowing.Stillborn,
		Mummified:      farrowing.Mummified,
		AvgBirthWeight: farrowing.AvgBirthWeight,
		Notes:          farrowing.Notes,
		CreatedAt:      farrowing.CreatedAt,
		UpdatedAt:      farrowing.UpdatedAt,
	}
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
	"github.com/hs6uej/farmpigs-sub001/internal/repository"
	"github.com/hs6uej/farmpigs-sub001/internal/security"
)

// writeInvalidStatus は不正なステータス値のエラーレスポンスを書き込む。
func writeInvalidStatus(w http.ResponseWriter, value string) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     model.ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("status の値が不正です: %s", value),
		Category: "validation",
		Action:   "定義済みのステータス値を指定してください。",
	})
}

// SowHandler は母豚管理のHTTPハンドラー。
type SowHandler struct {
	repo      repository.SowRepository
	sanitizer security.TextSanitizerService
}

// NewSowHandler はSowHandlerを生成する。
func NewSowHandler(repo repository.SowRepository, sanitizer security.TextSanitizerService) *SowHandler {
	return &SowHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// sowRequest は母豚の作成・更新リクエストのボディ。
type sowRequest struct {
	TagNumber string  `json:"tag_number"`
	Breed     string  `json:"breed"`
	BirthDate string  `json:"birth_date"`
	Status    string  `json:"status"`
	PenID     *string `json:"pen_id"`
	Notes     string  `json:"notes"`
}

// sowResponse は母豚のAPIレスポンス。
type sowResponse struct {
	ID        string    `json:"id"`
	TagNumber string    `json:"tag_number"`
	Breed     string    `json:"breed"`
	BirthDate *string   `json:"birth_date"`
	Status    string    `json:"status"`
	PenID     *string   `json:"pen_id"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// sowStatusFromRequest はリクエストのstatus値を検証する。空文字はACTIVEを返す。
func sowStatusFromRequest(value string) (model.SowStatus, bool) {
	if value == "" {
		return model.SowStatusActive, true
	}
	switch status := model.SowStatus(value); status {
	case model.SowStatusActive, model.SowStatusPregnant, model.SowStatusFarrowing,
		model.SowStatusWeaning, model.SowStatusCulled, model.SowStatusDead:
		return status, true
	default:
		return "", false
	}
}

// List は母豚一覧を返す。
// GET /api/sows
func (h *SowHandler) List(w http.ResponseWriter, r *http.Request) {
	sows, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]sowResponse, len(sows))
	for i, sow := range sows {
		results[i] = toSowResponse(sow)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は母豚詳細を返す。
// GET /api/sows/{id}
func (h *SowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sow, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if sow == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("母豚", id))
		return
	}

	writeJSON(w, http.StatusOK, toSowResponse(sow))
}

// Create は母豚を登録する。
// POST /api/sows
func (h *SowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.TagNumber == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("tag_number"))
		return
	}

	birthDate, ok := parseOptionalBodyDate(w, "birth_date", req.BirthDate)
	if !ok {
		return
	}
	status, ok := sowStatusFromRequest(req.Status)
	if !ok {
		writeInvalidStatus(w, req.Status)
		return
	}

	now := time.Now()
	sow := &model.Sow{
		ID:        uuid.New().String(),
		TagNumber: req.TagNumber,
		Breed:     req.Breed,
		BirthDate: birthDate,
		Status:    status,
		PenID:     req.PenID,
		Notes:     h.sanitizer.Sanitize(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(r.Context(), sow); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSowResponse(sow))
}

// Update は母豚情報を更新する。
// PUT /api/sows/{id}
func (h *SowHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req sowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.TagNumber == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("tag_number"))
		return
	}

	birthDate, ok := parseOptionalBodyDate(w, "birth_date", req.BirthDate)
	if !ok {
		return
	}
	status, ok := sowStatusFromRequest(req.Status)
	if !ok {
		writeInvalidStatus(w, req.Status)
		return
	}

	sow, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if sow == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("母豚", id))
		return
	}

	sow.TagNumber = req.TagNumber
	sow.Breed = req.Breed
	sow.BirthDate = birthDate
	sow.Status = status
	sow.PenID = req.PenID
	sow.Notes = h.sanitizer.Sanitize(req.Notes)
	sow.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), sow); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSowResponse(sow))
}

// Delete は母豚を削除する。
// DELETE /api/sows/{id}
func (h *SowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toSowResponse(sow *model.Sow) sowResponse {
	return sowResponse{
		ID:        sow.ID,
		TagNumber: sow.TagNumber,
		Breed:     sow.Breed,
		BirthDate: formatDatePtr(sow.BirthDate),
		Status:    string(sow.Status),
		PenID:     sow.PenID,
		Notes:     sow.Notes,
		CreatedAt: sow.CreatedAt,
		UpdatedAt: sow.UpdatedAt,
	}
}

// BoarHandler は種雄豚管理のHTTPハンドラー。
type BoarHandler struct {
	repo      repository.BoarRepository
	sanitizer security.TextSanitizerService
}

// NewBoarHandler はBoarHandlerを生成する。
func NewBoarHandler(repo repository.BoarRepository, sanitizer security.TextSanitizerService) *BoarHandler {
	return &BoarHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// boarRequest は種雄豚の作成・更新リクエストのボディ。
type boarRequest struct {
	TagNumber string  `json:"tag_number"`
	Breed     string  `json:"breed"`
	BirthDate string  `json:"birth_date"`
	Status    string  `json:"status"`
	PenID     *string `json:"pen_id"`
	Notes     string  `json:"notes"`
}

// boarResponse は種雄豚のAPIレスポンス。
type boarResponse struct {
	ID        string    `json:"id"`
	TagNumber string    `json:"tag_number"`
	Breed     string    `json:"breed"`
	BirthDate *string   `json:"birth_date"`
	Status    string    `json:"status"`
	PenID     *string   `json:"pen_id"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func boarStatusFromRequest(value string) (model.BoarStatus, bool) {
	if value == "" {
		return model.BoarStatusActive, true
	}
	switch status := model.BoarStatus(value); status {
	case model.BoarStatusActive, model.BoarStatusResting,
		model.BoarStatusCulled, model.BoarStatusDead:
		return status, true
	default:
		return "", false
	}
}

// List は種雄豚一覧を返す。
// GET /api/boars
func (h *BoarHandler) List(w http.ResponseWriter, r *http.Request) {
	boars, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]boarResponse, len(boars))
	for i, boar := range boars {
		results[i] = toBoarResponse(boar)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は種雄豚詳細を返す。
// GET /api/boars/{id}
func (h *BoarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	boar, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if boar == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("種雄豚", id))
		return
	}

	writeJSON(w, http.StatusOK, toBoarResponse(boar))
}

// Create は種雄豚を登録する。
// POST /api/boars
func (h *BoarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req boarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.TagNumber == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("tag_number"))
		return
	}

	birthDate, ok := parseOptionalBodyDate(w, "birth_date", req.BirthDate)
	if !ok {
		return
	}
	status, ok := boarStatusFromRequest(req.Status)
	if !ok {
		writeInvalidStatus(w, req.Status)
		return
	}

	now := time.Now()
	boar := &model.Boar{
		ID:        uuid.New().String(),
		TagNumber: req.TagNumber,
		Breed:     req.Breed,
		BirthDate: birthDate,
		Status:    status,
		PenID:     req.PenID,
		Notes:     h.sanitizer.Sanitize(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(r.Context(), boar); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBoarResponse(boar))
}

// Update は種雄豚情報を更新する。
// PUT /api/boars/{id}
func (h *BoarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req boarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.TagNumber == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("tag_number"))
		return
	}

	birthDate, ok := parseOptionalBodyDate(w, "birth_date", req.BirthDate)
	if !ok {
		return
	}
	status, ok := boarStatusFromRequest(req.Status)
	if !ok {
		writeInvalidStatus(w, req.Status)
		return
	}

	boar, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if boar == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("種雄豚", id))
		return
	}

	boar.TagNumber = req.TagNumber
	boar.Breed = req.Breed
	boar.BirthDate = birthDate
	boar.Status = status
	boar.PenID = req.PenID
	boar.Notes = h.sanitizer.Sanitize(req.Notes)
	boar.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), boar); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBoarResponse(boar))
}

// Delete は種雄豚を削除する。
// DELETE /api/boars/{id}
func (h *BoarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toBoarResponse(boar *model.Boar) boarResponse {
	return boarResponse{
		ID:        boar.ID,
		TagNumber: boar.TagNumber,
		Breed:     boar.Breed,
		BirthDate: formatDatePtr(boar.BirthDate),
		Status:    string(boar.Status),
		PenID:     boar.PenID,
		Notes:     boar.Notes,
		CreatedAt: boar.CreatedAt,
		UpdatedAt: boar.UpdatedAt,
	}
}

// PigletHandler は子豚管理のHTTPハンドラー。
type PigletHandler struct {
	repo repository.PigletRepository
}

// NewPigletHandler はPigletHandlerを生成する。
func NewPigletHandler(repo repository.PigletRepository) *PigletHandler {
	return &PigletHandler{repo: repo}
}

// pigletRequest は子豚の作成・更新リクエストのボディ。
type pigletRequest struct {
	TagNumber   string   `json:"tag_number"`
	FarrowingID *string  `json:"farrowing_id"`
	SowID       *string  `json:"sow_id"`
	BirthDate   string   `json:"birth_date"`
	BirthWeight *float64 `json:"birth_weight"`
	Sex         string   `json:"sex"`
	Status      string   `json:"status"`
	PenID       *string  `json:"pen_id"`
}

// pigletResponse は子豚のAPIレスポンス。
type pigletResponse struct {
	ID          string    `json:"id"`
	TagNumber   string    `json:"tag_number"`
	FarrowingID *string   `json:"farrowing_id"`
	SowID       *string   `json:"sow_id"`
	BirthDate   *string   `json:"birth_date"`
	BirthWeight *float64  `json:"birth_weight"`
	Sex         string    `json:"sex"`
	Status      string    `json:"status"`
	PenID       *string   `json:"pen_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func pigletStatusFromRequest(value string) (model.PigletStatus, bool) {
	if value == "" {
		return model.PigletStatusNursing, true
	}
	switch status := model.PigletStatus(value); status {
	case model.PigletStatusNursing, model.PigletStatusWeaned, model.PigletStatusGrowing,
		model.PigletStatusSold, model.PigletStatusDead:
		return status, true
	default:
		return "", false
	}
}

// List は子豚一覧を返す。
// GET /api/piglets
func (h *PigletHandler) List(w http.ResponseWriter, r *http.Request) {
	piglets, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]pigletResponse, len(piglets))
	for i, piglet := range piglets {
		results[i] = toPigletResponse(piglet)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は子豚詳細を返す。
// GET /api/piglets/{id}
func (h *PigletHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	piglet, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if piglet == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("子豚", id))
		return
	}

	writeJSON(w, http.StatusOK, toPigletResponse(piglet))
}

// Create は子豚を登録する。
// POST /api/piglets
func (h *PigletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req pigletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.TagNumber == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("tag_number"))
		return
	}

	birthDate, ok := parseOptionalBodyDate(w, "birth_date", req.BirthDate)
	if !ok {
		return
	}
	status, ok := pigletStatusFromRequest(req.Status)
	if !ok {
		writeInvalidStatus(w, req.Status)
		return
	}

	now := time.Now()
	piglet := &model.Piglet{
		ID:          uuid.New().String(),
		TagNumber:   req.TagNumber,
		FarrowingID: req.FarrowingID,
		SowID:       req.SowID,
		BirthDate:   birthDate,
		BirthWeight: req.BirthWeight,
		Sex:         req.Sex,
		Status:      status,
		PenID:       req.PenID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(r.Context(), piglet); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPigletResponse(piglet))
}

// Update は子豚情報を更新する。
// PUT /api/piglets/{id}
func (h *PigletHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req pigletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.TagNumber == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("tag_number"))
		return
	}

	birthDate, ok := parseOptionalBodyDate(w, "birth_date", req.BirthDate)
	if !ok {
		return
	}
	status, ok := pigletStatusFromRequest(req.Status)
	if !ok {
		writeInvalidStatus(w, req.Status)
		return
	}

	piglet, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if piglet == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("子豚", id))
		return
	}

	piglet.TagNumber = req.TagNumber
	piglet.FarrowingID = req.FarrowingID
	piglet.SowID = req.SowID
	piglet.BirthDate = birthDate
	piglet.BirthWeight = req.BirthWeight
	piglet.Sex = req.Sex
	piglet.Status = status
	piglet.PenID = req.PenID
	piglet.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), piglet); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPigletResponse(piglet))
}

// Delete は子豚を削除する。
// DELETE /api/piglets/{id}
func (h *PigletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toPigletResponse(piglet *model.Piglet) pigletResponse {
	return pigletResponse{
		ID:          piglet.ID,
		TagNumber:   piglet.TagNumber,
		FarrowingID: piglet.FarrowingID,
		SowID:       piglet.SowID,
		BirthDate:   formatDatePtr(piglet.BirthDate),
		BirthWeight: piglet.BirthWeight,
		Sex:         piglet.Sex,
		Status:      string(piglet.Status),
		PenID:       piglet.PenID,
		CreatedAt:   piglet.CreatedAt,
		UpdatedAt:   piglet.UpdatedAt,
	}
}

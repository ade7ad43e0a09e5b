package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bucketwise/backend/internal/allocation"
	"github.com/bucketwise/backend/internal/auth"
	"github.com/bucketwise/backend/internal/model"
	"github.com/bucketwise/backend/internal/store"
)

// Handler exposes the planning service as JSON over HTTP.
type Handler struct {
	svc *PlanningService
	log zerolog.Logger
}

// NewHandler creates the HTTP handler around a planning service.
func NewHandler(svc *PlanningService, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /v1/snapshot/refresh", h.handleRefreshSnapshot)
	mux.HandleFunc("GET /v1/snapshot", h.handleGetSnapshot)
	mux.HandleFunc("POST /v1/plan", h.handleGeneratePlan)
	mux.HandleFunc("GET /v1/plan", h.handleGetPlan)
	mux.HandleFunc("POST /v1/plan/edit", h.handleApplyEdit)
	mux.HandleFunc("POST /v1/plan/preset", h.handleSelectPreset)
	mux.HandleFunc("PUT /v1/links", h.handleSetAccountLinks)
	mux.HandleFunc("POST /v1/links/balances", h.handleLinkedBalances)
	mux.HandleFunc("GET /v1/review", h.handleListReviewItems)
	mux.HandleFunc("POST /v1/review/resolve", h.handleResolveReviewItem)
	mux.HandleFunc("GET /v1/warnings", h.handleGetWarnings)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type refreshSnapshotRequest struct {
	Transactions []model.Transaction `json:"transactions"`
	Accounts     []model.Account     `json:"accounts"`
}

type refreshSnapshotResponse struct {
	Snapshot    *model.FinancialSnapshot `json:"snapshot"`
	ReviewItems []*model.ReviewItem      `json:"reviewItems"`
}

func (h *Handler) handleRefreshSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req refreshSnapshotRequest
	if !h.decode(w, r, &req) {
		return
	}

	snap, items, err := h.svc.RefreshSnapshot(r.Context(), userID, req.Transactions, req.Accounts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshSnapshotResponse{Snapshot: snap, ReviewItems: items})
}

func (h *Handler) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.GetSnapshot(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type generatePlanRequest struct {
	IncomeStability model.IncomeStability `json:"incomeStability"`
}

func (h *Handler) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req generatePlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.svc.GeneratePlan(r.Context(), userID, req.IncomeStability)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	plan, err := h.svc.GetPlan(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type applyEditRequest struct {
	BucketID string  `json:"bucketId"`
	Amount   float64 `json:"amount"`
}

func (h *Handler) handleApplyEdit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req applyEditRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.ApplyEdit(r.Context(), userID, req.BucketID, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type selectPresetRequest struct {
	BucketType model.BucketType `json:"bucketType"`
	Tier       model.PresetTier `json:"tier"`
}

func (h *Handler) handleSelectPreset(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req selectPresetRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.SelectPreset(r.Context(), userID, req.BucketType, req.Tier)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type setAccountLinksRequest struct {
	BucketType model.BucketType `json:"bucketType"`
	AccountIDs []string         `json:"accountIds"`
}

func (h *Handler) handleSetAccountLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req setAccountLinksRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.BucketType == "" {
		h.badRequest(w, "bucketType is required")
		return
	}

	if err := h.svc.SetAccountLinks(r.Context(), userID, req.BucketType, req.AccountIDs); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type linkedBalancesRequest struct {
	Accounts []model.Account `json:"accounts"`
}

func (h *Handler) handleLinkedBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req linkedBalancesRequest
	if !h.decode(w, r, &req) {
		return
	}

	balances, err := h.svc.LinkedBalances(r.Context(), userID, req.Accounts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

type listReviewItemsResponse struct {
	Items         []*model.ReviewItem `json:"items"`
	NextPageToken string              `json:"nextPageToken,omitempty"`
}

func (h *Handler) handleListReviewItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	unresolvedOnly := q.Get("unresolvedOnly") == "true"
	var pageSize int32
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.badRequest(w, "invalid pageSize")
			return
		}
		pageSize = int32(n)
	}

	items, nextToken, err := h.svc.ListReviewItems(r.Context(), userID, unresolvedOnly, pageSize, q.Get("pageToken"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listReviewItemsResponse{Items: items, NextPageToken: nextToken})
}

type resolveReviewItemRequest struct {
	ItemID     string `json:"itemId"`
	Resolution string `json:"resolution"`
}

func (h *Handler) handleResolveReviewItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req resolveReviewItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.ResolveReviewItem(r.Context(), userID, req.ItemID, req.Resolution); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleGetWarnings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	warnings, err := h.svc.GetWarnings(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok || userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return "", false
	}
	return userID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.badRequest(w, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// writeError maps domain errors to HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *allocation.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  verr.Error(),
			"reason": string(verr.Reason),
		})
	case errors.Is(err, allocation.ErrBucketNotFound),
		errors.Is(err, allocation.ErrNotModifiable),
		errors.Is(err, allocation.ErrNegativeAmount):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

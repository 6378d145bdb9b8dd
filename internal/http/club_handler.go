package api

import (
	"encoding/json"
	"net/http"

	"fanstock/internal/domain/club"
	"fanstock/internal/metrics"
	"fanstock/internal/platform/apperr"
)

type createClubRequest struct {
	Name        string `json:"name"`
	TokenSymbol string `json:"tokenSymbol"`
	TokenName   string `json:"tokenName"`
	TotalSupply string `json:"totalSupply"`
}

type purchaseRequest struct {
	UserID int64 `json:"userId"`
	Amount int64 `json:"amount"`
}

// @Summary     Create a club with its fan token
// @Tags        clubs
// @Accept      json
// @Produce     json
// @Param       request  body      createClubRequest  true  "Club payload"
// @Success     201      {object}  club.Club
// @Failure     400      {object}  map[string]string  "missing name or token symbol"
// @Router      /api/v1/clubs [post]
func (h *Handler) handleCreateClub(w http.ResponseWriter, r *http.Request) {
	var req createClubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	c := &club.Club{
		Name:        req.Name,
		TokenSymbol: req.TokenSymbol,
		TokenName:   req.TokenName,
		TotalSupply: req.TotalSupply,
	}
	if _, err := h.clubSvc.Create(r.Context(), c); err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// @Summary     Get a club
// @Tags        clubs
// @Produce     json
// @Param       id   path      int64  true  "Club ID"
// @Success     200  {object}  club.Club
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/clubs/{id} [get]
func (h *Handler) handleGetClub(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid club id", err))
		return
	}

	c, err := h.clubSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// @Summary     Simulated token purchase
// @Description Increments the buyer's holding and returns a random
// @Description transaction hash. Nothing touches a chain.
// @Tags        clubs
// @Accept      json
// @Produce     json
// @Param       id       path      int64            true  "Club ID"
// @Param       request  body      purchaseRequest  true  "Purchase payload"
// @Success     201      {object}  club.Purchase
// @Failure     400      {object}  map[string]string  "bad amount or unknown user"
// @Failure     404      {object}  map[string]string  "club not found"
// @Router      /api/v1/clubs/{id}/purchase [post]
func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid club id", err))
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	p, err := h.clubSvc.Purchase(r.Context(), clubID, req.UserID, req.Amount)
	if err != nil {
		errorResponse(w, err)
		return
	}

	metrics.IncPurchase()
	writeJSON(w, http.StatusCreated, p)
}

// @Summary     Get a user's token holding for a club
// @Tags        clubs
// @Produce     json
// @Param       id      path      int64  true  "Club ID"
// @Param       userId  query     int64  true  "User"
// @Success     200     {object}  club.Holding
// @Failure     400     {object}  map[string]string  "missing userId"
// @Router      /api/v1/clubs/{id}/holdings [get]
func (h *Handler) handleGetHolding(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid club id", err))
		return
	}

	userID := queryInt64(r, "userId")
	if userID == 0 {
		errorResponse(w, apperr.BadRequest("missing_user_id", "userId query parameter is required", nil))
		return
	}

	holding, err := h.clubSvc.Holding(r.Context(), clubID, userID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, holding)
}

package api

import (
	"encoding/json"
	"net/http"

	"fanstock/internal/platform/apperr"
)

type syncUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// @Summary     Sync a user on login
// @Description Upserts the user record delivered by the identity provider.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request  body      syncUserRequest  true  "Identity payload"
// @Success     200      {object}  user.User
// @Failure     400      {object}  map[string]string  "missing email"
// @Router      /api/v1/users/sync [post]
func (h *Handler) handleSyncUser(w http.ResponseWriter, r *http.Request) {
	var req syncUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.userSvc.Sync(r.Context(), req.Email, req.DisplayName)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Param       id   path      int64  true  "User ID"
// @Success     200  {object}  user.User
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/users/{id} [get]
func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid user id", err))
		return
	}

	u, err := h.userSvc.GetByID(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

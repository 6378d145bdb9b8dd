package api

import (
	"encoding/json"
	"net/http"
	"time"

	"fanstock/internal/domain/poll"
	"fanstock/internal/platform/apperr"
)

type createPollRequest struct {
	ClubID      int64    `json:"clubId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
	Options     []string `json:"options"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// @Summary     Create a poll
// @Tags        polls
// @Accept      json
// @Produce     json
// @Param       request  body      createPollRequest  true  "Poll payload"
// @Success     201      {object}  map[string]any
// @Failure     400      {object}  map[string]string  "missing fields or fewer than 2 options"
// @Router      /api/v1/polls [post]
func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	p := &poll.Poll{
		ClubID:      req.ClubID,
		Title:       req.Title,
		Description: req.Description,
		Type:        poll.Type(req.Type),
		Status:      poll.Status(req.Status),
		StartsAt:    parseTimePtr(req.StartDate),
		EndsAt:      parseTimePtr(req.EndDate),
	}

	opts := make([]poll.Option, 0, len(req.Options))
	for _, text := range req.Options {
		opts = append(opts, poll.Option{Text: text})
	}

	id, err := h.pollSvc.Create(r.Context(), p, opts)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"poll":    p,
		"options": opts,
	})
}

// @Summary     Get a poll with its options
// @Tags        polls
// @Produce     json
// @Param       id      path      int64  true   "Poll ID"
// @Param       userId  query     int64  false  "Caller, for the canVote gate"
// @Success     200     {object}  map[string]any
// @Failure     404     {object}  map[string]string  "not found"
// @Router      /api/v1/polls/{id} [get]
func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	p, opts, err := h.pollSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	payload := map[string]any{
		"poll":     p,
		"options":  opts,
		"archived": p.Archived(time.Now()),
	}

	// The canVote gate is advisory; Cast revalidates on submission.
	if userID := queryInt64(r, "userId"); userID != 0 {
		canVote, err := h.voteSvc.CanVote(r.Context(), p, userID)
		if err != nil {
			errorResponse(w, err)
			return
		}
		payload["canVote"] = canVote
	}

	writeJSON(w, http.StatusOK, payload)
}

// @Summary     Update poll status
// @Tags        polls
// @Accept      json
// @Param       id       path     int64                true  "Poll ID"
// @Param       request  body     updateStatusRequest  true  "New status"
// @Success     204
// @Failure     400      {object}  map[string]string  "invalid status enum value"
// @Failure     404      {object}  map[string]string  "not found"
// @Router      /api/v1/polls/{id} [patch]
func (h *Handler) handleUpdatePollStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if err := h.pollSvc.UpdateStatus(r.Context(), id, poll.Status(req.Status)); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary     List a club's polls
// @Tags        clubs
// @Produce     json
// @Param       id   path      int64   true   "Club ID"
// @Param       tab  query     string  false  "active or archived"
// @Success     200  {array}   poll.Summary
// @Router      /api/v1/clubs/{id}/polls [get]
func (h *Handler) handleClubPolls(w http.ResponseWriter, r *http.Request) {
	clubID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid club id", err))
		return
	}

	polls, err := h.pollSvc.ListByClub(r.Context(), clubID, time.Now())
	if err != nil {
		errorResponse(w, err)
		return
	}

	switch r.URL.Query().Get("tab") {
	case "active":
		polls = filterPolls(polls, false)
	case "archived":
		polls = filterPolls(polls, true)
	}

	writeJSON(w, http.StatusOK, polls)
}

func filterPolls(polls []poll.Summary, archived bool) []poll.Summary {
	res := make([]poll.Summary, 0, len(polls))
	for _, p := range polls {
		if p.Archived == archived {
			res = append(res, p)
		}
	}
	return res
}

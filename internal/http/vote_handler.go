package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"fanstock/internal/domain/vote"
	"fanstock/internal/platform/apperr"
	"fanstock/internal/worker"
)

type voteRequest struct {
	UserID     int64  `json:"userId"`
	OptionID   int64  `json:"optionId"`
	TokenPower string `json:"tokenPower"`
}

type voteResponse struct {
	Response *vote.Response `json:"response"`
	Updated  bool           `json:"updated"`
}

// @Summary     Cast or change a vote
// @Description Records the caller's token-weighted vote. A second submission
// @Description by the same user overwrites the first (latest vote wins). The
// @Description token power is taken as asserted by the caller.
// @Tags        votes
// @Accept      json
// @Produce     json
// @Param       id       path      int64        true  "Poll ID"
// @Param       request  body      voteRequest  true  "Vote payload"
// @Success     200      {object}  voteResponse "existing vote updated"
// @Success     201      {object}  voteResponse "vote created"
// @Failure     400      {object}  map[string]string  "missing fields, poll not active, outside voting period, or foreign option"
// @Failure     404      {object}  map[string]string  "poll not found"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Router      /api/v1/polls/{id}/vote [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	resp, updated, err := h.voteSvc.Cast(r.Context(), vote.CastInput{
		PollID:     pollID,
		UserID:     req.UserID,
		OptionID:   req.OptionID,
		TokenPower: req.TokenPower,
	})
	if err != nil {
		errorResponse(w, err)
		return
	}

	power, _ := strconv.ParseInt(strings.TrimSpace(req.TokenPower), 10, 64)
	select {
	case h.voteCh <- worker.VoteEvent{
		PollID:     pollID,
		OptionID:   req.OptionID,
		UserID:     req.UserID,
		TokenPower: power,
		Revote:     updated,
	}:
	default:
	}

	status := http.StatusCreated
	if updated {
		status = http.StatusOK
	}
	writeJSON(w, status, voteResponse{Response: resp, Updated: updated})
}

// @Summary     Get the caller's vote on a poll
// @Tags        votes
// @Produce     json
// @Param       id      path      int64  true  "Poll ID"
// @Param       userId  query     int64  true  "Caller"
// @Success     200     {object}  map[string]any  "response is null when the user has not voted"
// @Failure     400     {object}  map[string]string  "missing userId"
// @Router      /api/v1/polls/{id}/vote [get]
func (h *Handler) handleGetVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	userID := queryInt64(r, "userId")
	if userID == 0 {
		errorResponse(w, apperr.BadRequest("missing_user_id", "userId query parameter is required", nil))
		return
	}

	resp, err := h.voteSvc.ResponseFor(r.Context(), pollID, userID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"response": resp})
}

// @Summary     Token-weighted poll results
// @Description Recomputed from raw responses on every call. percentage is
// @Description relative to the club's whole token supply, relativePercentage
// @Description to the tokens actually voted. A winner appears only once the
// @Description poll is archived and has votes.
// @Tags        polls
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  vote.PollResults
// @Failure     404  {object}  map[string]string  "poll not found"
// @Router      /api/v1/polls/{id}/results [get]
func (h *Handler) handlePollResults(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	res, err := h.voteSvc.Results(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func queryInt64(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"fanstock/internal/domain/club"
	"fanstock/internal/domain/poll"
	"fanstock/internal/domain/user"
	"fanstock/internal/domain/vote"
	"fanstock/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("not_found", "resource not found", err)
	case errors.Is(err, vote.ErrMissingFields):
		return apperr.BadRequest("missing_fields", "missing fields", err)
	case errors.Is(err, vote.ErrPollNotFound):
		return apperr.NotFound("poll_not_found", "poll not found", err)
	case errors.Is(err, vote.ErrPollNotActive):
		return apperr.BadRequest("poll_not_active", "poll not active", err)
	case errors.Is(err, vote.ErrOutsideVotingWindow):
		return apperr.BadRequest("outside_voting_period", "not within voting period", err)
	case errors.Is(err, vote.ErrOptionNotInPoll):
		return apperr.BadRequest("invalid_option", "invalid option for this poll", err)
	case errors.Is(err, poll.ErrPollNotFound):
		return apperr.NotFound("poll_not_found", "poll not found", err)
	case errors.Is(err, poll.ErrMissingFields):
		return apperr.BadRequest("missing_fields", "missing fields", err)
	case errors.Is(err, poll.ErrTooFewOptions):
		return apperr.BadRequest("too_few_options", "poll must have at least 2 options", err)
	case errors.Is(err, poll.ErrInvalidStatus):
		return apperr.BadRequest("invalid_status", "invalid poll status", err)
	case errors.Is(err, poll.ErrInvalidType):
		return apperr.BadRequest("invalid_type", "invalid poll type", err)
	case errors.Is(err, club.ErrClubNotFound):
		return apperr.NotFound("club_not_found", "club not found", err)
	case errors.Is(err, club.ErrBuyerNotFound):
		return apperr.BadRequest("unknown_user", "user not found", err)
	case errors.Is(err, club.ErrMissingFields):
		return apperr.BadRequest("missing_fields", "missing fields", err)
	case errors.Is(err, club.ErrBadAmount):
		return apperr.BadRequest("invalid_amount", "amount must be a positive integer", err)
	case errors.Is(err, user.ErrMissingEmail):
		return apperr.BadRequest("missing_email", "email is required", err)
	case errors.Is(err, user.ErrUserNotFound):
		return apperr.NotFound("user_not_found", "user not found", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}

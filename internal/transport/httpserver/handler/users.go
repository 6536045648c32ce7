package handler

import (
	"errors"
	"net/http"

	accountdomain "borrowbee/internal/domain/account"
	"borrowbee/internal/transport/httpserver/middleware"
)

type updateUserRequest struct {
	Name      *string  `json:"name"`
	Phone     *string  `json:"phone"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	user, err := h.Accounts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, accountdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("users.get: fetch failed", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateUser mutates the caller's own profile. Name, phone, address and
// coordinates only; email and credential are immutable through this endpoint.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	if callerID != id {
		writeError(w, http.StatusForbidden, "forbidden", "cannot update another user's profile")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, err := h.Accounts.UpdateProfile(r.Context(), id, accountdomain.UpdateProfileInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		switch {
		case errors.Is(err, accountdomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, accountdomain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid user data")
		default:
			h.log.InternalError("users.update: update failed", err, "user_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

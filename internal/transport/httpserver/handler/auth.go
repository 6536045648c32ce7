package handler

import (
	"errors"
	"net/http"
	"time"

	accountdomain "borrowbee/internal/domain/account"
)

type registerRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	UserType       string  `json:"userType" validate:"required"`
	ProfilePicture *string `json:"profilePicture"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userResponse is the external account shape. The credential never appears.
type userResponse struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	UserType       string    `json:"userType"`
	ProfilePicture *string   `json:"profilePicture"`
	Phone          *string   `json:"phone"`
	Address        *string   `json:"address"`
	Latitude       *float64  `json:"latitude"`
	Longitude      *float64  `json:"longitude"`
	CreatedAt      time.Time `json:"createdAt"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(user *accountdomain.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		UserType:       user.UserType,
		ProfilePicture: user.ProfilePicture,
		Phone:          user.Phone,
		Address:        user.Address,
		Latitude:       user.Latitude,
		Longitude:      user.Longitude,
		CreatedAt:      user.CreatedAt,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user data")
		return
	}

	user, err := h.Accounts.Register(r.Context(), accountdomain.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		UserType:       req.UserType,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		switch {
		case errors.Is(err, accountdomain.ErrDuplicateEmail):
			h.log.BusinessError("auth.register: duplicate email", err)
			writeError(w, http.StatusBadRequest, "duplicate_email", "user already exists with this email")
		case errors.Is(err, accountdomain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid user data")
		default:
			h.log.InternalError("auth.register: register failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.log.InternalError("auth.register: issue token failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(user), Token: token})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid login data")
		return
	}

	user, err := h.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accountdomain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		h.log.InternalError("auth.login: authenticate failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.log.InternalError("auth.login: issue token failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(user), Token: token})
}

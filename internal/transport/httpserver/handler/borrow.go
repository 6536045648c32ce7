package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	borrowdomain "borrowbee/internal/domain/borrow"
	catalogdomain "borrowbee/internal/domain/catalog"
	"borrowbee/internal/transport/httpserver/middleware"
)

type submitBorrowRequest struct {
	BookID              int      `json:"bookId" validate:"required,gt=0"`
	BorrowerName        string   `json:"borrowerName" validate:"required"`
	BorrowerEmail       string   `json:"borrowerEmail" validate:"required,email"`
	BorrowerPhone       string   `json:"borrowerPhone" validate:"required"`
	DeliveryAddress     string   `json:"deliveryAddress" validate:"required"`
	DeliveryLatitude    *float64 `json:"deliveryLatitude"`
	DeliveryLongitude   *float64 `json:"deliveryLongitude"`
	SpecialInstructions *string  `json:"specialInstructions"`
	BorrowDuration      *int     `json:"borrowDuration" validate:"omitempty,min=1,max=30"`
	// Ignored: the requester always comes from the token.
	UserID int `json:"userId"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type requestResponse struct {
	ID                  int        `json:"id"`
	BookID              int        `json:"bookId"`
	UserID              int        `json:"userId"`
	Status              string     `json:"status"`
	BorrowerName        string     `json:"borrowerName"`
	BorrowerEmail       string     `json:"borrowerEmail"`
	BorrowerPhone       string     `json:"borrowerPhone"`
	DeliveryAddress     string     `json:"deliveryAddress"`
	DeliveryLatitude    *float64   `json:"deliveryLatitude"`
	DeliveryLongitude   *float64   `json:"deliveryLongitude"`
	SpecialInstructions *string    `json:"specialInstructions"`
	BorrowDuration      int        `json:"borrowDuration"`
	RequestedAt         time.Time  `json:"requestedAt"`
	DeliveredAt         *time.Time `json:"deliveredAt"`
	ReturnedAt          *time.Time `json:"returnedAt"`
}

func toRequestResponse(request borrowdomain.Request) requestResponse {
	return requestResponse{
		ID:                  request.ID,
		BookID:              request.BookID,
		UserID:              request.UserID,
		Status:              string(request.Status),
		BorrowerName:        request.BorrowerName,
		BorrowerEmail:       request.BorrowerEmail,
		BorrowerPhone:       request.BorrowerPhone,
		DeliveryAddress:     request.DeliveryAddress,
		DeliveryLatitude:    request.DeliveryLatitude,
		DeliveryLongitude:   request.DeliveryLongitude,
		SpecialInstructions: request.SpecialInstructions,
		BorrowDuration:      request.BorrowDuration,
		RequestedAt:         request.RequestedAt,
		DeliveredAt:         request.DeliveredAt,
		ReturnedAt:          request.ReturnedAt,
	}
}

func (h *Handlers) SubmitBorrowRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req submitBorrowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing required fields")
		return
	}

	request, err := h.Borrow.Submit(r.Context(), borrowdomain.SubmitInput{
		BookID:              req.BookID,
		UserID:              userID,
		BorrowerName:        req.BorrowerName,
		BorrowerEmail:       req.BorrowerEmail,
		BorrowerPhone:       req.BorrowerPhone,
		DeliveryAddress:     req.DeliveryAddress,
		DeliveryLatitude:    req.DeliveryLatitude,
		DeliveryLongitude:   req.DeliveryLongitude,
		SpecialInstructions: req.SpecialInstructions,
		BorrowDuration:      req.BorrowDuration,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalogdomain.ErrBookNotFound):
			writeError(w, http.StatusNotFound, "book_not_found", "book not found")
		case errors.Is(err, borrowdomain.ErrBookUnavailable):
			h.log.BusinessError("borrow.submit: book unavailable", err, "book_id", req.BookID, "user_id", userID)
			writeError(w, http.StatusBadRequest, "book_unavailable", "book is not available for borrowing")
		case errors.Is(err, borrowdomain.ErrInvalidDuration):
			writeError(w, http.StatusBadRequest, "invalid_request", "borrow duration must be between 1 and 30 days")
		case errors.Is(err, borrowdomain.ErrInvalidContact):
			writeError(w, http.StatusBadRequest, "invalid_request", "missing required fields")
		default:
			h.log.InternalError("borrow.submit: create failed", err, "book_id", req.BookID, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to create borrowing request")
		}
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(*request))
}

// MyRequests lists the borrow requests submitted by the token user.
func (h *Handlers) MyRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	requests, err := h.Borrow.ListByRequester(r.Context(), userID)
	if err != nil {
		h.log.InternalError("borrow.my_requests: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch requests")
		return
	}

	response := make([]requestResponse, 0, len(requests))
	for _, request := range requests {
		response = append(response, toRequestResponse(request))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ListBorrowRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Borrow.ListAll(r.Context())
	if err != nil {
		h.log.InternalError("borrow.list: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch borrowing requests")
		return
	}

	response := make([]requestResponse, 0, len(requests))
	for _, request := range requests {
		response = append(response, toRequestResponse(request))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request id")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	request, err := h.Borrow.SetStatus(r.Context(), id, strings.TrimSpace(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, borrowdomain.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "invalid_status", "invalid status")
		case errors.Is(err, borrowdomain.ErrRequestNotFound):
			writeError(w, http.StatusNotFound, "request_not_found", "borrow request not found")
		default:
			h.log.InternalError("borrow.set_status: update failed", err, "request_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to update request status")
		}
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(*request))
}

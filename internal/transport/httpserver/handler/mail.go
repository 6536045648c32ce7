package handler

import (
	"errors"
	"net/http"

	"borrowbee/internal/mail"
)

type borrowAlertRequest struct {
	BorrowerName  string  `json:"borrowerName" validate:"required"`
	BorrowerEmail string  `json:"borrowerEmail" validate:"required,email"`
	BorrowerPhone *string `json:"borrowerPhone"`
	OwnerEmail    string  `json:"ownerEmail" validate:"required,email"`
	BookTitle     string  `json:"bookTitle" validate:"required"`
	BookAuthor    string  `json:"bookAuthor" validate:"required"`
}

// SendBorrowAlert emails a book owner that someone wants to borrow their
// book. Fire and forget: one attempt, no retries.
func (h *Handlers) SendBorrowAlert(w http.ResponseWriter, r *http.Request) {
	var req borrowAlertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid alert data")
		return
	}

	err := h.Mailer.SendBorrowAlert(r.Context(), mail.BorrowAlert{
		BorrowerName:  req.BorrowerName,
		BorrowerEmail: req.BorrowerEmail,
		BorrowerPhone: req.BorrowerPhone,
		OwnerEmail:    req.OwnerEmail,
		BookTitle:     req.BookTitle,
		BookAuthor:    req.BookAuthor,
	})
	if err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			h.log.BusinessError("mail.borrow_alert: not configured", err)
			writeError(w, http.StatusInternalServerError, "email_not_configured", "email service not configured")
			return
		}
		h.log.InternalError("mail.borrow_alert: send failed", err, "owner_email", req.OwnerEmail)
		writeError(w, http.StatusInternalServerError, "email_send_failed", "failed to send borrow alert")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Borrow alert sent successfully",
	})
}

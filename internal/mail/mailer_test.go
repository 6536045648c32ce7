package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"borrowbee/internal/config"
)

func TestSendBorrowAlertUnconfigured(t *testing.T) {
	sender := NewSMTP(config.SMTPConfig{})

	err := sender.SendBorrowAlert(context.Background(), BorrowAlert{
		BorrowerName:  "Ann",
		BorrowerEmail: "ann@x.com",
		OwnerEmail:    "owner@x.com",
		BookTitle:     "Dune",
		BookAuthor:    "Frank Herbert",
	})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestBorrowAlertBodyEscapesInput(t *testing.T) {
	phone := "555-0101"
	body := borrowAlertBody(BorrowAlert{
		BorrowerName:  "Ann <script>",
		BorrowerEmail: "ann@x.com",
		BorrowerPhone: &phone,
		OwnerEmail:    "owner@x.com",
		BookTitle:     "Dune & Friends",
		BookAuthor:    "Frank Herbert",
	})

	if strings.Contains(body, "<script>") {
		t.Fatal("borrower name must be HTML-escaped")
	}
	if !strings.Contains(body, "Dune &amp; Friends") {
		t.Fatal("book title must be HTML-escaped")
	}
	if !strings.Contains(body, phone) {
		t.Fatal("phone block missing when phone is set")
	}
}

func TestBorrowAlertBodyOmitsEmptyPhone(t *testing.T) {
	body := borrowAlertBody(BorrowAlert{
		BorrowerName:  "Ann",
		BorrowerEmail: "ann@x.com",
		OwnerEmail:    "owner@x.com",
		BookTitle:     "Dune",
		BookAuthor:    "Frank Herbert",
	})
	if strings.Contains(body, "Phone:") {
		t.Fatal("phone block must be omitted when no phone is provided")
	}
}

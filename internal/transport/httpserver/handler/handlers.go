package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"borrowbee/internal/auth"
	accountdomain "borrowbee/internal/domain/account"
	borrowdomain "borrowbee/internal/domain/borrow"
	catalogdomain "borrowbee/internal/domain/catalog"
	"borrowbee/internal/mail"
	"borrowbee/pkg/logger"
)

type Handlers struct {
	Accounts *accountdomain.Service
	Catalog  *catalogdomain.Service
	Borrow   *borrowdomain.Service
	Mailer   mail.Sender
	Tokens   *auth.Manager

	validate *validator.Validate
	log      logger.Logger
}

func New(accounts *accountdomain.Service, catalog *catalogdomain.Service, borrow *borrowdomain.Service, mailer mail.Sender, tokens *auth.Manager, log logger.Logger) *Handlers {
	return &Handlers{
		Accounts: accounts,
		Catalog:  catalog,
		Borrow:   borrow,
		Mailer:   mailer,
		Tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

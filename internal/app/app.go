package app

import (
	"net/http"

	"gorm.io/gorm"

	"borrowbee/internal/auth"
	"borrowbee/internal/config"
	"borrowbee/internal/db"
	accountdomain "borrowbee/internal/domain/account"
	borrowdomain "borrowbee/internal/domain/borrow"
	catalogdomain "borrowbee/internal/domain/catalog"
	"borrowbee/internal/mail"
	accountrepo "borrowbee/internal/repository/postgres/account"
	borrowrepo "borrowbee/internal/repository/postgres/borrow"
	catalogrepo "borrowbee/internal/repository/postgres/catalog"
	"borrowbee/internal/transport/httpserver"
	"borrowbee/internal/transport/httpserver/handler"
	"borrowbee/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, log); err != nil {
		return nil, err
	}

	accounts := accountdomain.NewService(accountrepo.NewPostgres(dbConn))
	catalog := catalogdomain.NewService(catalogrepo.NewPostgres(dbConn), catalogdomain.Options{
		PageSize:      cfg.Catalog.PageSize,
		ExpiryEnabled: cfg.Catalog.ExpiryEnabled,
		ActiveWindow:  cfg.Catalog.ActiveWindow,
	}, log)
	borrow := borrowdomain.NewService(borrowrepo.NewPostgres(dbConn), catalog)

	tokens := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TTL)
	mailer := mail.NewSMTP(cfg.SMTP)

	handlers := handler.New(accounts, catalog, borrow, mailer, tokens, log)
	router := httpserver.NewRouter(cfg, handlers, tokens)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

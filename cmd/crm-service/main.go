package main

import (
	"fmt"
	"os"

	"github.com/devogs/epic-events-crm/internal/auth"
	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/config"
	"github.com/devogs/epic-events-crm/internal/db"
	"github.com/devogs/epic-events-crm/internal/export"
	httphandler "github.com/devogs/epic-events-crm/internal/http"
	"github.com/devogs/epic-events-crm/internal/http/middleware"
	"github.com/devogs/epic-events-crm/internal/logger"
	"github.com/devogs/epic-events-crm/internal/repository"
	"github.com/devogs/epic-events-crm/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	employeeRepo := repository.NewEmployeeRepository(database)
	clientRepo := repository.NewClientRepository(database)
	contractRepo := repository.NewContractRepository(database)
	eventRepo := repository.NewEventRepository(database)

	gate := authz.NewGate(authz.NewMatrix())
	issuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	resolver := auth.NewResolver(tokenParser, employeeRepo)

	crmService := service.NewCRMService(gate, service.Stores{
		Employees: employeeRepo,
		Clients:   clientRepo,
		Contracts: contractRepo,
		Events:    eventRepo,
	}, issuer, export.NewExcelGenerator(), export.NewPDFGenerator(), cfg)

	handler := httphandler.NewHandler(crmService, log)
	authMiddleware := middleware.Auth(resolver)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting crm service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

package handler

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dailystatus/internal/service"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	employees *service.EmployeeService
	statuses  *service.StatusService
	exports   *service.ExportService
	logger    *zap.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	statuses := service.NewStatusService(db, logger.Named("status"))

	return &API{
		db:        db,
		employees: service.NewEmployeeService(db, logger.Named("employee")),
		statuses:  statuses,
		exports:   service.NewExportService(statuses, logger.Named("export")),
		logger:    logger,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

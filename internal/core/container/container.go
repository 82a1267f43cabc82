package container

import (
	"database/sql"

	auditLogRepo "modparts/internal/auditlog"
	"modparts/internal/bins"
	"modparts/internal/movements"
	"modparts/internal/products"
	"modparts/internal/reconcile"
	"modparts/internal/repository"
	"modparts/internal/users"
	"modparts/internal/warehouses"
	"modparts/pkg/auditlog"
	"modparts/pkg/security"
)

type Container struct {
	Repository       *repository.Repository
	AuditLog         *auditlog.Auditlog
	LoginHandler     *security.LoginHandler
	WarehouseHandler *warehouses.WarehouseHandler
	BinHandler       *bins.BinHandler
	BarcodeHandler   *products.BarcodeHandler
	MovementHandler  *movements.MovementHandler
	ScanHandler      *reconcile.ScanHandler
	UserHandler      *users.UsersHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)

	warehouseRepo := warehouses.NewWarehouseRepository(repo)
	binRepo := bins.NewBinRepository(repo)
	productRepo := products.NewProductRepository(repo)
	movementRepo := movements.NewMovementRepository(repo)

	movementService := movements.NewMovementService(movementRepo, productRepo, binRepo, repo.RunInTransaction)
	matcher := reconcile.NewMatcher(movementRepo, productRepo)

	userRepo := users.NewRepository(repo)

	return &Container{
		Repository:       repo,
		AuditLog:         auditLog,
		LoginHandler:     security.NewLoginHandler(repo),
		WarehouseHandler: warehouses.NewWarehouseHandler(warehouseRepo),
		BinHandler:       bins.NewBinHandler(binRepo),
		BarcodeHandler:   products.NewBarcodeHandler(productRepo),
		MovementHandler:  movements.NewMovementHandler(movementService, movementRepo, auditLog),
		ScanHandler:      reconcile.NewScanHandler(matcher),
		UserHandler:      users.NewHandler(userRepo),
	}
}

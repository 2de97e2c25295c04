package infra

import (
	"fmt"

	"reportes/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection for driver ("postgres" or "sqlite")
// and brings the schema up to date with RunMigrations.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("driver de base de datos no soportado: %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// One writer at a time; also keeps in-memory databases on a single connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables, then applies the idempotent SQL
// patches that GORM cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Proveedor{},
		&model.Cliente{},
		&model.Producto{},
		&model.Compra{},
		&model.Venta{},
		&model.VentaImportada{},
		&model.CompraImportada{},
		&model.Conflicto{},
		&model.MovimientoStock{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches creates the partial indexes behind "unique among active
// rows". The syntax is shared by PostgreSQL and SQLite, and IF NOT EXISTS
// makes re-running a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uni_proveedores_nombre_activo
		    ON proveedores (nombre) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uni_productos_nombre_activo
		    ON productos (nombre) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uni_clientes_email_activo
		    ON clientes (email) WHERE deleted_at IS NULL AND email IS NOT NULL AND email <> ''`,
		// cross-reference lookups during reconciliation
		`CREATE INDEX IF NOT EXISTS idx_productos_nombre_lower
		    ON productos (LOWER(nombre)) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_proveedores_nombre_lower
		    ON proveedores (LOWER(nombre)) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_clientes_nombre_lower
		    ON clientes (LOWER(nombre)) WHERE deleted_at IS NULL`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

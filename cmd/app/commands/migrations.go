package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/wingedsheep/eco-logique/internal/database"
)

// RunMigrations applies all pending migrations from migrations/{postgresql,mysql}.
// Returns nil when the schema is already current.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	dialect, err := database.Dialect(driver)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations dialect: %w", err)
	}

	logger.Info("running database migrations",
		slog.String("driver", driver),
		slog.String("dialect", dialect),
	)

	m, err := migrate.New("file://migrations/"+dialect, migrationDatabaseURL(dialect, connectionString))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrationDatabaseURL adds the mysql:// scheme migrate expects to a go-sql-driver DSN.
func migrationDatabaseURL(dialect, connectionString string) string {
	if dialect == database.DialectMySQL && !strings.HasPrefix(connectionString, "mysql://") {
		return "mysql://" + connectionString
	}
	return connectionString
}

package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"libraryhub/config"
	"libraryhub/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

// MigrationURL is the write database URL with the migration bookkeeping table attached.
func MigrationURL(config *config.Config) (string, error) {
	descriptor, err := url.Parse(postgres.WriteDescriptor(*config))
	if err != nil {
		return "", fmt.Errorf("error parsing database url: %w", err)
	}

	query := descriptor.Query()
	if table := config.DB.Postgres.MigrationTable; table != "" {
		query.Set("x-migrations-table", table)
	}

	descriptor.RawQuery = query.Encode()

	return descriptor.String(), nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func Up(config *config.Config) error {
	connectionString, err := MigrationURL(config)
	if err != nil {
		return err
	}

	mig, err := migrate.New(migrationSource, connectionString)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database migrations completed successfully")

	return nil
}

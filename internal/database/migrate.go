package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GuiaBolso/darwin"

	"winsbygroup.com/priceserver/internal/config"
)

// defineMigrations returns the migrations for a driver.
// Each migration is defined in a separate row (versioned by major db release)
// comments must only appear after sql on a line and cannot span lines (comments are stripped before checksum calc)
// *NEVER* change/remove a step once released! (because a checksum of the script is saved with the migration)
func defineMigrations(driver string) []darwin.Migration {
	if driver == config.DriverSQLite {
		return []darwin.Migration{
			{Version: 1.00, Description: "Create Table 'model_params'", Script: `
			CREATE TABLE IF NOT EXISTS model_params (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				weights TEXT NOT NULL, -- array literal or JSON array
				bias REAL NOT NULL,
				training_mean TEXT NOT NULL,
				training_std TEXT NOT NULL,
				trained_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`},

			{Version: 1.01, Description: "Create Index 'idx_model_params_trained_at'", Script: `
			CREATE INDEX IF NOT EXISTS idx_model_params_trained_at ON model_params (trained_at DESC);`},
		}
	}

	return []darwin.Migration{
		{Version: 1.00, Description: "Create Table 'model_params'", Script: `
		CREATE TABLE IF NOT EXISTS model_params (
			id BIGSERIAL PRIMARY KEY,
			weights DOUBLE PRECISION[] NOT NULL,
			bias DOUBLE PRECISION NOT NULL,
			training_mean DOUBLE PRECISION[] NOT NULL,
			training_std DOUBLE PRECISION[] NOT NULL,
			trained_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`},

		{Version: 1.01, Description: "Create Index 'idx_model_params_trained_at'", Script: `
		CREATE INDEX IF NOT EXISTS idx_model_params_trained_at ON model_params (trained_at DESC);`},
	}
}

func dialect(driver string) darwin.Dialect {
	if driver == config.DriverSQLite {
		return darwin.SqliteDialect{}
	}
	return darwin.PostgresDialect{}
}

// changes returns a user-friendly display of database version changes
func changes(v1, v2 float64) string {
	if v1 != v2 {
		return fmt.Sprintf("DB Version: %.2f (migrated from %.2f to %.2f)", v2, v1, v2)
	}
	return fmt.Sprintf("DB Version: %.2f", v1)
}

// currentVersion reads from migration table to get the latest version and number of steps applied
func currentVersion(db *sql.DB, driver string) (count int, ver float64, err error) {
	// might not have any migrations yet...
	s := `select count(*) from information_schema.tables where table_name = 'darwin_migrations';`
	if driver == config.DriverSQLite {
		s = `select count(*) from sqlite_master where tbl_name = 'darwin_migrations';`
	}
	err = db.QueryRow(s).Scan(&count)
	if err != nil || count == 0 {
		return 0, 0, err
	}

	s = `select count(*) as n, coalesce(max(version), 0) as ver from darwin_migrations;`
	err = db.QueryRow(s).Scan(&count, &ver)
	return count, ver, err
}

// minifiedMigrations returns our migrations with minified scripts so comments or formatting changes
// will not generate a new checksum
func minifiedMigrations(driver string) []darwin.Migration {
	migrations := defineMigrations(driver)
	for i := range migrations {
		migrations[i].Script = minify(migrations[i].Script)
	}
	return migrations
}

// minify simplifies the script to keep certain changes (spaces, tabs, case and comments) from
// creating a new checksum
func minify(script string) string {
	b := strings.Builder{}
	s := strings.ToLower(strings.ReplaceAll(script, "/*", "--"))
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		if i := strings.Index(line, "--"); i != -1 {
			line = line[0:i]
		}
		b.WriteString(strings.TrimSpace(line) + "\n")
	}
	result := strings.TrimSpace(strings.ReplaceAll(b.String(), "\t", " "))
	before := 0
	for len(result) != before {
		before = len(result)
		result = strings.ReplaceAll(result, "  ", " ")
	}
	return strings.TrimSpace(result)
}

// progress returns the steps attempted during this migration
func progress(ch <-chan darwin.MigrationInfo) string {
	var b strings.Builder

	for info := range ch {
		_, _ = fmt.Fprintf(&b, "v%.2f: \"%s\" (%s) Error: %v\n",
			info.Migration.Version, info.Migration.Description, info.Status.String(), info.Error)
	}
	return b.String()
}

// Schema returns the definitions for a driver as a string for display
func Schema(driver string) string {
	var b strings.Builder

	for _, m := range defineMigrations(driver) {
		_, _ = fmt.Fprintf(&b, "-- %s (%.2f)\n%s\n\n", m.Description, m.Version, strings.TrimSpace(m.Script))
	}
	return b.String()
}

// RunMigrations applies all migrations for driver to an already-open *sql.DB.
func RunMigrations(db *sql.DB, driver string) error {
	count, v1, err := currentVersion(db, driver)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	migrations := minifiedMigrations(driver)
	if count == len(migrations) && v1 == migrations[count-1].Version {
		slog.Debug("database schema is current, no migrations needed", "version", v1)
		return nil // already up to date
	}

	// setup for the migrations
	drv := darwin.NewGenericDriver(db, dialect(driver))
	infoChan := make(chan darwin.MigrationInfo, len(migrations))
	d := darwin.New(drv, migrations, infoChan)

	// perform the migrations
	var v2 float64
	if err := d.Migrate(); err != nil {
		close(infoChan)
		_, v2, _ = currentVersion(db, driver)
		prog := progress(infoChan)
		slog.Error("migration failed", "from", v1, "now", v2, "error", err, "progress", prog)
		return fmt.Errorf("migration error: %w\n%s", err, prog)
	}
	close(infoChan)

	_, v2, err = currentVersion(db, driver)
	if err != nil {
		return err
	}

	slog.Info(changes(v1, v2))
	return nil
}

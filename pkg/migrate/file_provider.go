package migrate

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Migration files are named 001_migration_name.up.sql and
// 001_migration_name.down.sql.
var (
	upRegex   = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)
	downRegex = regexp.MustCompile(`^(\d+)_(.+)\.down\.sql$`)
)

// FileProvider loads migrations from a directory on the filesystem
type FileProvider struct {
	dir            string
	migrationTable string
}

// NewFileProvider creates a new file-based migration provider
func NewFileProvider(dir string, migrationTable string) *FileProvider {
	if migrationTable == "" {
		migrationTable = "schema_migrations"
	}
	return &FileProvider{
		dir:            dir,
		migrationTable: migrationTable,
	}
}

// GetMigrations loads all migrations from the filesystem
func (fp *FileProvider) GetMigrations() ([]Migration, error) {
	migrationFiles := make(map[int]*Migration)

	record := func(path, filename string, matches []string, up bool) error {
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return fmt.Errorf("invalid version number in file %s: %w", filename, err)
		}

		content, err := fs.ReadFile(os.DirFS(filepath.Dir(path)), filename)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", path, err)
		}

		migration := migrationFiles[version]
		if migration == nil {
			migration = &Migration{
				Version: version,
				Name:    strings.ReplaceAll(matches[2], "_", " "),
			}
			migrationFiles[version] = migration
		}

		if up {
			migration.Up = string(content)
		} else {
			migration.Down = string(content)
		}
		return nil
	}

	err := filepath.WalkDir(fp.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		filename := d.Name()
		if matches := upRegex.FindStringSubmatch(filename); matches != nil {
			return record(path, filename, matches, true)
		}
		if matches := downRegex.FindStringSubmatch(filename); matches != nil {
			return record(path, filename, matches, false)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory %s: %w", fp.dir, err)
	}

	migrations := make([]Migration, 0, len(migrationFiles))
	for _, migration := range migrationFiles {
		migrations = append(migrations, *migration)
	}

	// Sort by version
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// CreateMigrationTable creates the migration tracking table
func (fp *FileProvider) CreateMigrationTable(db *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`, fp.migrationTable)

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	return nil
}

// GetCurrentVersion returns the highest applied migration version
func (fp *FileProvider) GetCurrentVersion(db *sql.DB) (int, error) {
	query := fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", fp.migrationTable)

	var version int
	err := db.QueryRow(query).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}

	return version, nil
}

// SetVersion sets the migration version
func (fp *FileProvider) SetVersion(db DB, version int) error {
	var err error

	if version == 0 {
		// Delete all version records when rolling back to 0
		query := fmt.Sprintf("DELETE FROM %s", fp.migrationTable)
		_, err = db.Exec(query)
	} else {
		// Drop records above the new version so MAX(version) tracks
		// rollbacks, then record the version itself
		query := fmt.Sprintf("DELETE FROM %s WHERE version > ?", fp.migrationTable)
		if _, err = db.Exec(query, version); err == nil {
			query = fmt.Sprintf(`
				INSERT OR REPLACE INTO %s (version, applied_at)
				VALUES (?, CURRENT_TIMESTAMP)
			`, fp.migrationTable)
			_, err = db.Exec(query, version)
		}
	}

	if err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}

	return nil
}

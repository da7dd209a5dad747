package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}

	return &ConfigData{
		Controllers: controllers,
	}, nil
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	query := `
		SELECT cc.controller_type,
		       cc.rest_cert, cc.rest_key, cc.rest_port, cc.rest_listen_addr,
		       sc.page_title, sc.about_html
		FROM controller_configs cc
		LEFT JOIN site_configs sc ON sc.controller_config_id = cc.id
		WHERE cc.config_id = (SELECT id FROM configs WHERE name = 'default')
		  AND cc.enabled = 1
		ORDER BY cc.controller_type
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query controller configs: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var controllerType string
		var restCert, restKey, restListenAddr sql.NullString
		var restPort sql.NullInt64
		var pageTitle, aboutHTML sql.NullString

		err := rows.Scan(
			&controllerType,
			&restCert, &restKey, &restPort, &restListenAddr,
			&pageTitle, &aboutHTML,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan controller config row: %w", err)
		}

		controller := ControllerData{Type: controllerType}

		if controllerType == "rest" || controllerType == "restserver" {
			controller.RESTServer = &RESTServerData{
				Cert:       restCert.String,
				Key:        restKey.String,
				ListenAddr: restListenAddr.String,
				Site: SiteData{
					PageTitle: pageTitle.String,
					AboutHTML: aboutHTML.String,
				},
			}
			if restPort.Valid {
				controller.RESTServer.Port = int(restPort.Int64)
			}
		}

		controllers = append(controllers, controller)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate controller config rows: %w", err)
	}

	return controllers, nil
}

// IsReadOnly returns false since SQLite configurations can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig saves a complete configuration to the database, replacing
// whatever was there before.
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Clear before the upsert: INSERT OR REPLACE issues a fresh config id,
	// so the old generation's rows are only reachable by name
	if err := s.clearExistingConfig(tx, "default"); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	configID, err := s.insertConfig(tx, "default")
	if err != nil {
		return fmt.Errorf("failed to insert config: %w", err)
	}

	for i := range configData.Controllers {
		controller := &configData.Controllers[i]
		if err := s.insertController(tx, configID, controller); err != nil {
			return fmt.Errorf("failed to insert controller %s: %w", controller.Type, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteProvider) insertConfig(tx *sql.Tx, name string) (int64, error) {
	query := `
		INSERT OR REPLACE INTO configs (name, created_at, updated_at)
		VALUES (?, datetime('now'), datetime('now'))
	`

	result, err := tx.Exec(query, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, name string) error {
	queries := []string{
		`DELETE FROM site_configs WHERE controller_config_id IN
			(SELECT cc.id FROM controller_configs cc
			 WHERE cc.config_id IN (SELECT id FROM configs WHERE name = ?))`,
		`DELETE FROM controller_configs WHERE config_id IN
			(SELECT id FROM configs WHERE name = ?)`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertController(tx *sql.Tx, configID int64, controller *ControllerData) error {
	query := `
		INSERT INTO controller_configs (
			config_id, controller_type, enabled,
			rest_cert, rest_key, rest_port, rest_listen_addr
		) VALUES (?, ?, 1, ?, ?, ?, ?)
	`

	var cert, key, listenAddr sql.NullString
	var port sql.NullInt64

	if controller.RESTServer != nil {
		cert = nullString(controller.RESTServer.Cert)
		key = nullString(controller.RESTServer.Key)
		listenAddr = nullString(controller.RESTServer.ListenAddr)
		if controller.RESTServer.Port != 0 {
			port = sql.NullInt64{Int64: int64(controller.RESTServer.Port), Valid: true}
		}
	}

	result, err := tx.Exec(query, configID, controller.Type, cert, key, port, listenAddr)
	if err != nil {
		return err
	}

	if controller.RESTServer == nil {
		return nil
	}

	controllerConfigID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	siteQuery := `
		INSERT INTO site_configs (controller_config_id, page_title, about_html)
		VALUES (?, ?, ?)
	`

	_, err = tx.Exec(siteQuery, controllerConfigID,
		nullString(controller.RESTServer.Site.PageTitle),
		nullString(controller.RESTServer.Site.AboutHTML))
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Package config provides configuration data structures and providers
// for loading ice sheet service configuration from YAML files or a
// SQLite database.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetControllers() ([]ControllerData, error)

	// Configuration management (for SQLite-specific operations)
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Controllers []ControllerData `json:"controllers,omitempty"`
}

// ControllerData holds the configuration for a single controller
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
}

// RESTServerData holds the REST server controller configuration
type RESTServerData struct {
	Cert       string   `json:"cert,omitempty"`
	Key        string   `json:"key,omitempty"`
	Port       int      `json:"port,omitempty"`
	ListenAddr string   `json:"listen_addr,omitempty"`
	Site       SiteData `json:"site,omitempty"`
}

// SiteData holds presentation settings for the embedded visualization site
type SiteData struct {
	PageTitle string `json:"page_title,omitempty"`
	AboutHTML string `json:"about_html,omitempty"`
}

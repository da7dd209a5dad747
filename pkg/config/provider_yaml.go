package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Controllers []ControllerYAML `yaml:"controllers,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
	}

	for i, controller := range yamlConfig.Controllers {
		config.Controllers[i] = ControllerData{
			Type: controller.Type,
		}

		if controller.RESTServer != nil {
			config.Controllers[i].RESTServer = &RESTServerData{
				Cert:       controller.RESTServer.Cert,
				Key:        controller.RESTServer.Key,
				Port:       controller.RESTServer.Port,
				ListenAddr: controller.RESTServer.ListenAddr,
				Site: SiteData{
					PageTitle: controller.RESTServer.Site.PageTitle,
					AboutHTML: controller.RESTServer.Site.AboutHTML,
				},
			}
		}
	}

	y.config = config
	return config, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config.Controllers, nil
}

// IsReadOnly returns true since YAML files are read-only in this implementation
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the config file

// ControllerYAML mirrors ControllerData with YAML tags
type ControllerYAML struct {
	Type       string          `yaml:"type,omitempty"`
	RESTServer *RESTServerYAML `yaml:"rest,omitempty"`
}

// RESTServerYAML mirrors RESTServerData with YAML tags
type RESTServerYAML struct {
	Cert       string   `yaml:"cert,omitempty"`
	Key        string   `yaml:"key,omitempty"`
	Port       int      `yaml:"port,omitempty"`
	ListenAddr string   `yaml:"listen-addr,omitempty"`
	Site       SiteYAML `yaml:"site,omitempty"`
}

// SiteYAML mirrors SiteData with YAML tags
type SiteYAML struct {
	PageTitle string `yaml:"page-title,omitempty"`
	AboutHTML string `yaml:"about-html,omitempty"`
}

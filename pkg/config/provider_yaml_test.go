package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
controllers:
  - type: rest
    rest:
      port: 8080
      listen-addr: 127.0.0.1
      site:
        page-title: Ice Sheet Melt Monitor
        about-html: "<p>Melt statistics for the polar ice sheets.</p>"
`

func writeTestConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeTestConfig(t, testYAML))
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if len(cfg.Controllers) != 1 {
		t.Fatalf("expected 1 controller, got %d", len(cfg.Controllers))
	}

	controller := cfg.Controllers[0]
	if controller.Type != "rest" {
		t.Errorf("controller type = %q, want %q", controller.Type, "rest")
	}
	if controller.RESTServer == nil {
		t.Fatal("expected REST server config to be present")
	}
	if controller.RESTServer.Port != 8080 {
		t.Errorf("port = %d, want 8080", controller.RESTServer.Port)
	}
	if controller.RESTServer.ListenAddr != "127.0.0.1" {
		t.Errorf("listen addr = %q, want %q", controller.RESTServer.ListenAddr, "127.0.0.1")
	}
	if controller.RESTServer.Site.PageTitle != "Ice Sheet Melt Monitor" {
		t.Errorf("page title = %q, want %q", controller.RESTServer.Site.PageTitle, "Ice Sheet Melt Monitor")
	}
}

func TestYAMLProviderGetControllers(t *testing.T) {
	provider := NewYAMLProvider(writeTestConfig(t, testYAML))
	defer provider.Close()

	// GetControllers should lazily load the config on first use.
	controllers, err := provider.GetControllers()
	if err != nil {
		t.Fatalf("GetControllers: %v", err)
	}
	if len(controllers) != 1 {
		t.Fatalf("expected 1 controller, got %d", len(controllers))
	}
	if controllers[0].Type != "rest" {
		t.Errorf("controller type = %q, want %q", controllers[0].Type, "rest")
	}
}

func TestYAMLProviderIsReadOnly(t *testing.T) {
	provider := NewYAMLProvider("unused.yaml")
	if !provider.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	provider := NewYAMLProvider(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if _, err := provider.LoadConfig(); err == nil {
		t.Error("expected error loading missing config file")
	}
}

func TestYAMLProviderMalformedFile(t *testing.T) {
	provider := NewYAMLProvider(writeTestConfig(t, "controllers: [not: valid: yaml"))
	if _, err := provider.LoadConfig(); err == nil {
		t.Error("expected error loading malformed config file")
	}
}

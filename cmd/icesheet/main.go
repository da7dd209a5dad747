package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/polarviz/icesheet/internal/app"
	"github.com/polarviz/icesheet/internal/constants"
	"github.com/polarviz/icesheet/internal/log"
	"github.com/polarviz/icesheet/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source:\n\t\t\t  YAML: config.yaml\n\t\t\t  SQLite: config.db\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	logFile := flag.String("log-file", "", "Also write logs to this file (rotated automatically)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("icesheet %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	var err error
	if *logFile != "" {
		err = log.InitWithFile(*debug, *logFile)
	} else {
		err = log.Init(*debug)
	}
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	provider, err := loadConfigProvider(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	defer provider.Close()

	// Create and run the application
	application := app.New(provider, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

func loadConfigProvider(cfgFile, cfgBackend string) (config.ConfigProvider, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}

	if _, err := provider.LoadConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	return provider, nil
}

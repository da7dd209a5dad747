package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/polarviz/icesheet/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	yamlConfig, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Load SQLite configuration
	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	// Compare configurations
	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	fmt.Printf("Controllers - YAML: %d, SQLite: %d\n", len(yamlConfig.Controllers), len(sqliteConfig.Controllers))
	if len(yamlConfig.Controllers) == len(sqliteConfig.Controllers) {
		fmt.Println("✓ Controller count matches")
		for i, yamlController := range yamlConfig.Controllers {
			sqliteController := sqliteConfig.Controllers[i]
			if compareControllers(yamlController, sqliteController) {
				fmt.Printf("✓ Controller %s matches\n", yamlController.Type)
			} else {
				fmt.Printf("✗ Controller %s differs\n", yamlController.Type)
				printControllerDiff(yamlController, sqliteController)
			}
		}
	} else {
		fmt.Println("✗ Controller count mismatch")
	}

	fmt.Println("\nTest completed!")
}

func compareControllers(yaml, sqlite config.ControllerData) bool {
	if yaml.Type != sqlite.Type {
		return false
	}

	if (yaml.RESTServer == nil) != (sqlite.RESTServer == nil) {
		return false
	}
	if yaml.RESTServer != nil && !reflect.DeepEqual(*yaml.RESTServer, *sqlite.RESTServer) {
		return false
	}

	return true
}

func printControllerDiff(yaml, sqlite config.ControllerData) {
	if yaml.Type != sqlite.Type {
		fmt.Printf("  Type: YAML='%s', SQLite='%s'\n", yaml.Type, sqlite.Type)
	}
	if yaml.RESTServer == nil || sqlite.RESTServer == nil {
		fmt.Printf("  RESTServer: YAML=%v, SQLite=%v\n", yaml.RESTServer != nil, sqlite.RESTServer != nil)
		return
	}
	if yaml.RESTServer.Port != sqlite.RESTServer.Port {
		fmt.Printf("  Port: YAML=%d, SQLite=%d\n", yaml.RESTServer.Port, sqlite.RESTServer.Port)
	}
	if yaml.RESTServer.ListenAddr != sqlite.RESTServer.ListenAddr {
		fmt.Printf("  ListenAddr: YAML='%s', SQLite='%s'\n", yaml.RESTServer.ListenAddr, sqlite.RESTServer.ListenAddr)
	}
	if yaml.RESTServer.Site != sqlite.RESTServer.Site {
		fmt.Printf("  Site: YAML=%+v, SQLite=%+v\n", yaml.RESTServer.Site, sqlite.RESTServer.Site)
	}
}

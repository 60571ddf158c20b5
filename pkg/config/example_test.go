package config_test

import (
	"fmt"
	"log"

	"github.com/ajitpratap0/recycle/pkg/config"
)

// ExampleNew demonstrates creating a configuration with default values.
func ExampleNew() {
	cfg := config.New()

	fmt.Printf("Log Level: %s\n", cfg.Observability.LogLevel)
	fmt.Printf("Metrics Addr: %s\n", cfg.Observability.MetricsAddr)
	fmt.Printf("Iterations: %d\n", cfg.Bench.Iterations)

	// Output:
	// Log Level: info
	// Metrics Addr: :9090
	// Iterations: 10000
}

// ExampleConfig_Validate shows how to validate a configuration before
// using it.
func ExampleConfig_Validate() {
	cfg := config.New()

	cfg.Bench.Goroutines = 16
	cfg.Bench.ElementCounts = []int{128, 512}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("Configuration is valid")
	// Output:
	// Configuration is valid
}

// ExampleConfig_Validate_invalid demonstrates a validation failure.
func ExampleConfig_Validate_invalid() {
	cfg := config.New()
	cfg.Observability.LogLevel = "verbose"

	err := cfg.Validate()
	fmt.Println(err)
	// Output:
	// invalid log_level "verbose": must be debug, info, warn, or error
}

package main

import (
	"fmt"
	"os"

	"github.com/mediplant/mediplant-go/cmd"
	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/logging"
	"github.com/mediplant/mediplant-go/internal/telemetry"
)

// version and buildDate are set at build time via ldflags.
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
	settings.Version = version
	settings.BuildDate = buildDate

	if err := telemetry.Init(settings); err != nil {
		fmt.Fprintf(os.Stderr, "error initializing telemetry: %v\n", err)
		os.Exit(1)
	}
	defer telemetry.Shutdown()

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command error: %v\n", err)
		os.Exit(1)
	}
}

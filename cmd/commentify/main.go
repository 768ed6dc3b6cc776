package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/commentify/commentify/internal/cli"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// A local .env may carry COMMENTIFY_* overrides; absence is fine.
	_ = godotenv.Load()

	app := cli.New()
	app.SetVersion(version, commit, date)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

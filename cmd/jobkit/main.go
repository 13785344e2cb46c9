package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	app "github.com/valter-silva-au/jobkit/internal"
	"github.com/valter-silva-au/jobkit/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A .env in the working directory may carry JOBKIT_* overrides.
	_ = godotenv.Load()

	cli.SetVersionInfo(version, commit, date)
	basePath := app.ResolveBasePath()

	a, err := app.NewApp(basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing jobkit: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		_ = a.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	_ = a.Close()
}

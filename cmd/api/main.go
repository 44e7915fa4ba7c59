// Package main is the entry point for the job board API server and its
// operational commands (migrations, seeding).
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Version information is set during build time through linker flags.
var (
	// version represents the release version of the application.
	version = "dev"

	// commit is the git commit hash from which the application was built.
	commit = "none"

	// buildDate is the timestamp when the application was built.
	buildDate = "unknown"
)

// init loads environment variables from a .env file if present.
func init() {
	// Not finding a .env file is fine; configuration may come from the environment.
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found or couldn't be loaded")
	}
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

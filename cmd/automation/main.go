package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/brandops/automation/internal/cli"
)

var rootCmd = &cobra.Command{Use: "automation"}

func main() {
	// Load .env if present; flags and env vars take over otherwise.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("db", os.Getenv("DATABASE_URL"), "Database connection string")
	cli.SetupCLI(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Package cli implements the merlai command line interface.
package cli

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// SetVersion overrides the reported release version.
func SetVersion(v string) {
	releaseVersion = v
}

var rootCmd = &cobra.Command{
	Use:     "merlai",
	Short:   "AI-powered music generation service",
	Long:    "Merlai generates harmony, bass and drum parts for a melody and renders them as Standard MIDI Files. Run without arguments to start the HTTP API.",
	Version: releaseVersion,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(scanPluginsCmd)
	rootCmd.AddCommand(recommendPluginsCmd)
}

// Execute runs the CLI.
func Execute() error {
	rootCmd.Version = releaseVersion
	return rootCmd.Execute()
}

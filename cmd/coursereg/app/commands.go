// Package app provides the entry point for the coursereg client application.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/campushq/coursereg/pkg/versions"
)

var rootCmd = &cobra.Command{
	Use:               "coursereg",
	DisableAutoGenTag: true,
	Short:             "Campus course registration client",
	Long: `coursereg browses the campus course catalog filtered by generation and
manages the signed-in user's course registrations.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates a new root command for the coursereg client.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		slog.Error("Error binding config flag", "error", err)
	}
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		slog.Error("Error binding debug flag", "error", err)
	}

	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(generationCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			slog.Error("Error retrieving format flag", "error", err)
			return
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				slog.Error("Error marshaling version info", "error", err)
				return
			}
			fmt.Println(string(output))
			return
		}

		fmt.Printf("coursereg %s\n", info.Version)
		fmt.Printf("  commit:     %s\n", info.Commit)
		fmt.Printf("  built:      %s\n", info.BuildDate)
		fmt.Printf("  go version: %s\n", info.GoVersion)
		fmt.Printf("  platform:   %s\n", info.Platform)
	},
}

func init() {
	versionCmd.Flags().String("format", "text", "Output format (text or json)")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	appName    = "hamcp"
	appVersion = "0.2.0"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "MCP server for Home Assistant",
	Long: `Hamcp exposes a Home Assistant instance to MCP clients:
  - REST tools for entity states and service calls
  - WebSocket tool for the system log
  - Local ESPHome YAML helpers (list/read/write) and CLI runner`,
	Version: appVersion,
	// Default behavior: if stdin is not a terminal, run as MCP server
	Run: func(cmd *cobra.Command, args []string) {
		if !isTerminal(os.Stdin) {
			// Running as MCP server (stdin is a pipe)
			runServe(cmd, args)
		} else {
			// Interactive terminal - show help
			cmd.Help()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s v%s\n", appName, appVersion))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

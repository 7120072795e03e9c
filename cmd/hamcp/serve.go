package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/standardbeagle/hamcp/internal/tools"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as MCP server",
	Long: `Run as an MCP (Model Context Protocol) server over stdio.

Connection settings come from the environment:
  HOME_ASSISTANT_BASE_URL (or HA_BASE_URL)      e.g. http://homeassistant.local:8123
  HOME_ASSISTANT_TOKEN (or HA_TOKEN)            long-lived access token
  HOME_ASSISTANT_VERIFY_SSL (or HA_VERIFY_SSL)  1/0/true/false (default: true)
  ESPHOME_DIR                                   root directory for the YAML file tools`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create root context with signal cancellation
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    appName,
			Version: appVersion,
		},
		&mcp.ServerOptions{
			HasTools: true,
			Instructions: `Home Assistant control surface plus a local ESPHome YAML sandbox.

Every tool call reads its configuration from the environment and opens its own
connection to the hub; nothing is cached between calls.

Available tools:
- home_assistant_get_state: fetch one entity's state
- home_assistant_list_states: list entity states with filtering
- home_assistant_call_service: invoke a service (e.g. light.turn_on)
- home_assistant_system_log_list: fetch the system log over WebSocket
- esphome_list_yaml / esphome_read_yaml / esphome_write_yaml: sandboxed config files
- esphome_run_cli: run the local esphome binary (config, compile, ...)`,
		},
	)

	tools.RegisterHubTools(server)
	tools.RegisterESPHomeTools(server)

	// Run server over stdio; stdout belongs to the MCP stream
	log.SetOutput(os.Stderr)
	log.Printf("Starting %s v%s", appName, appVersion)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		if ctx.Err() == nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Server shutdown complete")
}

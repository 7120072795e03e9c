package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/standardbeagle/hamcp/internal/hub"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultLimit caps list results unless the caller narrows further.
const defaultLimit = 200

// GetStateInput defines input for home_assistant_get_state.
type GetStateInput struct {
	EntityID string `json:"entity_id" jsonschema:"Entity id like 'light.kitchen' (domain.object_id)"`
}

// GetStateOutput defines output for home_assistant_get_state.
type GetStateOutput struct {
	State map[string]any `json:"state"`
}

// ListStatesInput defines input for home_assistant_list_states.
type ListStatesInput struct {
	Domain            string `json:"domain,omitempty" jsonschema:"Filter by domain, e.g. 'sensor' or 'switch'"`
	Search            string `json:"search,omitempty" jsonschema:"Case-insensitive substring match on entity_id"`
	Limit             *int   `json:"limit,omitempty" jsonschema:"Max results returned (default 200)"`
	IncludeAttributes bool   `json:"include_attributes,omitempty" jsonschema:"Include the full attributes dict (can be large)"`
}

// ListStatesOutput defines output for home_assistant_list_states.
type ListStatesOutput struct {
	Count  int                `json:"count"`
	States []hub.StateSummary `json:"states"`
}

// CallServiceInput defines input for home_assistant_call_service.
type CallServiceInput struct {
	Domain      string         `json:"domain" jsonschema:"Service domain, e.g. 'light'"`
	Service     string         `json:"service" jsonschema:"Service name, e.g. 'turn_on'"`
	EntityID    string         `json:"entity_id,omitempty" jsonschema:"Target entity id"`
	ServiceData map[string]any `json:"service_data,omitempty" jsonschema:"Service-specific fields merged into the request body"`
}

// CallServiceOutput defines output for home_assistant_call_service.
type CallServiceOutput struct {
	Response any `json:"response,omitempty"`
}

// SystemLogInput defines input for home_assistant_system_log_list.
type SystemLogInput struct {
	Limit  *int     `json:"limit,omitempty" jsonschema:"Max entries returned (default 200)"`
	Search string   `json:"search,omitempty" jsonschema:"Case-insensitive substring over name/message/source"`
	Levels []string `json:"levels,omitempty" jsonschema:"Only include these levels, e.g. ['error','warning','info']"`
}

// SystemLogOutput defines output for home_assistant_system_log_list.
type SystemLogOutput struct {
	Count   int              `json:"count"`
	Entries []map[string]any `json:"entries"`
}

// RegisterHubTools adds the Home Assistant tools to the server.
func RegisterHubTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "home_assistant_get_state",
		Description: `Get Home Assistant state for one entity (REST /api/states/<entity_id>).

Example:
  home_assistant_get_state {entity_id: "light.kitchen"}`,
	}, handleGetState)

	mcp.AddTool(server, &mcp.Tool{
		Name: "home_assistant_list_states",
		Description: `List Home Assistant states (REST /api/states) with optional filtering.

Examples:
  home_assistant_list_states {domain: "sensor"}
  home_assistant_list_states {search: "kitchen", limit: 20}
  home_assistant_list_states {domain: "climate", include_attributes: true}`,
	}, handleListStates)

	mcp.AddTool(server, &mcp.Tool{
		Name: "home_assistant_call_service",
		Description: `Call a Home Assistant service (REST /api/services/<domain>/<service>).

Provide entity_id and/or service_data.
Examples:
  home_assistant_call_service {domain: "light", service: "turn_on", entity_id: "light.kitchen"}
  home_assistant_call_service {domain: "climate", service: "set_temperature", entity_id: "climate.living_room", service_data: {temperature: 21.5}}`,
	}, handleCallService)

	mcp.AddTool(server, &mcp.Tool{
		Name: "home_assistant_system_log_list",
		Description: `Fetch Home Assistant system logs via WebSocket (system_log/list).

Examples:
  home_assistant_system_log_list {limit: 50}
  home_assistant_system_log_list {levels: ["error", "warning"], search: "zigbee"}`,
	}, handleSystemLogList)
}

func handleGetState(ctx context.Context, req *mcp.CallToolRequest, input GetStateInput) (*mcp.CallToolResult, GetStateOutput, error) {
	entityID := strings.TrimSpace(input.EntityID)
	if entityID == "" || !strings.Contains(entityID, ".") {
		return errorResult("entity_id must look like 'domain.object_id'"), GetStateOutput{}, nil
	}

	cfg, err := hub.Load()
	if err != nil {
		return errorResult(err.Error()), GetStateOutput{}, nil
	}

	raw, err := hub.NewRestClient(cfg).Get(ctx, "/api/states/"+entityID)
	if err != nil {
		return errorResult(err.Error()), GetStateOutput{}, nil
	}

	var state map[string]any
	if err := json.Unmarshal(raw, &state); err != nil {
		return errorResult(fmt.Sprintf("decode state: %v", err)), GetStateOutput{}, nil
	}
	return nil, GetStateOutput{State: state}, nil
}

func handleListStates(ctx context.Context, req *mcp.CallToolRequest, input ListStatesInput) (*mcp.CallToolResult, ListStatesOutput, error) {
	limit := defaultLimit
	if input.Limit != nil {
		limit = *input.Limit
	}
	if limit <= 0 {
		return nil, ListStatesOutput{States: []hub.StateSummary{}}, nil
	}

	cfg, err := hub.Load()
	if err != nil {
		return errorResult(err.Error()), ListStatesOutput{}, nil
	}

	raw, err := hub.NewRestClient(cfg).Get(ctx, "/api/states")
	if err != nil {
		return errorResult(err.Error()), ListStatesOutput{}, nil
	}

	var states []hub.StateRecord
	if err := json.Unmarshal(raw, &states); err != nil {
		return errorResult(fmt.Sprintf("decode states: %v", err)), ListStatesOutput{}, nil
	}

	filtered := hub.FilterStates(states, hub.StateFilter{
		Domain:            input.Domain,
		Search:            input.Search,
		Limit:             limit,
		IncludeAttributes: input.IncludeAttributes,
	})
	return nil, ListStatesOutput{Count: len(filtered), States: filtered}, nil
}

func handleCallService(ctx context.Context, req *mcp.CallToolRequest, input CallServiceInput) (*mcp.CallToolResult, CallServiceOutput, error) {
	domain := strings.TrimSpace(input.Domain)
	service := strings.TrimSpace(input.Service)
	if domain == "" || service == "" {
		return errorResult("domain and service are required"), CallServiceOutput{}, nil
	}

	payload := map[string]any{}
	if input.EntityID != "" {
		payload["entity_id"] = input.EntityID
	}
	for k, v := range input.ServiceData {
		payload[k] = v
	}

	cfg, err := hub.Load()
	if err != nil {
		return errorResult(err.Error()), CallServiceOutput{}, nil
	}

	resp, err := hub.NewRestClient(cfg).Post(ctx, "/api/services/"+domain+"/"+service, payload)
	if err != nil {
		return errorResult(err.Error()), CallServiceOutput{}, nil
	}
	return nil, CallServiceOutput{Response: resp}, nil
}

func handleSystemLogList(ctx context.Context, req *mcp.CallToolRequest, input SystemLogInput) (*mcp.CallToolResult, SystemLogOutput, error) {
	limit := defaultLimit
	if input.Limit != nil {
		limit = *input.Limit
	}
	// A non-positive limit can only produce an empty result, so skip the
	// round-trip entirely.
	if limit <= 0 {
		return nil, SystemLogOutput{Entries: []map[string]any{}}, nil
	}

	cfg, err := hub.Load()
	if err != nil {
		return errorResult(err.Error()), SystemLogOutput{}, nil
	}

	resp, err := hub.NewSession(cfg).Call(ctx, map[string]any{"id": 1, "type": "system_log/list"})
	if err != nil {
		return errorResult(err.Error()), SystemLogOutput{}, nil
	}
	if ok, _ := resp["success"].(bool); !ok {
		return errorResult(fmt.Sprintf("system_log/list failed: %v", resp)), SystemLogOutput{}, nil
	}

	rows, _ := resp["result"].([]any)
	entries := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if entry, ok := row.(map[string]any); ok {
			entries = append(entries, entry)
		}
	}

	filtered := hub.FilterLogEntries(entries, hub.LogFilter{
		Search: input.Search,
		Levels: input.Levels,
		Limit:  limit,
	})
	return nil, SystemLogOutput{Count: len(filtered), Entries: filtered}, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

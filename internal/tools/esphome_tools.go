package tools

import (
	"context"

	"github.com/standardbeagle/hamcp/internal/esphome"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListYAMLInput defines input for esphome_list_yaml.
type ListYAMLInput struct {
	EsphomeDir string `json:"esphome_dir,omitempty" jsonschema:"ESPHome config directory (defaults to ESPHOME_DIR)"`
}

// ListYAMLOutput defines output for esphome_list_yaml.
type ListYAMLOutput struct {
	Files []string `json:"files"`
}

// ReadYAMLInput defines input for esphome_read_yaml.
type ReadYAMLInput struct {
	Filename   string `json:"filename" jsonschema:"Bare YAML file name, e.g. 'my_node.yaml'"`
	EsphomeDir string `json:"esphome_dir,omitempty" jsonschema:"ESPHome config directory (defaults to ESPHOME_DIR)"`
}

// ReadYAMLOutput defines output for esphome_read_yaml.
type ReadYAMLOutput struct {
	Content string `json:"content"`
}

// WriteYAMLInput defines input for esphome_write_yaml.
type WriteYAMLInput struct {
	Filename   string `json:"filename" jsonschema:"Bare YAML file name, e.g. 'my_node.yaml'"`
	Content    string `json:"content" jsonschema:"Full file content to write"`
	EsphomeDir string `json:"esphome_dir,omitempty" jsonschema:"ESPHome config directory (defaults to ESPHOME_DIR)"`
	Create     bool   `json:"create,omitempty" jsonschema:"Allow creating a new file (default false: refuse)"`
}

// WriteYAMLOutput defines output for esphome_write_yaml.
type WriteYAMLOutput struct {
	OK    bool   `json:"ok"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// RunCLIInput defines input for esphome_run_cli.
type RunCLIInput struct {
	Args       []string `json:"args" jsonschema:"Arguments for the esphome binary, e.g. ['config', 'my_node.yaml']"`
	EsphomeDir string   `json:"esphome_dir,omitempty" jsonschema:"ESPHome config directory (defaults to ESPHOME_DIR)"`
}

// RunCLIOutput defines output for esphome_run_cli.
type RunCLIOutput struct {
	ReturnCode int    `json:"returncode"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
}

// RegisterESPHomeTools adds the local ESPHome YAML tools to the server.
func RegisterESPHomeTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "esphome_list_yaml",
		Description: "List YAML files in the ESPHome config directory (local filesystem).",
	}, handleListYAML)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "esphome_read_yaml",
		Description: "Read an ESPHome YAML config file (local filesystem).",
	}, handleReadYAML)

	mcp.AddTool(server, &mcp.Tool{
		Name: "esphome_write_yaml",
		Description: `Write an ESPHome YAML config file (local filesystem).

create=false (the default) refuses to create new files.`,
	}, handleWriteYAML)

	mcp.AddTool(server, &mcp.Tool{
		Name: "esphome_run_cli",
		Description: `Run the local esphome CLI with arguments in the ESPHome directory.

Examples:
  esphome_run_cli {args: ["config", "my_node.yaml"]}
  esphome_run_cli {args: ["compile", "my_node.yaml"]}`,
	}, handleRunCLI)
}

func handleListYAML(ctx context.Context, req *mcp.CallToolRequest, input ListYAMLInput) (*mcp.CallToolResult, ListYAMLOutput, error) {
	root, err := esphome.ResolveDir(input.EsphomeDir)
	if err != nil {
		return errorResult(err.Error()), ListYAMLOutput{}, nil
	}
	files, err := esphome.ListYAML(root)
	if err != nil {
		return errorResult(err.Error()), ListYAMLOutput{}, nil
	}
	return nil, ListYAMLOutput{Files: files}, nil
}

func handleReadYAML(ctx context.Context, req *mcp.CallToolRequest, input ReadYAMLInput) (*mcp.CallToolResult, ReadYAMLOutput, error) {
	root, err := esphome.ResolveDir(input.EsphomeDir)
	if err != nil {
		return errorResult(err.Error()), ReadYAMLOutput{}, nil
	}
	content, err := esphome.ReadYAML(root, input.Filename)
	if err != nil {
		return errorResult(err.Error()), ReadYAMLOutput{}, nil
	}
	return nil, ReadYAMLOutput{Content: content}, nil
}

func handleWriteYAML(ctx context.Context, req *mcp.CallToolRequest, input WriteYAMLInput) (*mcp.CallToolResult, WriteYAMLOutput, error) {
	root, err := esphome.ResolveDir(input.EsphomeDir)
	if err != nil {
		return errorResult(err.Error()), WriteYAMLOutput{}, nil
	}
	result, err := esphome.WriteYAML(root, input.Filename, input.Content, input.Create)
	if err != nil {
		return errorResult(err.Error()), WriteYAMLOutput{}, nil
	}
	return nil, WriteYAMLOutput{OK: result.OK, Path: result.Path, Bytes: result.Bytes}, nil
}

func handleRunCLI(ctx context.Context, req *mcp.CallToolRequest, input RunCLIInput) (*mcp.CallToolResult, RunCLIOutput, error) {
	root, err := esphome.ResolveDir(input.EsphomeDir)
	if err != nil {
		return errorResult(err.Error()), RunCLIOutput{}, nil
	}
	result, err := esphome.RunCLI(ctx, root, input.Args)
	if err != nil {
		return errorResult(err.Error()), RunCLIOutput{}, nil
	}
	return nil, RunCLIOutput{
		ReturnCode: result.ReturnCode,
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
	}, nil
}

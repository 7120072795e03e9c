package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func sandboxRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("canonicalize temp dir: %v", err)
	}
	return root
}

func TestESPHomeTools_WriteReadRoundTrip(t *testing.T) {
	root := sandboxRoot(t)
	if err := os.WriteFile(filepath.Join(root, "node.yaml"), []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	content := "esphome:\n  name: node\n"

	result, out, err := handleWriteYAML(context.Background(), nil, WriteYAMLInput{
		Filename:   "node.yaml",
		Content:    content,
		EsphomeDir: root,
	})
	if err != nil {
		t.Fatalf("write handler returned error: %v", err)
	}
	if result != nil {
		t.Fatalf("write produced error result: %+v", result)
	}
	if !out.OK || out.Bytes != int64(len(content)) {
		t.Errorf("write output = %+v", out)
	}

	readResult, readOut, err := handleReadYAML(context.Background(), nil, ReadYAMLInput{
		Filename:   "node.yaml",
		EsphomeDir: root,
	})
	if err != nil {
		t.Fatalf("read handler returned error: %v", err)
	}
	if readResult != nil {
		t.Fatalf("read produced error result: %+v", readResult)
	}
	if readOut.Content != content {
		t.Errorf("round trip mismatch: got %q, want %q", readOut.Content, content)
	}
}

func TestESPHomeTools_WriteRefusesCreateByDefault(t *testing.T) {
	root := sandboxRoot(t)

	result, _, err := handleWriteYAML(context.Background(), nil, WriteYAMLInput{
		Filename:   "brand_new.yaml",
		Content:    "x\n",
		EsphomeDir: root,
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("write without create on a missing file should produce an error result")
	}
	if _, statErr := os.Stat(filepath.Join(root, "brand_new.yaml")); !os.IsNotExist(statErr) {
		t.Error("refused write must not create the file")
	}
}

func TestESPHomeTools_TraversalRejected(t *testing.T) {
	root := sandboxRoot(t)

	for _, name := range []string{"../escape.yaml", "sub/dir.yaml", "c:drive.yaml"} {
		result, _, err := handleReadYAML(context.Background(), nil, ReadYAMLInput{
			Filename:   name,
			EsphomeDir: root,
		})
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if result == nil || !result.IsError {
			t.Errorf("filename %q should be rejected", name)
		}
	}
}

func TestESPHomeTools_ListYAML(t *testing.T) {
	root := sandboxRoot(t)
	for _, name := range []string{"b.yaml", "a.yml"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	result, out, err := handleListYAML(context.Background(), nil, ListYAMLInput{EsphomeDir: root})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result != nil {
		t.Fatalf("list produced error result: %+v", result)
	}
	if len(out.Files) != 2 || out.Files[0] != "a.yml" || out.Files[1] != "b.yaml" {
		t.Errorf("Files = %v, want [a.yml b.yaml]", out.Files)
	}
}

func TestESPHomeTools_MissingRoot(t *testing.T) {
	t.Setenv("ESPHOME_DIR", "")
	os.Unsetenv("ESPHOME_DIR")

	result, _, err := handleListYAML(context.Background(), nil, ListYAMLInput{})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("missing sandbox root should produce an error result")
	}
}

func TestESPHomeTools_RunCLIRequiresArgs(t *testing.T) {
	root := sandboxRoot(t)

	result, _, err := handleRunCLI(context.Background(), nil, RunCLIInput{EsphomeDir: root})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("run_cli without args should produce an error result")
	}
}

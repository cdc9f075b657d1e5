package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
catalog_path = %q
log_dir = %q

%s`, filepath.Join(base, "movie_data.json"), filepath.Join(base, "logs"), extra)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("output = %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[tmdb]") {
		t.Fatalf("sample config missing tmdb section:\n%s", data)
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatal(err)
	}
}

func TestConfigValidateWithExplicitFile(t *testing.T) {
	path := writeTestConfig(t, "")

	out, err := executeCommand(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("output should name the config path: %q", out)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	path := writeTestConfig(t, "[scraper]\nbackoff_base_ms = -5\n")

	if _, err := executeCommand(t, "--config", path, "config", "validate"); err == nil {
		t.Fatal("expected validation failure for negative backoff")
	}
}

func TestConfigShowMasksToken(t *testing.T) {
	path := writeTestConfig(t, "[tmdb]\nbearer_token = \"super-secret\"\n")

	out, err := executeCommand(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "super-secret") {
		t.Fatal("config show leaked the bearer token")
	}
	if !strings.Contains(out, "<set>") {
		t.Fatalf("output = %q", out)
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"sync", "ratings", "trailers", "enrich", "runs", "config"} {
		if !strings.Contains(out, name) {
			t.Fatalf("help output missing %q:\n%s", name, out)
		}
	}
}

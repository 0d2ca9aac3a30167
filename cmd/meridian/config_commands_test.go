package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meridian/internal/testsupport"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "meridian.toml")

	out, err := runCLI(context.Background(), "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "wrote sample config")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	requireContains(t, string(data), "[daemon]")
	requireContains(t, string(data), "[site]")

	// A second init must not clobber the file without being asked to.
	if _, err := runCLI(context.Background(), "config", "init", "--path", target); err == nil {
		t.Fatal("second init succeeded without --overwrite")
	} else if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := runCLI(context.Background(), "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite init: %v", err)
	}
}

func TestConfigShowRendersJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := writeConfigFile(t, cfg)

	out, err := runCLI(context.Background(), "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	for _, key := range []string{"daemon", "site", "mount", "parks", "paths"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("section %q missing from output:\n%s", key, out)
		}
	}
}

func TestMissingConfigMentionsInit(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, err := runCLI(context.Background(), "--config", missing, "status")
	if err == nil {
		t.Fatal("status succeeded without a config file")
	}
	if !strings.Contains(err.Error(), "meridian config init") {
		t.Fatalf("error %q does not point at config init", err)
	}
}

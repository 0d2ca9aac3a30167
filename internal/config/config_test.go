package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meridian/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const minimalTOML = `
[site]
latitude = 28.7624
longitude = -17.8792

[parks.zenith]
description = "Pointing straight up"
alt = 89.9
az = 0.0

[parks.stow]
description = "Service position"
alt = 15.0
az = 180.0
`

func TestLoadTOMLAppliesDefaultsAndNormalizes(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "mount.toml")
	writeFile(t, path, minimalTOML)

	cfg, resolved, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Site.Latitude != 28.7624 {
		t.Errorf("latitude = %v", cfg.Site.Latitude)
	}
	if cfg.Daemon.QueryTimeoutSeconds != 5 {
		t.Errorf("query timeout default = %d", cfg.Daemon.QueryTimeoutSeconds)
	}
	wantData := filepath.Join(home, ".local", "share", "meridian")
	if cfg.Paths.DataDir != wantData {
		t.Errorf("data dir = %q, want %q", cfg.Paths.DataDir, wantData)
	}
	wantEndpoint := filepath.Join(wantData, "meridiand.sock")
	if cfg.Daemon.Endpoint != wantEndpoint {
		t.Errorf("endpoint = %q, want %q", cfg.Daemon.Endpoint, wantEndpoint)
	}
	if got := cfg.ParkNames(); len(got) != 2 || got[0] != "stow" || got[1] != "zenith" {
		t.Errorf("ParkNames() = %v", got)
	}
}

func TestLoadJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "mount.json")
	writeFile(t, path, `{
  "daemon": {"endpoint": "127.0.0.1:9871", "query_timeout_seconds": 3},
  "site": {"latitude": 51.477, "longitude": 0.0},
  "parks": {"flat": {"description": "Flat field screen", "alt": 45, "az": 90}}
}`)

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Daemon.Endpoint != "127.0.0.1:9871" {
		t.Errorf("endpoint = %q", cfg.Daemon.Endpoint)
	}
	if cfg.Daemon.QueryTimeoutSeconds != 3 {
		t.Errorf("query timeout = %d", cfg.Daemon.QueryTimeoutSeconds)
	}
	if park, ok := cfg.Parks["flat"]; !ok || park.Alt != 45 {
		t.Errorf("parks = %+v", cfg.Parks)
	}
}

func TestDiscoveryFindsSingleFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")

	path := filepath.Join(home, ".config", "meridian", "site.toml")
	writeFile(t, path, minimalTOML)

	cfg, resolved, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if len(cfg.Parks) != 2 {
		t.Errorf("parks = %+v", cfg.Parks)
	}
}

func TestDiscoveryZeroFilesGivesGuidance(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")

	_, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected discovery error")
	}
	for _, want := range []string{"meridian config init", config.EnvConfigPath} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing guidance %q", err, want)
		}
	}
}

func TestDiscoveryMultipleFilesGivesGuidance(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")

	writeFile(t, filepath.Join(home, ".config", "meridian", "a.toml"), minimalTOML)
	writeFile(t, filepath.Join(home, ".config", "meridian", "b.json"), "{}")

	_, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected discovery error")
	}
	for _, want := range []string{"a.toml", "b.json", "--config"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestDiscoveryIgnoresOtherExtensions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")

	writeFile(t, filepath.Join(home, ".config", "meridian", "notes.txt"), "not config")
	writeFile(t, filepath.Join(home, ".config", "meridian", "site.toml"), minimalTOML)

	_, resolved, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if filepath.Base(resolved) != "site.toml" {
		t.Errorf("resolved = %q", resolved)
	}
}

func TestEnvVarBypassesDiscovery(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// Two files in the discovery directory would normally fail.
	writeFile(t, filepath.Join(home, ".config", "meridian", "a.toml"), minimalTOML)
	writeFile(t, filepath.Join(home, ".config", "meridian", "b.toml"), minimalTOML)

	explicit := filepath.Join(home, "explicit.toml")
	writeFile(t, explicit, minimalTOML)
	t.Setenv(config.EnvConfigPath, explicit)

	_, resolved, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != explicit {
		t.Errorf("resolved = %q, want %q", resolved, explicit)
	}
}

func TestExplicitMissingPathFails(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, _, err := config.Load(filepath.Join(home, "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("err = %v, want missing-file guidance", err)
	}
}

func TestValidationRejectsBadValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "latitude",
			content: "[site]\nlatitude = 97.0\n",
			wantErr: "site.latitude",
		},
		{
			name:    "slew rate",
			content: "[site]\nlatitude = 0.0\n[mount]\nslew_rate = -1.0\n",
			wantErr: "mount.slew_rate",
		},
		{
			name:    "park below limit",
			content: minimalTOML + "[parks.low]\ndescription = \"Too low\"\nalt = 2.0\naz = 0.0\n",
			wantErr: "parks.low.alt",
		},
		{
			name:    "log format",
			content: "[daemon]\nlog_format = \"xml\"\n",
			wantErr: "daemon.log_format",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(home, tc.name+".toml")
			writeFile(t, path, tc.content)
			_, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".config", "meridian", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if len(cfg.Parks) == 0 {
		t.Error("sample config carries no parks")
	}
	if cfg.Site.Latitude == 0 {
		t.Error("sample config carries no site latitude")
	}
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rokuserve/internal/feed"
)

func writeCLIConfig(t *testing.T) (string, string, string) {
	t.Helper()
	videos := t.TempDir()
	output := t.TempDir()
	logs := t.TempDir()

	content := fmt.Sprintf(`[paths]
videos_dir = %q
output_dir = %q
log_dir = %q

[feed]
provider_name = "Test Chapel"
`, videos, output, logs)

	path := filepath.Join(t.TempDir(), "rokuserve.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, videos, output
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildCommandEmptyLibrary(t *testing.T) {
	cfgPath, _, output := writeCLIConfig(t)

	got, err := runCLI(t, "-c", cfgPath, "build")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(got, "Published 0 items in 0 groups") {
		t.Fatalf("output = %q", got)
	}
	if _, err := os.Stat(filepath.Join(output, "roku_feed.json")); err != nil {
		t.Fatalf("feed not published: %v", err)
	}
}

func TestArchiveCommand(t *testing.T) {
	cfgPath, videos, output := writeCLIConfig(t)
	for _, name := range []string{"Sermon One.mp4", "Sermon Two.mkv"} {
		if err := os.WriteFile(filepath.Join(videos, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed video: %v", err)
		}
	}

	got, err := runCLI(t, "-c", cfgPath, "archive")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !strings.Contains(got, "Appended 2 new titles") {
		t.Fatalf("output = %q", got)
	}

	got, err = runCLI(t, "-c", cfgPath, "archive")
	if err != nil {
		t.Fatalf("archive rerun: %v", err)
	}
	if !strings.Contains(got, "already up to date") {
		t.Fatalf("rerun output = %q", got)
	}

	ledger, err := os.ReadFile(filepath.Join(output, "downloaded_videos.txt"))
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if !strings.Contains(string(ledger), "Sermon One") {
		t.Fatalf("ledger = %q", ledger)
	}
}

func TestShowCommand(t *testing.T) {
	cfgPath, _, output := writeCLIConfig(t)

	doc := &feed.Document{
		ProviderName: "Test Chapel",
		Language:     "en",
		LastUpdated:  time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC),
		BuildID:      "build-1",
		Groups: []feed.Group{{
			Label: "October 2024",
			Items: []feed.Item{{
				ID:          "video0",
				Title:       "Sermon - October 3, 2024",
				ReleaseDate: "2024-10-03",
				Content:     feed.Content{Duration: 3600},
			}},
		}},
	}
	if err := feed.WriteDocument(doc, filepath.Join(output, "roku_feed.json")); err != nil {
		t.Fatalf("write feed: %v", err)
	}

	got, err := runCLI(t, "-c", cfgPath, "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Test Chapel", "1 items", "October 2024", "Sermon - October 3, 2024", "1h0m0s"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestShowCommandWithoutFeed(t *testing.T) {
	cfgPath, _, _ := writeCLIConfig(t)

	if _, err := runCLI(t, "-c", cfgPath, "show"); err == nil {
		t.Fatal("expected error when no feed is published")
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	got, err := runCLI(t, "config", "init", "-p", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(got, "Wrote sample configuration") {
		t.Fatalf("output = %q", got)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, err := runCLI(t, "config", "init", "-p", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, err := runCLI(t, "config", "init", "-p", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	got, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(got, "rokuserve ") {
		t.Fatalf("output = %q", got)
	}
}

func TestConfigValidateCommand(t *testing.T) {
	cfgPath, _, _ := writeCLIConfig(t)

	got, err := runCLI(t, "-c", cfgPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(got, "Configuration valid") {
		t.Fatalf("output = %q", got)
	}
}

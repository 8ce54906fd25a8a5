package config

import "testing"

func TestPipelineEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.PipelineEnabled() {
		t.Fatalf("pipeline should be disabled without an API key")
	}
	cfg.Gemini.APIKey = "key"
	if !cfg.PipelineEnabled() {
		t.Fatalf("pipeline should be enabled with an API key")
	}
}

func TestTrackerEnabled(t *testing.T) {
	cfg := &Config{}
	cfg.Tracker.BaseURL = "https://x.atlassian.net"
	cfg.Tracker.Email = "a@b.c"
	if cfg.TrackerEnabled() {
		t.Fatalf("tracker needs all three settings")
	}
	cfg.Tracker.APIToken = "t"
	if !cfg.TrackerEnabled() {
		t.Fatalf("tracker should be enabled with full credentials")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Fatalf("firstNonEmpty = %q", got)
	}
	if got := firstNonEmpty("", " "); got != "" {
		t.Fatalf("firstNonEmpty of blanks = %q", got)
	}
}

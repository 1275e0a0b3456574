package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
common:
  callsign: Magic
  coalition: blue
tacview:
  host: 127.0.0.1
  port: 42674
  username: gci-bot
srs:
  host: 127.0.0.1
  port: 5002
  username: gci-bot
  frequency: 251000000
openai:
  api_key: sk-test
  speech_voice: onyx
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Common.Callsign != "Magic" {
		t.Errorf("callsign = %q, want Magic", cfg.Common.Callsign)
	}
	if cfg.Common.Coalition != CoalitionBlue {
		t.Errorf("coalition = %q, want blue", cfg.Common.Coalition)
	}
	if got := cfg.Tacview.Address(); got != "127.0.0.1:42674" {
		t.Errorf("tacview address = %q", got)
	}
	if got := cfg.SRS.Address(); got != "127.0.0.1:5002" {
		t.Errorf("srs address = %q", got)
	}
	if cfg.OpenAI.SpeechSpeed != 1 {
		t.Errorf("speech speed = %v, want default 1", cfg.OpenAI.SpeechSpeed)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "missing callsign",
			mutate:  func(s string) string { return strings.Replace(s, "callsign: Magic", "callsign: \"\"", 1) },
			wantErr: "callsign",
		},
		{
			name:    "bad coalition",
			mutate:  func(s string) string { return strings.Replace(s, "coalition: blue", "coalition: green", 1) },
			wantErr: "coalition",
		},
		{
			name:    "missing frequency",
			mutate:  func(s string) string { return strings.Replace(s, "frequency: 251000000", "frequency: 0", 1) },
			wantErr: "frequency",
		},
		{
			name:    "missing api key",
			mutate:  func(s string) string { return strings.Replace(s, "api_key: sk-test", "api_key: \"\"", 1) },
			wantErr: "api_key",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.mutate(validConfig)))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestCoalition(t *testing.T) {
	if got := CoalitionBlue.Flip(); got != CoalitionRed {
		t.Errorf("blue.Flip() = %q", got)
	}
	if got := CoalitionRed.Flip(); got != CoalitionBlue {
		t.Errorf("red.Flip() = %q", got)
	}
	if got := CoalitionBlue.TacviewName(); got != "Enemies" {
		t.Errorf("blue.TacviewName() = %q, want Enemies", got)
	}
	if got := CoalitionRed.TacviewName(); got != "Allies" {
		t.Errorf("red.TacviewName() = %q, want Allies", got)
	}
	if got := CoalitionBlue.SRSID(); got != 2 {
		t.Errorf("blue.SRSID() = %d, want 2", got)
	}
	if got := CoalitionRed.SRSID(); got != 1 {
		t.Errorf("red.SRSID() = %d, want 1", got)
	}
}

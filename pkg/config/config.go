// Package config loads and validates the bot's YAML configuration.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Coalition is the side the bot plays for.
type Coalition string

const (
	CoalitionBlue Coalition = "blue"
	CoalitionRed  Coalition = "red"
)

// Flip returns the opposing coalition.
func (c Coalition) Flip() Coalition {
	if c == CoalitionBlue {
		return CoalitionRed
	}
	return CoalitionBlue
}

// TacviewName returns the coalition label DCS exports in ACMI streams.
// The labels are swapped relative to intuition: blue objects carry
// "Enemies" and red objects carry "Allies".
func (c Coalition) TacviewName() string {
	if c == CoalitionBlue {
		return "Enemies"
	}
	return "Allies"
}

// SRSID returns the coalition id used in SRS control messages.
func (c Coalition) SRSID() int {
	if c == CoalitionBlue {
		return 2
	}
	return 1
}

func (c Coalition) validate() error {
	switch c {
	case CoalitionBlue, CoalitionRed:
		return nil
	default:
		return fmt.Errorf("unknown coalition %q, want %q or %q", c, CoalitionBlue, CoalitionRed)
	}
}

// CommonConfig identifies the controller.
type CommonConfig struct {
	// Callsign the bot answers to on the radio.
	Callsign string `yaml:"callsign"`

	// Coalition the bot serves.
	Coalition Coalition `yaml:"coalition"`
}

// TacviewConfig locates the Tacview real-time telemetry export.
type TacviewConfig struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`

	// Username announced in the telemetry handshake.
	Username string `yaml:"username"`

	// Password for the telemetry export, if the server sets one.
	Password string `yaml:"password,omitempty"`
}

// Address returns the host:port dial target.
func (c TacviewConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// SRSConfig locates the SimpleRadio-Standalone server.
type SRSConfig struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`

	// Username shown in the SRS client list.
	Username string `yaml:"username"`

	// Frequency in Hz the bot guards, e.g. 251000000 for 251.0 MHz AM.
	Frequency uint64 `yaml:"frequency"`
}

// Address returns the host:port dial target, shared by TCP and UDP.
func (c SRSConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// OpenAIConfig carries the speech service credentials and voice settings.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`

	// SpeechVoice is the synthesis voice name, e.g. "onyx".
	SpeechVoice string `yaml:"speech_voice"`

	// SpeechSpeed is the synthesis speed multiplier. Defaults to 1.
	SpeechSpeed float64 `yaml:"speech_speed,omitempty"`
}

// Config is the root of the configuration file.
type Config struct {
	Common  CommonConfig  `yaml:"common"`
	Tacview TacviewConfig `yaml:"tacview"`
	SRS     SRSConfig     `yaml:"srs"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config file %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Common.Callsign == "" {
		return fmt.Errorf("common.callsign is required")
	}
	if err := c.Common.Coalition.validate(); err != nil {
		return fmt.Errorf("common.coalition: %w", err)
	}
	if c.Tacview.Host == "" || c.Tacview.Port == 0 {
		return fmt.Errorf("tacview.host and tacview.port are required")
	}
	if c.SRS.Host == "" || c.SRS.Port == 0 {
		return fmt.Errorf("srs.host and srs.port are required")
	}
	if c.SRS.Frequency == 0 {
		return fmt.Errorf("srs.frequency is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	if c.OpenAI.SpeechVoice == "" {
		return fmt.Errorf("openai.speech_voice is required")
	}
	if c.OpenAI.SpeechSpeed == 0 {
		c.OpenAI.SpeechSpeed = 1
	}
	return nil
}

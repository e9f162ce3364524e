package domain

import (
	"fmt"
	"strings"
	"time"
)

// AvailabilityStrategy selects how the availability check probes for the tool.
type AvailabilityStrategy string

const (
	// AvailabilityLocator runs full discovery over every candidate.
	AvailabilityLocator AvailabilityStrategy = "locator"
	// AvailabilityBare probes only the bare command name through PATH.
	AvailabilityBare AvailabilityStrategy = "bare"
)

// ValidAvailabilityStrategies enumerates all recognized strategies.
var ValidAvailabilityStrategies = []AvailabilityStrategy{
	AvailabilityLocator,
	AvailabilityBare,
}

// BridgeConfig holds everything the bridge reads from its config file.
type BridgeConfig struct {
	Tool   ToolConfig   `mapstructure:"tool"   yaml:"tool"   json:"tool"`
	Invoke InvokeConfig `mapstructure:"invoke" yaml:"invoke" json:"invoke"`
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
	Doctor DoctorConfig `mapstructure:"doctor" yaml:"doctor" json:"doctor"`
}

// ToolConfig describes where to look for the scanner and how to health-check it.
type ToolConfig struct {
	Name         string               `mapstructure:"name"         yaml:"name"         json:"name"`
	HomeBin      string               `mapstructure:"home_bin"     yaml:"home_bin"     json:"home_bin"`
	SystemDirs   []string             `mapstructure:"system_dirs"  yaml:"system_dirs"  json:"system_dirs"`
	ExtraPaths   []string             `mapstructure:"extra_paths"  yaml:"extra_paths"  json:"extra_paths,omitempty"`
	VersionFlag  string               `mapstructure:"version_flag" yaml:"version_flag" json:"version_flag"`
	Availability AvailabilityStrategy `mapstructure:"availability" yaml:"availability" json:"availability"`
}

// InvokeConfig controls the scan subprocess.
type InvokeConfig struct {
	Subcommand string        `mapstructure:"subcommand" yaml:"subcommand" json:"subcommand"`
	Timeout    time.Duration `mapstructure:"timeout"    yaml:"timeout"    json:"timeout"`
}

// ServerConfig controls the local HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`
}

// DoctorConfig controls candidate diagnostics.
type DoctorConfig struct {
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism" json:"parallelism"`
}

// DefaultConfig returns the discovery order and invocation template the
// desktop shells have always used.
func DefaultConfig() BridgeConfig {
	return BridgeConfig{
		Tool: ToolConfig{
			Name:         "ohmybug",
			HomeBin:      "bin",
			SystemDirs:   []string{"/usr/local/bin", "/opt/homebrew/bin"},
			VersionFlag:  "--version",
			Availability: AvailabilityLocator,
		},
		Invoke: InvokeConfig{
			Subcommand: "check",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7423",
		},
		Doctor: DoctorConfig{
			Parallelism: 4,
		},
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c BridgeConfig) Validate() error {
	// 1. tool name must be a bare command name
	if strings.TrimSpace(c.Tool.Name) == "" {
		return fmt.Errorf("tool.name must not be empty")
	}
	if strings.ContainsAny(c.Tool.Name, `/\`) {
		return fmt.Errorf("tool.name %q must be a command name, not a path (use tool.extra_paths)", c.Tool.Name)
	}

	// 2. version flag and subcommand are required by the invocation contract
	if c.Tool.VersionFlag == "" {
		return fmt.Errorf("tool.version_flag must not be empty")
	}
	if c.Invoke.Subcommand == "" {
		return fmt.Errorf("invoke.subcommand must not be empty")
	}

	// 3. availability strategy must be known
	valid := false
	for _, s := range ValidAvailabilityStrategies {
		if c.Tool.Availability == s {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown tool.availability %q (valid: locator, bare)", c.Tool.Availability)
	}

	// 4. timeout of zero means none; negative is a typo
	if c.Invoke.Timeout < 0 {
		return fmt.Errorf("invoke.timeout must not be negative (got %s)", c.Invoke.Timeout)
	}

	// 5. doctor needs at least one worker
	if c.Doctor.Parallelism < 1 {
		return fmt.Errorf("doctor.parallelism must be >= 1 (got %d)", c.Doctor.Parallelism)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	return nil
}

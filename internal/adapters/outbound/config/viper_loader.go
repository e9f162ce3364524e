package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

const (
	// DefaultConfigDir holds config.yaml unless --config points elsewhere.
	DefaultConfigDir = "~/.config/ohmybug-bridge"
	envPrefix        = "OHMYBUG_BRIDGE"
)

// Loader reads the bridge configuration with viper: defaults, then the
// optional config file, then OHMYBUG_BRIDGE_* environment variables.
type Loader struct {
	homeDir func() (string, error)
}

// New creates a Loader.
func New() *Loader { return &Loader{homeDir: os.UserHomeDir} }

// Load reads configuration from cfgFile, or from the default location when
// cfgFile is empty. A missing default file is not an error; a missing
// explicit file is.
func (l *Loader) Load(cfgFile string) (domain.BridgeConfig, error) {
	v := viper.New()
	setDefaults(v, domain.DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(l.expandPath(cfgFile))
	} else {
		v.AddConfigPath(l.expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return domain.BridgeConfig{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg domain.BridgeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return domain.BridgeConfig{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.BridgeConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d domain.BridgeConfig) {
	v.SetDefault("tool.name", d.Tool.Name)
	v.SetDefault("tool.home_bin", d.Tool.HomeBin)
	v.SetDefault("tool.system_dirs", d.Tool.SystemDirs)
	v.SetDefault("tool.extra_paths", []string{})
	v.SetDefault("tool.version_flag", d.Tool.VersionFlag)
	v.SetDefault("tool.availability", string(d.Tool.Availability))
	v.SetDefault("invoke.subcommand", d.Invoke.Subcommand)
	v.SetDefault("invoke.timeout", d.Invoke.Timeout)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("doctor.parallelism", d.Doctor.Parallelism)
}

// expandPath replaces a leading ~ with the user's home directory.
func (l *Loader) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := l.homeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// yamlConfig mirrors domain.BridgeConfig with the timeout spelled as a
// duration string, so the dump can be read back by Load.
type yamlConfig struct {
	Tool   domain.ToolConfig `yaml:"tool"`
	Invoke struct {
		Subcommand string `yaml:"subcommand"`
		Timeout    string `yaml:"timeout"`
	} `yaml:"invoke"`
	Server domain.ServerConfig `yaml:"server"`
	Doctor domain.DoctorConfig `yaml:"doctor"`
}

// Marshal renders cfg as YAML in the same shape Load reads.
func Marshal(cfg domain.BridgeConfig) ([]byte, error) {
	out := yamlConfig{Tool: cfg.Tool, Server: cfg.Server, Doctor: cfg.Doctor}
	out.Invoke.Subcommand = cfg.Invoke.Subcommand
	out.Invoke.Timeout = cfg.Invoke.Timeout.String()
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

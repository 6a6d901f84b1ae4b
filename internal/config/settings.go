package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Setting keys, shared by flags, viper and the YAMORI_* environment.
const (
	KeyConfigPath   = "yamori-config"
	KeyCLIMode      = "cli"
	KeyLogLevel     = "log-level"
	KeyLogFile      = "log-file"
	KeyHistorySize  = "history-size"
	KeyBuildTimeout = "build-timeout"
	KeyASCII        = "ascii"
)

const (
	// EnvPrefix prefixes every environment variable yamori reads.
	EnvPrefix = "YAMORI"
	// EnvConfigPath overrides --yamori-config when set.
	EnvConfigPath = "YAMORI_CONFIG"

	DefaultConfigPath  = "tests/configs/tests.toml"
	DefaultHistorySize = 50
)

var settingKeys = []string{KeyCLIMode, KeyLogLevel, KeyLogFile, KeyHistorySize, KeyBuildTimeout, KeyASCII}

// Settings are the resolved runtime options for one invocation.
type Settings struct {
	ConfigPath   string
	CLIMode      bool
	LogLevel     string
	LogFile      string
	HistorySize  int
	BuildTimeout time.Duration
	ASCII        bool
}

// RegisterFlags adds yamori's persistent flags to cmd.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP(KeyConfigPath, "y", DefaultConfigPath, "Path to the test configuration (.toml, .yaml, .yml); "+EnvConfigPath+" takes precedence")
	flags.BoolP(KeyCLIMode, "c", false, "Run in CLI mode and print a summary instead of the dashboard")
	flags.String(KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String(KeyLogFile, "", "Write logs to file instead of stderr")
	flags.Int(KeyHistorySize, DefaultHistorySize, "Number of runs retained per test")
	flags.Duration(KeyBuildTimeout, 0, "Timeout for each pre-build command (0 uses the test timeout)")
	flags.Bool(KeyASCII, false, "Use ASCII status symbols in the dashboard")
}

// BindFlags binds the persistent flags registered by RegisterFlags into v.
func BindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, key := range append([]string{KeyConfigPath}, settingKeys...) {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(key)); err != nil {
			return fmt.Errorf("binding %s flag: %w", key, err)
		}
	}
	return nil
}

// EnvName returns the environment variable for a setting key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// loadDotEnv parses a .env file in dir. A missing file is not an error.
func loadDotEnv(dir string) (map[string]string, error) {
	envPath := filepath.Join(dir, ".env")
	data, err := os.ReadFile(envPath)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read .env file %s: %w", envPath, err)
	}
	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse .env file %s: %w", envPath, err)
	}
	return envMap, nil
}

// Resolve computes the effective settings.
//
// Precedence for every setting is flag > environment > .env file > default,
// except the configuration path where YAMORI_CONFIG (environment, then .env)
// beats the --yamori-config flag.
func Resolve(v *viper.Viper, workDir string) (*Settings, error) {
	dotenv, err := loadDotEnv(workDir)
	if err != nil {
		return nil, err
	}

	v.SetDefault(KeyConfigPath, DefaultConfigPath)
	v.SetDefault(KeyHistorySize, DefaultHistorySize)
	v.SetDefault(KeyBuildTimeout, time.Duration(0))
	for _, key := range settingKeys {
		if val, ok := dotenv[EnvName(key)]; ok {
			v.SetDefault(key, val)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range settingKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	s := &Settings{
		ConfigPath:   v.GetString(KeyConfigPath),
		CLIMode:      v.GetBool(KeyCLIMode),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFile:      v.GetString(KeyLogFile),
		HistorySize:  v.GetInt(KeyHistorySize),
		BuildTimeout: v.GetDuration(KeyBuildTimeout),
		ASCII:        v.GetBool(KeyASCII),
	}

	if p := os.Getenv(EnvConfigPath); p != "" {
		s.ConfigPath = p
	} else if p := dotenv[EnvConfigPath]; p != "" {
		s.ConfigPath = p
	}

	if s.HistorySize < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", KeyHistorySize, s.HistorySize)
	}
	if s.BuildTimeout < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %s", KeyBuildTimeout, s.BuildTimeout)
	}
	return s, nil
}

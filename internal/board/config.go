package board

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/kanban/internal/kv"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	BoardDir string `json:"board_dir"`
	Backend  string `json:"backend,omitempty"`
	WIPLimit int    `json:"wip_limit,omitempty"`
	LogLevel string `json:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	BoardDirAbs  string `json:"-"` // Absolute path to board directory
	LogFileAbs   string `json:"-"` // Absolute log path, empty when logging is off

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Rules returns the transition rules for this configuration.
func (c Config) Rules() Rules {
	return Rules{MaxInProgress: c.WIPLimit}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BoardDir: ".kanban",
		Backend:  kv.BackendFile,
		WIPLimit: DefaultWIPLimit,
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".kb.json"

// defaultLogName is the log file inside the board directory.
const defaultLogName = "kb.log"

var logLevels = []string{"", "debug", "info", "warn", "error"}

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/kb/config.json if set, otherwise ~/.config/kb/config.json.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "kb", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "kb", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride  string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath       string            // -c/--config flag value
	BoardDirOverride string            // --board-dir flag value; empty means no override
	BackendOverride  string            // --backend flag value; empty means no override
	Env              map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/kb/config.json or $XDG_CONFIG_HOME/kb/config.json)
// 3. Project config file at default location (.kb.json, if exists)
// 4. Explicit config file via ConfigPath (replaces 3)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if input.BoardDirOverride != "" {
		cfg.BoardDir = input.BoardDirOverride
	}

	if input.BackendOverride != "" {
		cfg.Backend = input.BackendOverride
	}

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir
	cfg.BoardDirAbs = resolve(workDir, cfg.BoardDir)

	if cfg.LogLevel != "" {
		cfg.LogFileAbs = filepath.Join(cfg.BoardDirAbs, defaultLogName)
		if cfg.LogFile != "" {
			cfg.LogFileAbs = resolve(workDir, cfg.LogFile)
		}
	}

	return cfg, nil
}

// FormatConfig renders the serialized part of cfg as indented JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}

	return string(data), nil
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, explicitEmpty, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["board_dir"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, globalCfgPath, ErrBoardDirEmpty)
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.kb.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = resolve(workDir, configPath)
		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
	}

	fileCfg, explicitEmpty, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["board_dir"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, cfgFile, ErrBoardDirEmpty)
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files return zero config.
// Returns the config, a map of explicitly empty fields, whether file was loaded, and any error.
func loadConfigFile(path string, mustExist bool) (Config, map[string]bool, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, nil, false, nil
		}

		if mustExist {
			return Config{}, nil, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, nil, false, nil
	}

	cfg, explicitEmpty, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, nil, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, explicitEmpty, true, nil
}

func parseConfig(data []byte) (Config, map[string]bool, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	// Check which fields were explicitly set to empty
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	if val, exists := raw["board_dir"]; exists {
		if str, ok := val.(string); ok && str == "" {
			explicitEmpty["board_dir"] = true
		}
	}

	if val, exists := raw["wip_limit"]; exists {
		if num, ok := val.(float64); ok && num < 1 {
			explicitEmpty["wip_limit"] = true
		}
	}

	if explicitEmpty["wip_limit"] {
		return Config{}, nil, ErrInvalidWIPLimit
	}

	return cfg, explicitEmpty, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.BoardDir != "" {
		base.BoardDir = overlay.BoardDir
	}

	if overlay.Backend != "" {
		base.Backend = overlay.Backend
	}

	if overlay.WIPLimit != 0 {
		base.WIPLimit = overlay.WIPLimit
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.LogFile != "" {
		base.LogFile = overlay.LogFile
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.BoardDir == "" {
		return ErrBoardDirEmpty
	}

	if !slices.Contains(kv.Backends, cfg.Backend) {
		return fmt.Errorf("%w: %q (must be file|sqlite|badger|memory)", ErrUnknownBackend, cfg.Backend)
	}

	if cfg.WIPLimit < 1 {
		return ErrInvalidWIPLimit
	}

	if !slices.Contains(logLevels, cfg.LogLevel) {
		return fmt.Errorf("%w: %q (must be debug|info|warn|error)", ErrInvalidLogLevel, cfg.LogLevel)
	}

	return nil
}

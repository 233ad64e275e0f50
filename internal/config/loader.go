package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Z_][A-Z0-9_]*)`)

// Load reads and parses a configuration file from the given path.
// It applies default values and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from YAML data. It applies default values and
// validates the configuration. Supports environment variable substitution
// with ${VAR_NAME} or $VAR_NAME syntax.
func Parse(data []byte) (*Config, error) {
	data = substituteEnvVars(data)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} and $VAR_NAME patterns with
// environment variable values.
func substituteEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		matchStr := string(match)
		var varName string
		if strings.HasPrefix(matchStr, "${") {
			varName = matchStr[2 : len(matchStr)-1]
		} else {
			varName = matchStr[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return []byte(value)
		}

		// Leave unknown variables untouched so validation can flag them
		return match
	})
}

// applyDefaults ensures all required fields have sensible default values.
func applyDefaults(cfg *Config) {
	defaults := Defaults()

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = defaults.Output.Path
	}
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = defaults.Server.HTTPPort
	}
}

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	var errors []string

	validLevels := map[string]bool{"debug": true, "info": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errors = append(errors, fmt.Sprintf("invalid log level: %s (must be debug, info, warning, or error)", cfg.Logging.Level))
	}

	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		errors = append(errors, fmt.Sprintf("invalid http_port: %d (must be 1-65535)", cfg.Server.HTTPPort))
	}

	if cfg.FlowLog.DstPortField != nil && *cfg.FlowLog.DstPortField < 0 {
		errors = append(errors, fmt.Sprintf("invalid dstport_field: %d (must be >= 0)", *cfg.FlowLog.DstPortField))
	}
	if cfg.FlowLog.ProtocolField != nil && *cfg.FlowLog.ProtocolField < 0 {
		errors = append(errors, fmt.Sprintf("invalid protocol_field: %d (must be >= 0)", *cfg.FlowLog.ProtocolField))
	}
	layout := cfg.FlowLog.Layout()
	if layout.DstPortField == layout.ProtocolField {
		errors = append(errors, fmt.Sprintf("dstport_field and protocol_field must differ (both %d)", layout.DstPortField))
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Package config provides configuration structures and loading functionality
// for flowtag. The config file is optional; every field has a default.
package config

import "github.com/grushad/flowtag/internal/flowlog"

// Config represents the complete application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	FlowLog FlowLogConfig `yaml:"flowlog"`
}

// LoggingConfig contains logging-related configuration.
type LoggingConfig struct {
	// Level is the log level: debug, info, warning, error (default: info)
	Level string `yaml:"level"`
}

// OutputConfig contains output-related configuration.
type OutputConfig struct {
	// Path is the output CSV file (default: output.csv); the --output flag
	// overrides it
	Path string `yaml:"path"`
}

// ServerConfig contains the results API server configuration.
type ServerConfig struct {
	// Enabled starts the results API after processing (default: false);
	// the --serve flag overrides it
	Enabled bool `yaml:"enabled"`
	// HTTPPort is the port for the results API (default: 8080)
	HTTPPort int `yaml:"http_port"`
}

// FlowLogConfig contains the flow log field layout configuration, for logs
// that deviate from the default VPC version 2 format. Indexes are
// zero-based field positions in a whitespace-delimited line.
type FlowLogConfig struct {
	// DstPortField is the index of the destination port field (default: 6)
	DstPortField *int `yaml:"dstport_field,omitempty"`
	// ProtocolField is the index of the protocol number field (default: 7)
	ProtocolField *int `yaml:"protocol_field,omitempty"`
}

// Layout returns the configured flow log field layout, falling back to the
// default VPC version 2 positions for unset fields.
func (f *FlowLogConfig) Layout() flowlog.Layout {
	layout := flowlog.DefaultLayout()
	if f.DstPortField != nil {
		layout.DstPortField = *f.DstPortField
	}
	if f.ProtocolField != nil {
		layout.ProtocolField = *f.ProtocolField
	}
	return layout
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Path: "output.csv",
		},
		Server: ServerConfig{
			Enabled:  false,
			HTTPPort: 8080,
		},
	}
}

package config

import (
	"os"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Output.Path != "output.csv" {
		t.Errorf("expected output path 'output.csv', got '%s'", cfg.Output.Path)
	}
	if cfg.Server.Enabled {
		t.Error("expected server disabled by default")
	}
	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("expected HTTPPort 8080, got %d", cfg.Server.HTTPPort)
	}
}

func TestDefaultLayout(t *testing.T) {
	cfg := Defaults()
	layout := cfg.FlowLog.Layout()

	if layout.DstPortField != 6 {
		t.Errorf("expected dstport field 6, got %d", layout.DstPortField)
	}
	if layout.ProtocolField != 7 {
		t.Errorf("expected protocol field 7, got %d", layout.ProtocolField)
	}
}

func TestParseValidConfig(t *testing.T) {
	yaml := `
logging:
  level: debug
output:
  path: /tmp/tags.csv
server:
  enabled: true
  http_port: 9090
flowlog:
  dstport_field: 3
  protocol_field: 4
`

	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
	if cfg.Output.Path != "/tmp/tags.csv" {
		t.Errorf("expected output path '/tmp/tags.csv', got '%s'", cfg.Output.Path)
	}
	if !cfg.Server.Enabled {
		t.Error("expected server enabled")
	}
	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("expected HTTPPort 9090, got %d", cfg.Server.HTTPPort)
	}

	layout := cfg.FlowLog.Layout()
	if layout.DstPortField != 3 || layout.ProtocolField != 4 {
		t.Errorf("unexpected layout: %+v", layout)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("logging:\n  level: warning\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Logging.Level != "warning" {
		t.Errorf("expected log level 'warning', got '%s'", cfg.Logging.Level)
	}
	if cfg.Output.Path != "output.csv" {
		t.Errorf("expected default output path, got '%s'", cfg.Output.Path)
	}
	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("expected default HTTPPort, got %d", cfg.Server.HTTPPort)
	}
}

func TestParseInvalidLevel(t *testing.T) {
	_, err := Parse([]byte("logging:\n  level: verbose\n"))
	if err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestParseInvalidPort(t *testing.T) {
	_, err := Parse([]byte("server:\n  http_port: 70000\n"))
	if err == nil {
		t.Error("expected error for invalid port")
	}
}

func TestParseCollidingFields(t *testing.T) {
	yaml := `
flowlog:
  dstport_field: 7
`
	// dstport_field 7 collides with the default protocol field 7
	if _, err := Parse([]byte(yaml)); err == nil {
		t.Error("expected error for colliding field indexes")
	}
}

func TestParseNegativeField(t *testing.T) {
	if _, err := Parse([]byte("flowlog:\n  dstport_field: -1\n")); err == nil {
		t.Error("expected error for negative field index")
	}
}

func TestEnvVarSubstitution(t *testing.T) {
	os.Setenv("FLOWTAG_TEST_OUT", "/tmp/env.csv")
	defer os.Unsetenv("FLOWTAG_TEST_OUT")

	cfg, err := Parse([]byte("output:\n  path: ${FLOWTAG_TEST_OUT}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Path != "/tmp/env.csv" {
		t.Errorf("expected substituted path, got '%s'", cfg.Output.Path)
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("output: [not a mapping"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/flowtag.yml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

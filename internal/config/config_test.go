package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, OutputText, cfg.Output)
	require.Empty(t, cfg.InitFlags)
	require.False(t, cfg.Debug)
	require.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "text output", cfg: Config{Output: OutputText}},
		{name: "yaml output", cfg: Config{Output: OutputYAML}},
		{name: "json output", cfg: Config{Output: OutputJSON}},
		{name: "unknown output", cfg: Config{Output: "xml"}, wantErr: `output: must be "text", "yaml" or "json", got "xml"`},
		{name: "empty output", cfg: Config{}, wantErr: "output: must be"},
		{
			name:    "blank token",
			cfg:     Config{Output: OutputText, InitFlags: []string{"gd_core=true", "  "}},
			wantErr: "init_flags 1: token is empty",
		},
		{
			name: "garbage token is allowed",
			cfg:  Config{Output: OutputText, InitFlags: []string{"not a flag"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTokens_ConfigBeforeArgs(t *testing.T) {
	cfg := Config{InitFlags: []string{"gd_hci=true", "btaa_hci=true"}}
	tokens := Tokens(cfg, []string{"gd_hci=false"})
	require.Equal(t, []string{"gd_hci=true", "btaa_hci=true", "gd_hci=false"}, tokens)
}

func TestTokens_Empty(t *testing.T) {
	require.Empty(t, Tokens(Config{}, nil))
}

func TestLoad_FromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `init_flags:
  - INIT_gd_core=true
  - logging_debug_enabled_for_tags=foo,bar
output: yaml
debug: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	cfg, used, err := Load(viper.New(), configPath)
	require.NoError(t, err)
	require.Equal(t, configPath, used)
	require.Equal(t, []string{"INIT_gd_core=true", "logging_debug_enabled_for_tags=foo,bar"}, cfg.InitFlags)
	require.Equal(t, OutputYAML, cfg.Output)
	require.True(t, cfg.Debug)
}

func TestLoad_DefaultTemplateParses(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	cfg, _, err := Load(viper.New(), configPath)
	require.NoError(t, err)
	require.Empty(t, cfg.InitFlags)
	require.Equal(t, OutputText, cfg.Output)
	require.NoError(t, Validate(cfg))
}

func TestLoad_EnvOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output: text\n"), 0o600))
	t.Setenv("INITFLAGS_OUTPUT", "json")

	cfg, _, err := Load(viper.New(), configPath)
	require.NoError(t, err)
	require.Equal(t, OutputJSON, cfg.Output)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("init_flags: [unclosed\n"), 0o600))

	_, _, err := Load(viper.New(), configPath)
	require.Error(t, err)
}

func TestWriteDefaultConfig_CreatesParentDir(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

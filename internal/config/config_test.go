package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	tmpFile := writeConfig(t, `{
		"first_name": "Camille",
		"last_name": "Martin",
		"tone": "modern",
		"years_experience": 4.5,
		"use_browser": true,
		"verbose": true,
		"port": 9090
	}`)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Camille", cfg.FirstName)
	assert.Equal(t, "Martin", cfg.LastName)
	assert.Equal(t, "modern", cfg.Tone)
	require.NotNil(t, cfg.YearsExperience)
	assert.InDelta(t, 4.5, *cfg.YearsExperience, 1e-9)
	assert.True(t, cfg.UseBrowser)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadConfig_RelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "planmyjob.json"), []byte(`{"tone": "startup"}`), 0644))
	t.Chdir(dir)

	cfg, err := LoadConfig("planmyjob.json")
	require.NoError(t, err)
	assert.Equal(t, "startup", cfg.Tone)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"empty path", "", "config path is empty"},
		{"file not found", "/nonexistent/path/config.json", "failed to read config file"},
		{"invalid JSON", writeConfig(t, `{ invalid json }`), "failed to parse config JSON"},
		{"wrong type", writeConfig(t, `{"port": "huit mille"}`), "failed to parse config JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	templates := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(templates, []byte(`{}`), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty", Config{}, ""},
		{"valid", Config{Tone: "Classic", YearsExperience: floatPtr(3), Port: 8080, Templates: templates}, ""},
		{"bad tone", Config{Tone: "formal"}, "'tone' must be one of"},
		{"negative years", Config{YearsExperience: floatPtr(-1)}, "'years_experience' must be non-negative"},
		{"negative port", Config{Port: -1}, "'port' must be between"},
		{"port too large", Config{Port: 70000}, "'port' must be between"},
		{"missing templates", Config{Templates: "/nonexistent/templates.json"}, "templates file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSignatureName(t *testing.T) {
	assert.Equal(t, "Camille Martin", (&Config{FirstName: "Camille", LastName: "Martin"}).SignatureName())
	assert.Equal(t, "Camille", (&Config{FirstName: "Camille"}).SignatureName())
	assert.Equal(t, "Martin", (&Config{LastName: "Martin"}).SignatureName())
	assert.Equal(t, "", (&Config{}).SignatureName())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		FirstName: "Camille",
		Tone:      "startup",
	}

	defaults := Config{
		FirstName:       "Default",
		LastName:        "Martin",
		Tone:            "classic",
		Templates:       "templates.json",
		YearsExperience: floatPtr(2),
		Port:            8080,
	}

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "Camille", result.FirstName) // Kept
	assert.Equal(t, "startup", result.Tone)      // Kept
	assert.Equal(t, "Martin", result.LastName)   // Merged
	assert.Equal(t, "templates.json", result.Templates)
	require.NotNil(t, result.YearsExperience)
	assert.InDelta(t, 2.0, *result.YearsExperience, 1e-9)
	assert.Equal(t, 8080, result.Port)

	// The receiver is not modified.
	assert.Empty(t, cfg.LastName)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{FirstName: "Camille", YearsExperience: floatPtr(0), Port: 9000}

	result := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "Camille", result.FirstName)
	require.NotNil(t, result.YearsExperience)
	assert.Zero(t, *result.YearsExperience)
	assert.Equal(t, 9000, result.Port)
}

func TestNewServerConfig(t *testing.T) {
	t.Setenv("PLANMYJOB_PORT", "")
	t.Setenv("PLANMYJOB_CORS_ORIGIN", "")

	cfg, err := NewServerConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, ":8080", cfg.Addr())

	t.Setenv("PLANMYJOB_PORT", "3000")
	t.Setenv("PLANMYJOB_CORS_ORIGIN", "https://app.planmyjob.fr")
	cfg, err = NewServerConfig()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "https://app.planmyjob.fr", cfg.CORSOrigin)
}

func TestNewServerConfig_Invalid(t *testing.T) {
	for _, port := range []string{"abc", "0", "70000"} {
		t.Run(port, func(t *testing.T) {
			t.Setenv("PLANMYJOB_PORT", port)
			_, err := NewServerConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "PLANMYJOB_PORT")
		})
	}
}

package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
name: "The Guardian"
provider: "guardian"

settings:
  enabled: true
  refresh_interval: 1800
  page_size: 25
  timeout: 15
  language: "en"
  extract_content: true

options:
  api_key_env: "GUARDIAN_API_KEY"
  section: "technology"
`

	err := os.WriteFile(filepath.Join(tempDir, "guardian.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 config, got %d", configCache.GetConfigCount())
	}

	config, err := configCache.GetConfig("guardian")
	if err != nil {
		t.Fatal(err)
	}

	if config.Slug != "guardian" {
		t.Errorf("Expected slug 'guardian', got '%s'", config.Slug)
	}
	if config.Name != "The Guardian" {
		t.Errorf("Expected name 'The Guardian', got '%s'", config.Name)
	}
	if config.Provider != "guardian" {
		t.Errorf("Expected provider 'guardian', got '%s'", config.Provider)
	}
	if !config.Settings.Enabled {
		t.Error("Expected source to be enabled")
	}
	if config.Settings.RefreshInterval != 1800 {
		t.Errorf("Expected refresh interval 1800, got %d", config.Settings.RefreshInterval)
	}
	if config.Settings.PageSize != 25 {
		t.Errorf("Expected page size 25, got %d", config.Settings.PageSize)
	}
	if !config.Settings.ExtractContent {
		t.Error("Expected extract_content to be true")
	}
	if config.Options.APIKeyEnv != "GUARDIAN_API_KEY" {
		t.Errorf("Expected api_key_env 'GUARDIAN_API_KEY', got '%s'", config.Options.APIKeyEnv)
	}
	if config.Options.Section != "technology" {
		t.Errorf("Expected section 'technology', got '%s'", config.Options.Section)
	}
}

func TestConfigCacheAppliesDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
name: "Minimal Source"
provider: "newsapi"
`

	err := os.WriteFile(filepath.Join(tempDir, "minimal.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	config, err := configCache.GetConfig("minimal")
	if err != nil {
		t.Fatal(err)
	}

	if config.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", config.Settings.RefreshInterval)
	}
	if config.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", config.Settings.Timeout)
	}
	if config.Settings.PageSize != 50 {
		t.Errorf("Expected default page size 50, got %d", config.Settings.PageSize)
	}
	if config.Settings.Enabled {
		t.Error("Expected source to be disabled by default")
	}
}

func TestConfigCacheMissingRequiredFields(t *testing.T) {
	tempDir := t.TempDir()

	content := `
settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "broken.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	err = configCache.Run()
	if err == nil {
		t.Fatal("Expected error for config without name and provider")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("Expected 'required' in error, got: %v", err)
	}
}

func TestConfigCacheRSSRequiresFeedURL(t *testing.T) {
	tempDir := t.TempDir()

	content := `
name: "Some Feed"
provider: "rss"
`

	err := os.WriteFile(filepath.Join(tempDir, "somefeed.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	err = configCache.Run()
	if err == nil {
		t.Fatal("Expected error for rss source without feed_url")
	}
	if !strings.Contains(err.Error(), "feed_url") {
		t.Errorf("Expected 'feed_url' in error, got: %v", err)
	}
}

func TestConfigCacheGetEnabledConfigs(t *testing.T) {
	tempDir := t.TempDir()

	enabled := `
name: "Enabled Source"
provider: "newsapi"
settings:
  enabled: true
`
	disabled := `
name: "Disabled Source"
provider: "newsapi"
settings:
  enabled: false
`

	if err := os.WriteFile(filepath.Join(tempDir, "enabled.yml"), []byte(enabled), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "disabled.yml"), []byte(disabled), 0644); err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 2 {
		t.Errorf("Expected 2 configs, got %d", configCache.GetConfigCount())
	}

	enabledConfigs := configCache.GetEnabledConfigs()
	if len(enabledConfigs) != 1 {
		t.Fatalf("Expected 1 enabled config, got %d", len(enabledConfigs))
	}
	if _, ok := enabledConfigs["enabled"]; !ok {
		t.Error("Expected 'enabled' source in enabled configs")
	}
}

func TestConfigCacheMissingDirectory(t *testing.T) {
	configCache := NewConfigCache("/nonexistent/path")
	if err := configCache.Run(); err != nil {
		t.Errorf("Missing sources directory should not be an error, got: %v", err)
	}
	if configCache.GetConfigCount() != 0 {
		t.Errorf("Expected 0 configs, got %d", configCache.GetConfigCount())
	}
}

package fetcher

import (
	"net/http"
	"strings"
	"testing"

	"github.com/newsfold/newsfold/app/sources"
)

func TestNewUnknownProvider(t *testing.T) {
	config := &sources.Config{
		Slug:     "mystery",
		Name:     "Mystery Source",
		Provider: "telegraph",
	}

	_, err := New(config, http.DefaultClient, "test-agent")
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "telegraph") {
		t.Errorf("Expected provider name in error, got: %v", err)
	}
}

func TestNewRSSFetcher(t *testing.T) {
	config := &sources.Config{
		Slug:     "somefeed",
		Name:     "Some Feed",
		Provider: "rss",
		Options:  sources.ProviderOptions{FeedURL: "https://example.com/feed.xml"},
	}

	f, err := New(config, http.DefaultClient, "test-agent")
	if err != nil {
		t.Fatal(err)
	}
	if f.Provider() != "rss" {
		t.Errorf("Expected provider 'rss', got '%s'", f.Provider())
	}
}

func TestAPIKeyResolution(t *testing.T) {
	config := &sources.Config{
		Slug:    "guardian",
		Options: sources.ProviderOptions{APIKeyEnv: "TEST_GUARDIAN_KEY"},
	}

	key, err := apiKey(config, func(name string) string {
		if name == "TEST_GUARDIAN_KEY" {
			return "secret"
		}
		return ""
	})
	if err != nil {
		t.Fatal(err)
	}
	if key != "secret" {
		t.Errorf("Expected key 'secret', got '%s'", key)
	}
}

func TestAPIKeyMissingEnvVar(t *testing.T) {
	config := &sources.Config{
		Slug:    "guardian",
		Options: sources.ProviderOptions{APIKeyEnv: "UNSET_KEY"},
	}

	_, err := apiKey(config, func(string) string { return "" })
	if err == nil {
		t.Fatal("Expected error for empty environment variable")
	}
}

func TestAPIKeyUnconfigured(t *testing.T) {
	config := &sources.Config{Slug: "guardian"}

	_, err := apiKey(config, func(string) string { return "ignored" })
	if err == nil {
		t.Fatal("Expected error when api_key_env is not configured")
	}
}

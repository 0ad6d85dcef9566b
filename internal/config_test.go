package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/suppai/internal/apiclient"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestDefaultConfigReadsOriginEnv(t *testing.T) {
	t.Setenv(OriginEnv, "http://api.internal:8000/")
	cfg := NewDefaultConfig()
	if cfg.API.Origin != "http://api.internal:8000" {
		t.Errorf("origin = %q", cfg.API.Origin)
	}
}

func TestAPIConfig_EmptyOriginFallsBack(t *testing.T) {
	cfg := APIConfig{Timeout: time.Second}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty origin should fall back: %v", err)
	}
	if cfg.Origin != apiclient.DefaultUpstream {
		t.Errorf("origin = %q, want %q", cfg.Origin, apiclient.DefaultUpstream)
	}
	if cfg.ClientID != apiclient.DefaultClientID {
		t.Errorf("client id = %q", cfg.ClientID)
	}
}

func TestAPIConfig_InvalidOrigin(t *testing.T) {
	cfg := APIConfig{Origin: "::not a url", Timeout: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid origin should fail")
	}
}

func TestApplicationConfig_LogFormat(t *testing.T) {
	cfg := ApplicationConfig{HTTP: HTTPConfig{Port: 80}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty format should default: %v", err)
	}
	if cfg.LogFormat != LogFormatJSON {
		t.Errorf("format = %q", cfg.LogFormat)
	}
	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown format should fail")
	}
}

func TestTemplatesConfig_ReloadNeedsDir(t *testing.T) {
	cfg := TemplatesConfig{Reload: true}
	if err := cfg.Validate(); err == nil {
		t.Fatal("reload without dir should fail")
	}
	cfg.Dir = "internal/web/templates"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("reload with dir should pass: %v", err)
	}
}

func TestFullConfig_SectionErrorsArePrefixed(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Meta.PollInterval = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch meta error")
	}
	if !strings.HasPrefix(err.Error(), "meta:") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf strings.Builder
	cfg := NewDefaultConfig()
	newLogger(&buf, &cfg.App).Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json log expected, got %q", buf.String())
	}

	buf.Reset()
	cfg.App.LogFormat = LogFormatText
	newLogger(&buf, &cfg.App).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text log expected, got %q", buf.String())
	}
}

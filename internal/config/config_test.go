package config

import (
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("http:\n  port: 8080\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Generation.Provider != ProviderGemini {
		t.Errorf("expected default provider gemini, got %q", cfg.Generation.Provider)
	}
	if cfg.Locator.Threshold != 0.05 {
		t.Errorf("expected default threshold 0.05, got %v", cfg.Locator.Threshold)
	}
	if cfg.Cache.Enabled() {
		t.Error("cache should be disabled without addrs")
	}
	if cfg.HTTP.WriteTimeoutSec != 180 {
		t.Errorf("expected write timeout 180, got %d", cfg.HTTP.WriteTimeoutSec)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("REVISOR_TEST_KEYS", "k1, k2,,k3")
	data := []byte(`
http:
  port: ${REVISOR_TEST_PORT:-9090}
generation:
  credentials:
    - ${REVISOR_TEST_KEYS}
    - ${REVISOR_TEST_MISSING}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090 from default, got %d", cfg.HTTP.Port)
	}
	want := []string{"k1", "k2", "k3"}
	if strings.Join(cfg.Generation.Credentials, "|") != strings.Join(want, "|") {
		t.Errorf("expected credentials %v, got %v", want, cfg.Generation.Credentials)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing port",
			cfg:     Config{Generation: GenerationConfig{Provider: ProviderGemini}},
			wantErr: "port",
		},
		{
			name:    "unknown provider",
			cfg:     Config{HTTP: HTTPConfig{Port: 80}, Generation: GenerationConfig{Provider: "claude"}},
			wantErr: "provider",
		},
		{
			name:    "openai without model",
			cfg:     Config{HTTP: HTTPConfig{Port: 80}, Generation: GenerationConfig{Provider: ProviderOpenAI}},
			wantErr: "model",
		},
		{
			name: "threshold above one",
			cfg: Config{
				HTTP:       HTTPConfig{Port: 80},
				Generation: GenerationConfig{Provider: ProviderGemini},
				Locator:    LocatorConfig{Threshold: 1.5},
			},
			wantErr: "threshold",
		},
		{
			name: "valid openai",
			cfg: Config{
				HTTP:       HTTPConfig{Port: 80},
				Generation: GenerationConfig{Provider: ProviderOpenAI, Model: "gpt-4o-mini"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(strings.ToLower(err.Error()), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http:\n  port: 0\n")); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParse_BlankCacheAddrDisablesCache(t *testing.T) {
	cfg, err := Parse([]byte("http:\n  port: 80\ncache:\n  addrs:\n    - ${REVISOR_TEST_UNSET_ADDR}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Cache.Enabled() {
		t.Errorf("expected cache disabled, got addrs %v", cfg.Cache.Addrs)
	}
}

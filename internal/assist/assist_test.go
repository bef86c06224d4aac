package assist

import (
	"errors"
	"strings"
	"testing"

	"github.com/1arunjyoti/resume-builder/internal/settings"
)

func configured(provider string) settings.AssistSettings {
	cfg := settings.Defaults()
	cfg.ProviderID = provider
	cfg.APIKeys[provider] = "key"
	cfg.Consent = settings.ConsentFlags{Generation: true, Analysis: true, Rewriting: true}
	return cfg
}

func TestEnsureProvider_ConsentGatesEachFeature(t *testing.T) {
	cfg := configured(ProviderOpenAI)
	cfg.Consent = settings.ConsentFlags{Rewriting: true}

	if _, err := EnsureProvider(cfg, FeatureRewriting); err != nil {
		t.Fatalf("consented feature rejected: %v", err)
	}
	for _, feature := range []Feature{FeatureGeneration, FeatureAnalysis} {
		if _, err := EnsureProvider(cfg, feature); !errors.Is(err, ErrConsentRequired) {
			t.Fatalf("feature %s: err = %v, want consent required", feature, err)
		}
	}
}

func TestEnsureProvider_ConsentCheckedBeforeConfiguration(t *testing.T) {
	// 没同意也没配置：必须先报同意错误，避免提示用户去配置一个他们没同意的功能。
	cfg := settings.Defaults()
	if _, err := EnsureProvider(cfg, FeatureGeneration); !errors.Is(err, ErrConsentRequired) {
		t.Fatalf("err = %v, want consent required", err)
	}
}

func TestEnsureProvider_MissingKey(t *testing.T) {
	cfg := configured(ProviderOpenAI)
	delete(cfg.APIKeys, ProviderOpenAI)
	if _, err := EnsureProvider(cfg, FeatureRewriting); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want not configured", err)
	}
}

func TestEnsureProvider_NoProviderSelected(t *testing.T) {
	cfg := settings.Defaults()
	cfg.Consent.Generation = true
	if _, err := EnsureProvider(cfg, FeatureGeneration); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want not configured", err)
	}
}

func TestEnsureProvider_UnknownProvider(t *testing.T) {
	cfg := configured("skynet")
	if _, err := EnsureProvider(cfg, FeatureGeneration); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want not configured", err)
	}
}

func TestEnsureProvider_LocalNeedsEndpointAndModel(t *testing.T) {
	cfg := settings.Defaults()
	cfg.ProviderID = ProviderLocal
	cfg.Consent.Generation = true

	if _, err := EnsureProvider(cfg, FeatureGeneration); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want not configured", err)
	}

	cfg.LocalEndpoint = "http://localhost:11434"
	cfg.LocalModel = "llama3"
	provider, err := EnsureProvider(cfg, FeatureGeneration)
	if err != nil {
		t.Fatalf("configured local provider rejected: %v", err)
	}
	if provider.ID() != ProviderLocal {
		t.Fatalf("provider id = %q", provider.ID())
	}
}

func TestEnsureProvider_ReturnsMatchingProvider(t *testing.T) {
	for _, id := range []string{ProviderOpenAI, ProviderGemini} {
		provider, err := EnsureProvider(configured(id), FeatureRewriting)
		if err != nil {
			t.Fatalf("provider %s: %v", id, err)
		}
		if provider.ID() != id {
			t.Fatalf("provider id = %q, want %q", provider.ID(), id)
		}
	}
}

func TestStripContactInfo(t *testing.T) {
	in := "Reach me at jane.doe+work@example.co.uk or +49 (151) 123-45678 anytime."
	out := StripContactInfo(in)

	if strings.Contains(out, "example.co.uk") || strings.Contains(out, "jane.doe") {
		t.Fatalf("email not redacted: %q", out)
	}
	if strings.Contains(out, "123-45678") {
		t.Fatalf("phone not redacted: %q", out)
	}
	if !strings.Contains(out, "[email]") || !strings.Contains(out, "[phone]") {
		t.Fatalf("placeholders missing: %q", out)
	}
}

func TestPromptsCarryToneInstruction(t *testing.T) {
	formal := RewritePrompt(settings.ToneFormal, "text")
	concise := RewritePrompt(settings.ToneConcise, "text")
	if formal.Prompt == concise.Prompt {
		t.Fatal("tone setting has no effect on the prompt")
	}
	if !strings.Contains(formal.Prompt, "text") {
		t.Fatal("input text missing from prompt")
	}
	if formal.System == "" {
		t.Fatal("system prompt missing")
	}
}

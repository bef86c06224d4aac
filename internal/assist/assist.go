package assist

import (
	"context"
	"errors"
	"fmt"

	"github.com/1arunjyoti/resume-builder/internal/settings"
)

// Feature 标识一个受同意开关约束的 AI 功能。
type Feature string

const (
	FeatureGeneration Feature = "generation"
	FeatureAnalysis   Feature = "analysis"
	FeatureRewriting  Feature = "rewriting"
)

// Provider ids recognized by EnsureProvider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

var (
	ErrConsentRequired = errors.New("assist: consent required")
	ErrNotConfigured   = errors.New("assist: provider not configured")
	ErrEmptyResponse   = errors.New("assist: empty response from provider")
)

// Request 是一次文本生成调用的参数。
type Request struct {
	Prompt      string
	System      string
	Temperature float32
	MaxTokens   int
}

// Provider 是具体 LLM 后端的最小契约。
// 失败必须返回可展示的错误（网络、空响应、配置缺失），不会 panic。
type Provider interface {
	ID() string
	GenerateText(ctx context.Context, req Request) (string, error)
}

// EnsureProvider 是每个 AI 功能入口的门卫：
// 先检查该功能的同意开关，再检查所选 provider 的就绪度（Key/端点）。
// 两道检查都过了才返回可用的 Provider。
func EnsureProvider(cfg settings.AssistSettings, feature Feature) (Provider, error) {
	if !consentFor(cfg.Consent, feature) {
		return nil, fmt.Errorf("%w: %s", ErrConsentRequired, feature)
	}

	switch cfg.ProviderID {
	case ProviderOpenAI:
		key := cfg.APIKeys[ProviderOpenAI]
		if key == "" {
			return nil, fmt.Errorf("%w: missing openai api key", ErrNotConfigured)
		}
		return newOpenAIProvider(key), nil
	case ProviderGemini:
		key := cfg.APIKeys[ProviderGemini]
		if key == "" {
			return nil, fmt.Errorf("%w: missing gemini api key", ErrNotConfigured)
		}
		return newGeminiProvider(key), nil
	case ProviderLocal:
		if cfg.LocalEndpoint == "" || cfg.LocalModel == "" {
			return nil, fmt.Errorf("%w: local endpoint and model are required", ErrNotConfigured)
		}
		return newLocalProvider(cfg.LocalEndpoint, cfg.LocalModel, cfg.LocalAPIType, cfg.APIKeys[ProviderLocal]), nil
	case "":
		return nil, fmt.Errorf("%w: no provider selected", ErrNotConfigured)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.ProviderID)
	}
}

func consentFor(c settings.ConsentFlags, feature Feature) bool {
	switch feature {
	case FeatureGeneration:
		return c.Generation
	case FeatureAnalysis:
		return c.Analysis
	case FeatureRewriting:
		return c.Rewriting
	default:
		return false
	}
}

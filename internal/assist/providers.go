package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/1arunjyoti/resume-builder/internal/settings"
)

const (
	openaiDefaultModel = "gpt-4o-mini"
	geminiDefaultModel = "gemini-2.0-flash"

	localRequestTimeout = 60 * time.Second
)

type openaiProvider struct {
	client *openai.Client
	model  string
}

func newOpenAIProvider(apiKey string) *openaiProvider {
	return &openaiProvider{
		client: openai.NewClient(apiKey),
		model:  openaiDefaultModel,
	}
}

func (p *openaiProvider) ID() string { return ProviderOpenAI }

func (p *openaiProvider) GenerateText(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

type geminiProvider struct {
	apiKey string
	model  string
}

func newGeminiProvider(apiKey string) *geminiProvider {
	return &geminiProvider{apiKey: apiKey, model: geminiDefaultModel}
}

func (p *geminiProvider) ID() string { return ProviderGemini }

func (p *geminiProvider) GenerateText(ctx context.Context, req Request) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// localProvider 访问用户本机的推理端点。
// openai/lmstudio/huggingface 走 OpenAI 兼容协议（自定义 BaseURL），
// ollama 走其原生 /api/generate。
type localProvider struct {
	endpoint string
	model    string
	apiType  string
	apiKey   string
}

func newLocalProvider(endpoint, model, apiType, apiKey string) *localProvider {
	return &localProvider{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		model:    model,
		apiType:  apiType,
		apiKey:   apiKey,
	}
}

func (p *localProvider) ID() string { return ProviderLocal }

func (p *localProvider) GenerateText(ctx context.Context, req Request) (string, error) {
	if p.apiType == settings.LocalAPIOllama {
		return p.generateOllama(ctx, req)
	}
	return p.generateOpenAICompatible(ctx, req)
}

func (p *localProvider) generateOpenAICompatible(ctx context.Context, req Request) (string, error) {
	cfg := openai.DefaultConfig(p.apiKey)
	cfg.BaseURL = p.endpoint + "/v1"
	client := openai.NewClientWithConfig(cfg)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("local endpoint %q: %w", p.endpoint, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (p *localProvider) generateOllama(ctx context.Context, req Request) (string, error) {
	options := map[string]any{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:   p.model,
		Prompt:  req.Prompt,
		System:  req.System,
		Stream:  false,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("encode ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: localRequestTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request ollama endpoint %q: %w", p.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return "", fmt.Errorf("ollama endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("ollama: %s", decoded.Error)
	}
	if strings.TrimSpace(decoded.Response) == "" {
		return "", ErrEmptyResponse
	}
	return decoded.Response, nil
}

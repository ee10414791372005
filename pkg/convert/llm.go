package convert

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Provider identifies an LLM backend for conversion.
type Provider string

const (
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenAI     Provider = "openai"
	ProviderGemini     Provider = "gemini"
	ProviderOpenRouter Provider = "openrouter"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Providers lists the supported provider names.
var Providers = []string{
	string(ProviderAnthropic),
	string(ProviderOpenAI),
	string(ProviderGemini),
	string(ProviderOpenRouter),
}

// Config fully describes how to reach an LLM. It is passed explicitly to
// every conversion; clients are built from it per call.
type Config struct {
	Provider Provider
	// APIKey overrides the provider's environment variable.
	APIKey string
	// Model overrides the provider default.
	Model string
	// Attempts bounds retries of the completion call. Zero means the
	// default of 3.
	Attempts uint
}

// ResolvedModel returns the configured model or the provider default.
func (c Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderAnthropic:
		return "claude-sonnet-4-20250514"
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderOpenRouter:
		return "anthropic/claude-sonnet-4"
	default:
		return "gpt-4o"
	}
}

const completionMaxTokens = 8192

// complete sends one prompt to the configured provider and returns the
// text of the response, retrying transient failures.
func complete(ctx context.Context, cfg Config, prompt string) (string, error) {
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 3
	}

	var output string
	err := retry.Do(
		func() error {
			var err error
			output, err = completeOnce(ctx, cfg, prompt)
			return err
		},
		retry.Attempts(attempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	return output, err
}

func completeOnce(ctx context.Context, cfg Config, prompt string) (string, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return completeAnthropic(ctx, cfg, prompt)
	case ProviderOpenAI:
		return completeOpenAI(ctx, cfg, prompt, "")
	case ProviderOpenRouter:
		return completeOpenAI(ctx, cfg, prompt, openRouterBaseURL)
	case ProviderGemini:
		return completeGemini(ctx, cfg, prompt)
	default:
		return "", errors.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

func completeAnthropic(ctx context.Context, cfg Config, prompt string) (string, error) {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	client := anthropic.NewClient(opts...)

	response, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.ResolvedModel()),
		MaxTokens: completionMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic completion failed")
	}

	for _, block := range response.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			return text.Text, nil
		}
	}
	return "", errors.New("anthropic response contained no text")
}

func completeOpenAI(ctx context.Context, cfg Config, prompt, baseURL string) (string, error) {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	response, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: cfg.ResolvedModel(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai completion failed")
	}
	if len(response.Choices) == 0 {
		return "", errors.New("openai response contained no choices")
	}
	return response.Choices[0].Message.Content, nil
}

func completeGemini(ctx context.Context, cfg Config, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to create Gemini client")
	}

	response, err := client.Models.GenerateContent(ctx, cfg.ResolvedModel(), genai.Text(prompt), nil)
	if err != nil {
		return "", errors.Wrap(err, "gemini completion failed")
	}
	text := response.Text()
	if text == "" {
		return "", errors.New("gemini response contained no text")
	}
	return text, nil
}

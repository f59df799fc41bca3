package synth

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillweave/pkg/errors"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = string(anthropic.ModelClaudeSonnet4_5)

	// DefaultMaxTokens bounds the length of the synthesized document.
	DefaultMaxTokens = 8192

	defaultAttempts = 3
	defaultDelay    = time.Second
)

// AnthropicOptions configures an [AnthropicSynthesizer]. Zero values fall
// back to the defaults; an empty APIKey leaves the SDK to read
// ANTHROPIC_API_KEY from the environment.
type AnthropicOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	Attempts   int
	Delay      time.Duration
	HTTPClient *http.Client
	Logger     *log.Logger
}

// AnthropicSynthesizer writes skill documents with the Claude Messages API.
// Rate-limit, overload and server errors are retried with exponential
// backoff; other API errors fail at once.
type AnthropicSynthesizer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	attempts  uint
	delay     time.Duration
	logger    *log.Logger
}

// NewAnthropicSynthesizer creates a synthesizer from opts.
func NewAnthropicSynthesizer(opts AnthropicOptions) *AnthropicSynthesizer {
	// Retries are driven here so every attempt is logged.
	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	s := &AnthropicSynthesizer{
		client:    anthropic.NewClient(reqOpts...),
		model:     opts.Model,
		maxTokens: int64(opts.MaxTokens),
		attempts:  uint(opts.Attempts),
		delay:     opts.Delay,
		logger:    opts.Logger,
	}
	if s.model == "" {
		s.model = DefaultModel
	}
	if s.maxTokens <= 0 {
		s.maxTokens = DefaultMaxTokens
	}
	if opts.Attempts <= 0 {
		s.attempts = defaultAttempts
	}
	if s.delay <= 0 {
		s.delay = defaultDelay
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Model returns the model name sent with every request.
func (s *AnthropicSynthesizer) Model() string { return s.model }

// MaxTokens returns the output token limit sent with every request.
func (s *AnthropicSynthesizer) MaxTokens() int64 { return s.maxTokens }

// Synthesize sends the prompt for req and returns the model's text with one
// wrapping fence stripped.
func (s *AnthropicSynthesizer) Synthesize(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(req))),
		},
	}

	var text string
	err := retry.Do(
		func() error {
			msg, err := s.client.Messages.New(ctx, params)
			if err != nil {
				return err
			}
			text = responseText(msg)
			return nil
		},
		retry.RetryIf(isRetryable),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("retrying synthesis", "model", s.model, "attempt", n+1, "max_attempts", s.attempts, "err", err)
		}),
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSynthFailed, err, "synthesize %s with %s", req.Name, s.model)
	}

	out := StripFences(text)
	if out == "" {
		return "", errors.New(errors.ErrCodeSynthFailed, "synthesize %s: model returned no text", req.Name)
	}
	return out, nil
}

func responseText(msg *anthropic.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// isRetryable reports whether an API call failure is worth repeating:
// rate limits, overloads and 5xx responses, and transport failures.
func isRetryable(err error) bool {
	if err == nil || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *anthropic.Error
	if stderrors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return true
}

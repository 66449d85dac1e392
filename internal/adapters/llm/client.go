// Package llm wraps the OpenAI-compatible provider used for speech to text and
// record extraction. Provider errors are folded into project error codes with
// coarse messages; the raw provider error stays on the chain for logs only
package llm

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/metrics"
)

const (
	defaultChatModel   = "gpt-4o-mini"
	defaultSpeechModel = openai.Whisper1
	defaultTimeout     = 60 * time.Second
)

// Options configures the Client
type Options struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	SpeechModel string
	Timeout     time.Duration
}

// Completion is one chat request
type Completion struct {
	// Purpose labels metrics and logs, e.g. "categorize" or "duplicate"
	Purpose     string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	// JSON asks the provider for a JSON object reply
	JSON bool
}

// Client talks to the provider
type Client struct {
	api     *openai.Client
	opts    Options
	log     logger.Logger
	metrics *metrics.Set
}

// New creates a Client with defaults filled in
func New(o Options) *Client {
	if o.ChatModel == "" {
		o.ChatModel = defaultChatModel
	}
	if o.SpeechModel == "" {
		o.SpeechModel = defaultSpeechModel
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	cfg := openai.DefaultConfig(o.APIKey)
	if o.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(o.BaseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: o.Timeout}

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		opts:    o,
		log:     *logger.Named("llm"),
		metrics: metrics.Registry,
	}
}

// Transcribe turns audio bytes into text. filename carries the container
// extension the provider uses to pick a decoder
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	start := time.Now()
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.opts.SpeechModel,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		c.observe("transcribe", err)
		return "", classify(err, "transcription")
	}
	c.observe("transcribe", nil)
	c.log.Debug().
		Str("model", c.opts.SpeechModel).
		Int("audio_bytes", len(audio)).
		Int("chars", len(resp.Text)).
		Dur("latency", time.Since(start)).
		Msg("transcription complete")
	return strings.TrimSpace(resp.Text), nil
}

// Complete runs one chat completion and returns the first choice
func (c *Client) Complete(ctx context.Context, in Completion) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.opts.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: in.System},
			{Role: openai.ChatMessageRoleUser, Content: in.User},
		},
		Temperature: in.Temperature,
		MaxTokens:   in.MaxTokens,
	}
	if in.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.observe(in.Purpose, err)
		return "", classify(err, in.Purpose)
	}
	if len(resp.Choices) == 0 {
		err := perr.New(perr.ErrorCodeUnknown, "language model returned no choices")
		c.observe(in.Purpose, err)
		return "", err
	}
	c.observe(in.Purpose, nil)
	c.metrics.LLMTokens.WithLabelValues(c.opts.ChatModel, "prompt").Add(float64(resp.Usage.PromptTokens))
	c.metrics.LLMTokens.WithLabelValues(c.opts.ChatModel, "completion").Add(float64(resp.Usage.CompletionTokens))

	c.log.Debug().
		Str("purpose", in.Purpose).
		Str("model", c.opts.ChatModel).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Dur("latency", time.Since(start)).
		Msg("completion generated")
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) observe(purpose string, err error) {
	c.metrics.LLMCalls.WithLabelValues(purpose, outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch perr.CodeOf(classify(err, "")) {
	case perr.ErrorCodeTimeout:
		return "timeout"
	case perr.ErrorCodeUnauthorized:
		return "unauthorized"
	case perr.ErrorCodeTooManyRequests:
		return "rate_limited"
	case perr.ErrorCodeInvalidArgument:
		return "rejected"
	}
	return "error"
}

// classify maps provider failures onto project codes
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return perr.Wrap(err, perr.ErrorCodeTimeout, what+" timed out")
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return perr.Wrap(err, perr.ErrorCodeTimeout, what+" timed out")
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return perr.Wrap(err, perr.ErrorCodeUnauthorized, what+" provider rejected credentials")
	case status == http.StatusTooManyRequests:
		return perr.Wrap(err, perr.ErrorCodeTooManyRequests, what+" provider is rate limiting")
	case status == http.StatusBadRequest || status == http.StatusUnsupportedMediaType:
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, what+" provider rejected the input")
	}
	return perr.Wrap(err, perr.ErrorCodeUnknown, what+" provider failed")
}

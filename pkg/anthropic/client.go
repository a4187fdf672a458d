// Package anthropic wraps the Anthropic SDK behind the single
// request/response operation the scan pipeline needs. Resilience (timeouts,
// retries) lives here at the transport; pipeline logic never retries.
package anthropic

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/scout-cli/internal/resilience"
)

// Client is the pipeline's contract with the reasoning model: send a
// prompt, receive free-form text. Callers must not assume the reply is
// valid JSON or that repeated calls are deterministic.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds model settings for the SDK-backed client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// TokenUsage tracks token consumption for one call.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

// modelPricing holds per-million-token pricing for known models.
var modelPricing = map[string][2]float64{
	// model → {input $/MTok, output $/MTok}
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
}

// EstimateCost computes an estimated USD cost. Returns 0 for unknown models.
func (u TokenUsage) EstimateCost(model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	return (float64(u.InputTokens)/1e6)*pricing[0] + (float64(u.OutputTokens)/1e6)*pricing[1]
}

// LogCost logs token usage and estimated cost.
func (u TokenUsage) LogCost(model string) {
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client sdk.Client
	cfg    Config
	retry  resilience.RetryConfig
}

// NewClient creates an SDK-backed Client. Transient API failures are
// retried up to three times with backoff before surfacing an error.
func NewClient(cfg Config) Client {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("anthropic", "complete")
	return &sdkClient{
		client: sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
		retry:  retry,
	}
}

func (c *sdkClient) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*sdk.Message, error) {
		m, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
			Model:     sdk.Model(c.cfg.Model),
			MaxTokens: c.cfg.MaxTokens,
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return nil, classify(err)
		}
		return m, nil
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic: complete")
	}

	usage := TokenUsage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
	usage.LogCost(c.cfg.Model)

	return extractText(msg), nil
}

// classify marks overload and rate-limit responses as transient so the
// retry layer handles them.
func classify(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
		return resilience.NewTransientError(err, apiErr.StatusCode)
	}
	return err
}

// extractText concatenates all text content blocks from the response.
func extractText(msg *sdk.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

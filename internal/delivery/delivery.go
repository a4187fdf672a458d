// Package delivery sends the terminal scan report to the requesting user
// and a notification to an internal address. Delivery happens after the
// pipeline's terminal event; its failures never surface as pipeline
// errors.
package delivery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/scout-cli/internal/config"
	"github.com/sells-group/scout-cli/internal/model"
	"github.com/sells-group/scout-cli/internal/resilience"
)

// Email is one outbound message.
type Email struct {
	To             string
	From           string
	Subject        string
	Text           string
	IdempotencyKey string
}

// Sender delivers a single email. Implementations mark retryable failures
// (429, 5xx) as resilience.TransientError.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// Idempotency scopes keep the user-facing send and the internal
// notification from deduplicating against each other.
const (
	scopeUser     = "user"
	scopeInternal = "internal"
)

// Dispatcher delivers scan reports with an at-least-once retry policy.
type Dispatcher struct {
	cfg    config.DeliveryConfig
	sender Sender
	retry  resilience.RetryConfig
	now    func() time.Time
}

// NewDispatcher creates a Dispatcher using the standard retry policy
// (3 attempts, 1s base backoff, 30s cap, jitter).
func NewDispatcher(cfg config.DeliveryConfig, sender Sender) *Dispatcher {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("delivery", "send")
	return &Dispatcher{
		cfg:    cfg,
		sender: sender,
		retry:  retry,
		now:    time.Now,
	}
}

// Deliver sends the report to recipient and a notification to the internal
// address, in parallel. A user-send failure is returned; an internal-send
// failure is logged and absorbed.
func (d *Dispatcher) Deliver(ctx context.Context, result *model.ScanResult, recipient string) error {
	if recipient == "" {
		return eris.New("delivery: recipient is required")
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		email := Email{
			To:             recipient,
			From:           d.cfg.FromAddress,
			Subject:        fmt.Sprintf("AI opportunity report: %s", result.BusinessName),
			Text:           RenderReport(result),
			IdempotencyKey: d.idempotencyKey(result.URL, recipient, scopeUser),
		}
		if err := d.send(gCtx, email); err != nil {
			return eris.Wrap(err, "delivery: user send")
		}
		return nil
	})

	g.Go(func() error {
		if d.cfg.InternalEmail == "" {
			return nil
		}
		email := Email{
			To:             d.cfg.InternalEmail,
			From:           d.cfg.FromAddress,
			Subject:        fmt.Sprintf("Scan completed: %s", result.URL),
			Text:           renderNotification(result, recipient),
			IdempotencyKey: d.idempotencyKey(result.URL, recipient, scopeInternal),
		}
		if err := d.send(gCtx, email); err != nil {
			// Internal notification failure never affects the caller.
			zap.L().Warn("delivery: internal notification failed",
				zap.String("url", result.URL),
				zap.Error(err),
			)
		}
		return nil
	})

	return g.Wait()
}

func (d *Dispatcher) send(ctx context.Context, email Email) error {
	return resilience.Do(ctx, d.retry, func(ctx context.Context) error {
		return d.sender.Send(ctx, email)
	})
}

// idempotencyKey hashes url, recipient and the current hour bucket so a
// repeated send within the hour is deduplicated downstream, scoped
// separately per send kind.
func (d *Dispatcher) idempotencyKey(url, recipient, scope string) string {
	bucket := d.now().UTC().Truncate(time.Hour).Unix()
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d|%s", url, recipient, bucket, scope))
	return hex.EncodeToString(sum[:16])
}

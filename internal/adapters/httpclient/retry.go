package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/cenkalti/backoff/v4"
)

const maxRetries = 3

// retryGet runs op with bounded exponential backoff. Only idempotent GET
// calls go through here; op must mark non-retryable failures with
// backoff.Permanent.
func retryGet(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
}

// unsupportedPairMarkers are phrases providers use when rejecting a
// currency pair outright.
var unsupportedPairMarkers = []string{
	"unsupported", "not supported", "invalid currency", "currency pair", "no route",
}

// classifyStatus turns a non-2xx provider response into an error of the
// right kind: 4xx pair rejections become domain.ErrUnsupportedPair and are
// never retried, other 4xx are permanent, 5xx stay retryable.
func classifyStatus(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	lower := strings.ToLower(string(body))

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		for _, marker := range unsupportedPairMarkers {
			if strings.Contains(lower, marker) {
				return backoff.Permanent(&domain.ProviderError{
					Provider: provider,
					Err:      fmt.Errorf("%w: status %d", domain.ErrUnsupportedPair, resp.StatusCode),
				})
			}
		}
		return backoff.Permanent(&domain.ProviderError{
			Provider: provider,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, resp.Status),
		})
	}

	// 5xx: worth another attempt.
	return &domain.ProviderError{
		Provider: provider,
		Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, resp.Status),
	}
}

// unwrapPermanent strips the backoff marker when classifyStatus is used
// outside a retry loop.
func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}

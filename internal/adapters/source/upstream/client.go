package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"

	"github.com/ogurasousui/company-admin-console/internal/core/employee"
	"github.com/ogurasousui/company-admin-console/internal/platform/config"
)

const (
	employeesPath   = "employees/"
	maxBodyBytes    = 10 << 20
	defaultDelay    = 200 * time.Millisecond
	authHeaderValue = "Bearer "
)

// Client は外部の社員 API から社員一覧を取得します。
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	attempts uint
	delay    time.Duration
	token    string
	logger   *zap.Logger
}

var _ employee.Repository = (*Client)(nil)

// NewClient は Client を生成します。cfg.Token が空の場合は Authorization ヘッダを付与しません。
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("upstream: parse base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	return &Client{
		baseURL:  base,
		http:     &http.Client{Timeout: cfg.Timeout},
		attempts: attempts,
		delay:    defaultDelay,
		token:    cfg.Token,
		logger:   logger,
	}, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// ListByCompany は社員一覧を取得します。5xx と通信エラーのみ再試行します。
func (c *Client) ListByCompany(ctx context.Context, companyID string) ([]*employee.Employee, error) {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: employeesPath})
	q := endpoint.Query()
	q.Set("company_id", companyID)
	endpoint.RawQuery = q.Encode()

	var body []byte
	err := retry.Do(
		func() error {
			b, err := c.fetch(ctx, endpoint.String())
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("upstream retry", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", employee.ErrSourceUnavailable, err)
	}

	return employee.DecodeRecords(body, companyID)
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", authHeaderValue+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled)
}

package standings

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/rzldimam28/score-predictor/internal/domain/standing"
	"github.com/rzldimam28/score-predictor/internal/platform/logging"
	"github.com/rzldimam28/score-predictor/internal/platform/resilience"
	"github.com/rzldimam28/score-predictor/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout  = 20 * time.Second
	maxResponseSize = 6 << 20
	tablePath       = "/v1/standings"
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errProviderTransient = crerr.New("standings provider transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls league tables from the upstream standings feed. It
// implements usecase.StandingsProvider.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseSize,
		},
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchTable returns the full league table ordered by rank.
func (c *Client) FetchTable(ctx context.Context) ([]standing.Row, error) {
	var envelope tableEnvelope
	if err := c.doJSON(ctx, tablePath, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch league table: %w", err)
	}

	rows := make([]standing.Row, 0, len(envelope.Table))
	for _, item := range envelope.Table {
		row := item.toDomain()
		if row.TeamID == "" || row.Rank <= 0 {
			continue
		}
		if row.Played <= 0 {
			total := row.Won + row.Draw + row.Lost
			if total > 0 {
				row.Played = total
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Rank != rows[j].Rank {
			return rows[i].Rank < rows[j].Rank
		}
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	return rows, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "standings circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: standings provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	if c.token != "" {
		values.Set("api_token", c.token)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		raw, err := c.doOnce(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errProviderTransient) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "standings request failed", "url", redactURL(fullURL), "error", sanitizeSensitiveText(lastErr.Error(), c.token))
	return nil, lastErr
}

func (c *Client) doOnce(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.token))
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		raw := make([]byte, len(resp.Body()))
		copy(raw, resp.Body())
		return raw, nil
	}

	if isRetryableStatus(status) {
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, status, abbreviateBody(resp.Body()))
	}
	return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(resp.Body()))
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errProviderTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
	return value
}

func redactURL(raw string) string {
	return apiTokenParamRegex.ReplaceAllString(raw, "api_token=REDACTED")
}

func abbreviateBody(raw []byte) string {
	const maxLen = 512
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLen {
		return body[:maxLen] + "...(truncated)"
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

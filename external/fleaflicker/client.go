package fleaflicker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
	"github.com/riskibarqy/pick-ledger/internal/platform/resilience"
	"github.com/riskibarqy/pick-ledger/internal/platform/tracing"
	"github.com/riskibarqy/pick-ledger/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultBaseURL      = "https://www.fleaflicker.com/api"
	teamPicksPath       = "/FetchTeamPicks"
	defaultRetryBackoff = time.Second
	maxResponseBytes    = 4 << 20
)

var (
	errFleaflickerTransient = crerr.New("fleaflicker transient failure")
	spans                   = tracing.NewScope("pick-ledger/external/fleaflicker", "")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	LeagueID       int64
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	Clock          clockwork.Clock
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads current pick ownership from the Fleaflicker public API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	leagueID     int64
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	clock        clockwork.Clock
	breaker      *resilience.CircuitBreaker
	flight       resilience.SingleFlight[[]byte]
}

type teamPicksEnvelope struct {
	Picks []pick.RawRecord `json:"picks"`
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		leagueID:     cfg.LeagueID,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		clock:        clock,
		breaker:      resilience.NewCircuitBreaker(cfg.CircuitBreaker, clock),
	}
}

// FetchTeamPicks returns every pick the provider reports for one team.
func (c *Client) FetchTeamPicks(ctx context.Context, ownerID int64) ([]pick.RawRecord, error) {
	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: owner id must be greater than zero", usecase.ErrInvalidInput)
	}
	if c.leagueID <= 0 {
		return nil, fmt.Errorf("%w: fleaflicker league id is not configured", usecase.ErrDependencyUnavailable)
	}

	ctx, span := spans.Start(ctx, "fleaflicker.Client.FetchTeamPicks",
		trace.WithAttributes(attribute.Int64("fleaflicker.team_id", ownerID)))
	defer span.End()

	query := url.Values{}
	query.Set("league_id", strconv.FormatInt(c.leagueID, 10))
	query.Set("team_id", strconv.FormatInt(ownerID, 10))

	var envelope teamPicksEnvelope
	if err := c.doJSON(ctx, teamPicksPath, query, &envelope); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch team picks")
		return nil, crerr.Wrapf(err, "fetch team picks team_id=%d", ownerID)
	}

	c.logger.DebugContext(ctx, "fleaflicker team picks fetched", "team_id", ownerID, "picks", len(envelope.Picks))
	return envelope.Picks, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "fleaflicker circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: pick provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		body, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil && crerr.Is(reqErr, errFleaflickerTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return body, reqErr
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode provider payload body=%s", abbreviateBody(raw))
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(crerr.Wrap(err, "send request"), errFleaflickerTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(crerr.Wrap(readErr, "read response body"), errFleaflickerTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errFleaflickerTransient)
			default:
				return nil, crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.clock.After(time.Duration(attempt+1) * c.retryBackoff):
		}
	}

	c.logger.WarnContext(ctx, "fleaflicker request failed", "url", fullURL, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

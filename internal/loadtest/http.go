package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/types"
	"github.com/okian/wodboard/pkg/logger"
)

// errThrottled marks a 429 answer; the submission may be retried.
var errThrottled = errors.New("throttled")

// HTTPClient talks to the wodboard API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for baseURL with a per-request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Health verifies the service answers on /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer closeBody(ctx, resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// CreateCompetition stores c on the server.
func (c *HTTPClient) CreateCompetition(ctx context.Context, comp model.Competition) (types.CompetitionResponse, error) {
	var ack types.CompetitionResponse
	resp, err := c.do(ctx, http.MethodPost, "/competitions", comp)
	if err != nil {
		return ack, err
	}
	defer closeBody(ctx, resp)
	if resp.StatusCode != http.StatusCreated {
		return ack, responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return ack, fmt.Errorf("decode competition ack: %w", err)
	}
	return ack, nil
}

// SubmitScore posts one score and returns the submission outcome.
func (c *HTTPClient) SubmitScore(ctx context.Context, competitionID string, req types.ScoreRequest) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/competitions/"+url.PathEscape(competitionID)+"/scores", req)
	if err != nil {
		return outcomeFailed, err
	}
	defer closeBody(ctx, resp)

	switch resp.StatusCode {
	case http.StatusAccepted:
		return outcomeAccepted, nil
	case http.StatusOK:
		return outcomeDuplicate, nil
	case http.StatusTooManyRequests:
		return outcomeThrottled, errThrottled
	default:
		return outcomeFailed, responseError(resp)
	}
}

// Leaderboard fetches the overall standings of a competition.
func (c *HTTPClient) Leaderboard(ctx context.Context, competitionID string) (types.LeaderboardResponse, error) {
	var lb types.LeaderboardResponse
	resp, err := c.do(ctx, http.MethodGet, "/competitions/"+url.PathEscape(competitionID)+"/leaderboard", nil)
	if err != nil {
		return lb, err
	}
	defer closeBody(ctx, resp)
	if resp.StatusCode != http.StatusOK {
		return lb, responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&lb); err != nil {
		return lb, fmt.Errorf("decode leaderboard: %w", err)
	}
	return lb, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func responseError(resp *http.Response) error {
	var e types.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Message == "" {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Errorf("status %d: %s: %s", resp.StatusCode, e.Code, e.Message)
}

func closeBody(ctx context.Context, resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		logger.Get().Error(ctx, "failed to close response body", logger.Error(err))
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

// Error is a non-2xx answer from the server. It unwraps to the domain error
// named by its code, so callers can use errors.Is(err, domain.ErrColumnFull).
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return domain.ErrorFromCode(e.Code)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	logger     *zap.Logger
}

var nop = zap.NewNop()

func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

func (c *Client) log() *zap.Logger {
	if c.Verbose {
		return c.logger
	}
	return nop
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log().Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	c.log().Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}

	return nil
}

// API Methods

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateGame(ctx context.Context, playerID int64) (*CreateGameResponse, error) {
	var resp CreateGameResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/games", &CreateGameRequest{PlayerID: playerID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MakeMove(ctx context.Context, gameID int64, column int) (*domain.TurnResult, error) {
	var resp domain.TurnResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/moves", &MoveRequest{GameID: gameID, Column: column}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetGame(ctx context.Context, gameID int64) (*GameResponse, error) {
	var resp GameResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/games/"+strconv.FormatInt(gameID, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListGames(ctx context.Context, playerID int64) ([]domain.ReplaySummary, error) {
	var resp []domain.ReplaySummary
	if err := c.doRequest(ctx, http.MethodGet, "/api/games/by-player/"+strconv.FormatInt(playerID, 10), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// LoadReplay fetches a finalized game's record with moves in turn order.
func (c *Client) LoadReplay(ctx context.Context, gameID int64) (*domain.ReplayRecord, error) {
	var resp domain.ReplayRecord
	if err := c.doRequest(ctx, http.MethodGet, "/api/replays/"+strconv.FormatInt(gameID, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteGame(ctx context.Context, gameID int64) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/games/"+strconv.FormatInt(gameID, 10), nil, nil)
}

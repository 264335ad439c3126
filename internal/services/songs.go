// Songs microservice implementation of [Counter]
//
// Endpoints and envelope follow the songs service's REST contract:
// PUT /updateFavouritesCount/{songId}?shouldDecrement={bool} and
// GET /getSongTitleById/{songId}, both answering {status, message, data}.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/songgraph/internal/models"
	"github.com/desertthunder/songgraph/internal/shared"
	"golang.org/x/time/rate"
)

const defaultSongsBaseURL = "http://localhost:3001"

const (
	statusOK       = "OK"
	statusNotFound = "NOT_FOUND"
)

// songsEnvelope is the response wrapper used by every songs service endpoint.
type songsEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    string `json:"data,omitempty"`
}

// SongsService implements [Counter] over the songs microservice's REST API.
//
// One attempt per call, no retries: the caller decides what a failure means.
// An optional rate limiter paces outbound requests.
type SongsService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSongsService creates a new songs service client.
//
// A zero or negative requestsPerSecond disables rate limiting.
func NewSongsService(baseURL string, client *http.Client, requestsPerSecond float64) *SongsService {
	if baseURL == "" {
		baseURL = defaultSongsBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return &SongsService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    limiter,
	}
}

// AdjustFavouriteCount calls the counter-mutation endpoint.
func (s *SongsService) AdjustFavouriteCount(ctx context.Context, songID string, decrement bool) (bool, error) {
	if err := (models.SongRef{SongID: songID}).Validate(); err != nil {
		return false, err
	}

	path := fmt.Sprintf("/updateFavouritesCount/%s?shouldDecrement=%t", url.PathEscape(songID), decrement)
	env, err := s.call(ctx, http.MethodPut, path)
	if err != nil {
		return false, err
	}

	switch env.Status {
	case statusOK:
		return true, nil
	case statusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("update favourites count for %q: status %s: %w", songID, env.Status, shared.ErrRemoteRejected)
	}
}

// LookupTitle calls the title-lookup endpoint.
func (s *SongsService) LookupTitle(ctx context.Context, songID string) (string, bool, error) {
	if err := (models.SongRef{SongID: songID}).Validate(); err != nil {
		return "", false, err
	}

	env, err := s.call(ctx, http.MethodGet, "/getSongTitleById/"+url.PathEscape(songID))
	if err != nil {
		return "", false, err
	}

	switch env.Status {
	case statusOK:
		return env.Data, true, nil
	case statusNotFound:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("lookup title for %q: status %s: %w", songID, env.Status, shared.ErrRemoteRejected)
	}
}

// call performs a single request and decodes the status envelope.
func (s *SongsService) call(ctx context.Context, method, path string) (*songsEnvelope, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %v: %w", err, shared.ErrRemoteUnavailable)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v: %w", method, path, err, shared.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v: %w", err, shared.ErrRemoteUnavailable)
	}

	var env songsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed response from songs service: %v: %w", err, shared.ErrRemoteRejected)
	}

	return &env, nil
}

package miwi

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"watchfleet/internal/shared/config"
	"watchfleet/internal/shared/logger"

	cacherepo "watchfleet/internal/infrastructure/repository"
)

// TokenCacheKey is the row key the access token is persisted under.
const TokenCacheKey = "miwi.access_token"

// tokenValidity is how long a fetched token is trusted before refetching.
// The platform issues tokens valid for roughly a month; two weeks leaves
// comfortable margin.
const tokenValidity = 14 * 24 * time.Hour

// TokenCache is the persistence port the token store needs. Satisfied by
// repository.CacheRepository.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, time.Time, error)
	Put(ctx context.Context, key, value string, updatedAt time.Time) error
}

// TokenStore fetches vendor access tokens and caches them durably so
// restarts do not burn the platform's token quota. Refresh is serialized:
// concurrent callers that miss the cache wait for a single fetch.
type TokenStore struct {
	cache  TokenCache
	cfg    config.VendorConfig
	client *http.Client
	logger logger.Interface
	now    func() time.Time

	mu sync.Mutex
}

// NewTokenStore creates a token store backed by the given cache.
func NewTokenStore(cache TokenCache, cfg config.VendorConfig, log logger.Interface) *TokenStore {
	return &TokenStore{
		cache:  cache,
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.CommandTimeout) * time.Second},
		logger: log.Named("miwi-token"),
		now:    time.Now,
	}
}

// Token returns a valid access token, fetching a fresh one when the cached
// token is missing or older than the validity window.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	if token, ok := s.cached(ctx); ok {
		return token, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if token, ok := s.cached(ctx); ok {
		return token, nil
	}

	token, err := s.fetch(ctx)
	if err != nil {
		return "", &AuthError{Err: err}
	}

	if err := s.cache.Put(ctx, TokenCacheKey, token, s.now().UTC()); err != nil {
		// A failed persist only costs an extra fetch later.
		s.logger.Warnw("failed to persist access token", "error", err)
	}

	s.logger.Infow("fetched new vendor access token")
	return token, nil
}

func (s *TokenStore) cached(ctx context.Context) (string, bool) {
	value, updatedAt, err := s.cache.Get(ctx, TokenCacheKey)
	if err != nil {
		if !errors.Is(err, cacherepo.ErrCacheMiss) {
			s.logger.Warnw("token cache read failed", "error", err)
		}
		return "", false
	}
	if value == "" || s.now().Sub(updatedAt) > tokenValidity {
		return "", false
	}
	return value, true
}

type tokenRequest struct {
	AppID     int    `json:"AppId"`
	Password  string `json:"Password"`
	Timestamp int64  `json:"Timestamp"`
}

type tokenResult struct {
	AccessToken string `json:"AccessToken"`
}

func (s *TokenStore) fetch(ctx context.Context) (string, error) {
	ts := s.now().Unix()
	body, err := json.Marshal(tokenRequest{
		AppID:     s.cfg.AppID,
		Password:  derivePassword(s.cfg.AppKey, s.cfg.AppID, ts),
		Timestamp: ts,
	})
	if err != nil {
		return "", err
	}

	url := s.cfg.APIEndpoint + "/api/token/get_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var envelope struct {
		Code    int             `json:"Code"`
		Message string          `json:"Message"`
		Result  json.RawMessage `json:"Result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if envelope.Code != 0 {
		return "", fmt.Errorf("token request rejected: code=%d message=%q", envelope.Code, envelope.Message)
	}

	var result tokenResult
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return "", fmt.Errorf("decode token result: %w", err)
	}
	if result.AccessToken == "" {
		return "", errors.New("token response contained empty access token")
	}
	return result.AccessToken, nil
}

// derivePassword builds the request credential the platform expects:
// md5 over the app key, app id and unix timestamp concatenated.
func derivePassword(appKey string, appID int, timestamp int64) string {
	sum := md5.Sum([]byte(appKey + strconv.Itoa(appID) + strconv.FormatInt(timestamp, 10)))
	return hex.EncodeToString(sum[:])
}

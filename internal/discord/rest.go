package discord

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAPIURL — REST API Discord v10.
const DefaultAPIURL = "https://discord.com/api/v10"

var ErrRateLimited = errors.New("discord: profile edit rate limited")

// APIError — ответ REST с кодом не 2xx.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api: status %d: %s", e.Status, e.Body)
}

type REST struct {
	http    *http.Client
	base    string
	token   string
	limiter *rate.Limiter
}

// NewREST — клиент REST; minInterval ограничивает частоту EditProfile (0 — без ограничений).
func NewREST(token string, minInterval time.Duration) *REST {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &REST{
		http:    &http.Client{Timeout: 30 * time.Second},
		base:    DefaultAPIURL,
		token:   token,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// SetBaseURL меняет адрес API.
func (r *REST) SetBaseURL(url string) {
	r.base = url
}

// EditProfile меняет аватар бота; banner == nil — баннер не трогаем.
func (r *REST) EditProfile(ctx context.Context, avatar, banner []byte) error {
	if !r.limiter.Allow() {
		return ErrRateLimited
	}

	body := map[string]string{"avatar": DataURI(avatar)}
	if banner != nil {
		body["banner"] = DataURI(banner)
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, r.base+"/users/@me", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+r.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		var rl struct {
			RetryAfter float64 `json:"retry_after"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&rl)
		return fmt.Errorf("%w: retry after %.1fs", ErrRateLimited, rl.RetryAfter)
	}
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{Status: resp.StatusCode, Body: string(msg)}
	}
	return nil
}

// DataURI кодирует картинку в data URI для полей avatar/banner.
func DataURI(img []byte) string {
	return "data:" + http.DetectContentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img)
}

// Session — шлюз и REST вместе: всё, что нужно публикатору статуса.
type Session struct {
	Gateway *Gateway
	REST    *REST
}

func (s *Session) SetActivity(text string) error {
	return s.Gateway.SetActivity(text)
}

func (s *Session) EditProfile(ctx context.Context, avatar, banner []byte) error {
	return s.REST.EditProfile(ctx, avatar, banner)
}

// Package telegram delivers messages through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-forecast-bot/internal/resilience"
)

const DefaultBaseURL = "https://api.telegram.org"

var (
	ErrNoToken  = errors.New("telegram bot token is not configured")
	ErrRejected = errors.New("telegram rejected the message")
)

// Client sends messages with a single bot token.
type Client struct {
	token   string
	baseURL string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewClient creates a Client. rps bounds outbound sends per second; Telegram
// allows roughly 20 messages per minute to a single channel.
func NewClient(httpClient *http.Client, token, baseURL string, rps float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 20.0 / 60.0
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: resilience.HTTPClientConfig{Client: httpClient},
		circuit: resilience.NewBreaker("telegram"),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Send posts text to chatID. parseMode may be empty for plain text.
func (c *Client) Send(ctx context.Context, chatID, text, parseMode string) error {
	if c.token == "" {
		return ErrNoToken
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             parseMode,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return err
	}

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
		req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := resilience.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		// The token is part of the URL; keep it out of logs.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = strings.ReplaceAll(urlErr.URL, c.token, "<token>")
		}
		return err
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("%w: %d %s", ErrRejected, out.ErrorCode, out.Description)
	}
	return nil
}

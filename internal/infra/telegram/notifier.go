// Package telegram implements the balancewatch.Notifier interface over the
// Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pvtsol/shieldwatch/internal/balancewatch"

	"github.com/hashicorp/go-retryablehttp"
)

// defaultAPIBaseURL is the Telegram Bot API endpoint.
const defaultAPIBaseURL = "https://api.telegram.org"

// ErrTelegramRejected is returned when the Bot API answers with ok=false.
var ErrTelegramRejected = errors.New("telegram rejected the request")

// notifier delivers messages through the Telegram Bot API.
type notifier struct {
	httpClient *retryablehttp.Client
	baseURL    string
	token      string
}

// Ensure notifier implements the balancewatch.Notifier interface at compile
// time.
var _ balancewatch.Notifier = (*notifier)(nil)

// Option overrides a default notifier setting.
type Option func(*notifier)

// WithBaseURL points the notifier at an alternative Bot API host.
func WithBaseURL(u string) Option {
	return func(n *notifier) {
		n.baseURL = u
	}
}

// NewNotifier creates a Telegram notifier authenticating with the given bot
// token and sending through the provided HTTP client.
func NewNotifier(httpClient *retryablehttp.Client, token string, opts ...Option) *notifier {
	n := &notifier{
		httpClient: httpClient,
		baseURL:    defaultAPIBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(n)
	}

	return n
}

type (
	// sendMessageRequest is the Bot API sendMessage payload.
	sendMessageRequest struct {
		ChatID int64  `json:"chat_id"`
		Text   string `json:"text"`
	}

	// apiResponse is the Bot API envelope, narrowed to the fields we read.
	apiResponse struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
)

// SendMessage delivers a plain-text message to the given chat.
func (n *notifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var apiRes apiResponse
	if err := json.NewDecoder(res.Body).Decode(&apiRes); err != nil {
		return err
	}

	if !apiRes.OK {
		return fmt.Errorf("%w: %s", ErrTelegramRejected, apiRes.Description)
	}

	return nil
}

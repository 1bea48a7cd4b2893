package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Telegram posts processing outcomes to a chat through the Bot API.
type Telegram struct {
	apiBase    string
	botToken   string
	chatID     string
	siteURL    string
	httpClient *http.Client
}

func NewTelegram(botToken, chatID, siteURL string) *Telegram {
	return &Telegram{
		apiBase:    "https://api.telegram.org",
		botToken:   botToken,
		chatID:     chatID,
		siteURL:    siteURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTelegramWithBase overrides the API host; used by tests.
func NewTelegramWithBase(apiBase, botToken, chatID, siteURL string) *Telegram {
	t := NewTelegram(botToken, chatID, siteURL)
	t.apiBase = apiBase
	return t
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func (t *Telegram) Notify(ctx context.Context, ownerID, fileID string, success bool) {
	if t.botToken == "" || t.chatID == "" {
		return
	}

	outcome := "processed"
	if !success {
		outcome = "failed"
	}
	text := fmt.Sprintf("File %s of user %s: %s.\nDetails: %s/v1/files/%s", fileID, ownerID, outcome, t.siteURL, fileID)

	if err := t.send(ctx, text); err != nil {
		slog.Warn("telegram_notify_failed", "owner_id", ownerID, "file_id", fileID, "error", err)
	}
}

func (t *Telegram) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: t.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal telegram message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	return nil
}

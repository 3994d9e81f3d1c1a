package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
)

// TelegramClient Bot API sendMessage istemcisi
type TelegramClient struct {
	baseURL    string
	token      string
	appURL     string
	httpClient *http.Client
}

// NewTelegramClient yeni istemci oluşturur
func NewTelegramClient(baseURL, token, appURL string) *TelegramClient {
	return &TelegramClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		appURL:     appURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type webAppInfo struct {
	URL string `json:"url"`
}

type inlineButton struct {
	Text   string     `json:"text"`
	WebApp webAppInfo `json:"web_app"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64        `json:"chat_id"`
	Text        string       `json:"text"`
	ParseMode   string       `json:"parse_mode"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage HTML parse modunda mesaj gönderir; buton metni ve APP_URL varsa mini-app butonu ekler
func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text, buttonText string) error {
	payload := sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}
	if buttonText != "" && c.appURL != "" {
		payload.ReplyMarkup = &replyMarkup{
			InlineKeyboard: [][]inlineButton{{{Text: buttonText, WebApp: webAppInfo{URL: c.appURL}}}},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram isteği oluşturulamadı: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram isteği oluşturulamadı: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewDependencyError("telegram", "telegram isteği başarısız", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var result apiResponse
	_ = json.Unmarshal(raw, &result)

	if resp.StatusCode >= 300 || !result.OK {
		return apperrors.NewDependencyError("telegram",
			fmt.Sprintf("telegram mesajı reddedildi (status %d): %s", resp.StatusCode, result.Description), nil)
	}
	return nil
}

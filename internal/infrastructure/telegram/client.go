package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

const defaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram bot API. Outbound sends and edits share a
// rate limiter so rapid progress edits never trip the API's flood limits.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

var _ ports.Messenger = (*Client)(nil)

// NewClient registers the bot token and prepares a reusable HTTP client.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 90 * time.Second},
		limiter: rate.NewLimiter(rate.Every(350*time.Millisecond), 3),
	}
}

// Update is one entry of a getUpdates response.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the subset of the Telegram message object the bot consumes.
type Message struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// User identifies a message sender.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

// Chat identifies where a message was posted.
type Chat struct {
	ID int64 `json:"id"`
}

// GetUpdates long-polls for incoming updates after the given offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSecs int) ([]Update, error) {
	form := url.Values{}
	form.Set("offset", strconv.FormatInt(offset, 10))
	form.Set("timeout", strconv.Itoa(timeoutSecs))
	form.Set("allowed_updates", `["message"]`)

	var updates []Update
	if err := c.call(ctx, "getUpdates", form, &updates); err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	return updates, nil
}

// SendMessage posts a plain-text message and returns its identifier.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("text", text)

	var sent Message
	if err := c.call(ctx, "sendMessage", form, &sent); err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sent.MessageID, nil
}

// EditMessage replaces the text of a previously sent message. Telegram
// rejects no-op edits; those are reported as nil since the rendered state
// already matches.
func (c *Client) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("message_id", strconv.Itoa(messageID))
	form.Set("text", text)

	if err := c.call(ctx, "editMessageText", form, nil); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// SendDocument uploads a local file as a document with a caption.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filePath, filename, caption string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("write field: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("write field: %w", err)
		}
	}
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendDocument", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp, nil)
}

// call posts a form-encoded bot API method and decodes result into dst.
func (c *Client) call(ctx context.Context, method string, form url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp, dst)
}

func decodeAPIResponse(resp *http.Response, dst any) error {
	var envelope struct {
		OK          bool            `json:"ok"`
		Description string          `json:"description"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response (%s): %w", resp.Status, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram error: %s", envelope.Description)
	}
	if dst != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, dst); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

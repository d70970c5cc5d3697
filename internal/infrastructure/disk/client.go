package disk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/v01cee/convert-yandex-bot/internal/domain"
	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

const (
	defaultBaseURL = "https://cloud-api.yandex.net/v1/disk"
	listLimit      = 1000
	chunkSize      = 64 * 1024

	connectTimeout  = 30 * time.Second
	apiTimeout      = 30 * time.Second
	transferTimeout = time.Hour
)

// Client talks to the Yandex Disk REST API.
type Client struct {
	token   string
	baseURL string
	api     *http.Client
	stream  *http.Client
	log     *slog.Logger
}

var _ ports.DiskClient = (*Client)(nil)

// NewClient creates a reusable disk client authenticated with an OAuth token.
func NewClient(token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		api:     &http.Client{Timeout: apiTimeout},
		stream: &http.Client{
			Timeout:   transferTimeout,
			Transport: &http.Transport{DialContext: dialer.DialContext},
		},
		log: logger,
	}
}

type entryPayload struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

type listingPayload struct {
	entryPayload
	Embedded struct {
		Items []entryPayload `json:"items"`
	} `json:"_embedded"`
}

type hrefPayload struct {
	Href string `json:"href"`
}

// ListFolder returns one level of a private folder.
func (c *Client) ListFolder(ctx context.Context, path string) ([]domain.Entry, error) {
	params := url.Values{}
	params.Set("path", path)
	params.Set("limit", fmt.Sprint(listLimit))

	var payload listingPayload
	if err := c.getJSON(ctx, "/resources", params, &payload); err != nil {
		return nil, fmt.Errorf("list folder %s: %w", path, err)
	}

	return toEntries(payload.Embedded.Items), nil
}

// PublicResourceInfo fetches metadata for a publicly shared resource.
func (c *Client) PublicResourceInfo(ctx context.Context, publicKey string) (domain.Entry, error) {
	params := url.Values{}
	params.Set("public_key", publicKey)
	params.Set("limit", "1")

	var payload listingPayload
	if err := c.getJSON(ctx, "/public/resources", params, &payload); err != nil {
		return domain.Entry{}, fmt.Errorf("public resource info %s: %w", publicKey, err)
	}

	return domain.Entry{
		Type: domain.EntryType(payload.Type),
		Name: payload.Name,
		Path: payload.Path,
		Size: payload.Size,
	}, nil
}

// ListPublicFolder returns one level inside a public resource tree.
func (c *Client) ListPublicFolder(ctx context.Context, publicKey, innerPath string) ([]domain.Entry, error) {
	params := url.Values{}
	params.Set("public_key", publicKey)
	params.Set("limit", fmt.Sprint(listLimit))
	if innerPath != "" {
		params.Set("path", innerPath)
	}

	var payload listingPayload
	if err := c.getJSON(ctx, "/public/resources", params, &payload); err != nil {
		return nil, fmt.Errorf("list public folder %s: %w", publicKey, err)
	}

	return toEntries(payload.Embedded.Items), nil
}

// DownloadURL resolves a time-limited direct link for a private resource.
func (c *Client) DownloadURL(ctx context.Context, path string) (string, error) {
	params := url.Values{}
	params.Set("path", path)
	return c.resolveHref(ctx, "/resources/download", params)
}

// PublicDownloadURL resolves a direct link for a public resource. innerPath
// is omitted from the request when the key addresses the file itself.
func (c *Client) PublicDownloadURL(ctx context.Context, publicKey, innerPath string) (string, error) {
	params := url.Values{}
	params.Set("public_key", publicKey)
	if innerPath != "" {
		params.Set("path", innerPath)
	}
	return c.resolveHref(ctx, "/public/resources/download", params)
}

func (c *Client) resolveHref(ctx context.Context, endpoint string, params url.Values) (string, error) {
	var payload hrefPayload
	if err := c.getJSON(ctx, endpoint, params, &payload); err != nil {
		return "", fmt.Errorf("resolve download url: %w", domain.ErrLinkExpiredOrDenied)
	}
	if payload.Href == "" {
		return "", fmt.Errorf("empty href in response: %w", domain.ErrLinkExpiredOrDenied)
	}
	return payload.Href, nil
}

// Download streams url into dest in fixed-size chunks, creating parent
// directories as needed. onProgress fires after each chunk when the response
// declares a total length. Returns false instead of an error on any failure.
func (c *Client) Download(ctx context.Context, rawURL, dest string, onProgress func(done, total int64)) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		c.log.Error("download: build request", "error", err)
		return false
	}

	resp, err := c.stream.Do(req)
	if err != nil {
		c.log.Error("download: transport failure", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("download: unexpected status", "status", resp.Status)
		return false
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		c.log.Error("download: create parent dir", "error", err)
		return false
	}

	out, err := os.Create(dest)
	if err != nil {
		c.log.Error("download: create file", "error", err)
		return false
	}
	defer out.Close()

	total := resp.ContentLength
	var done int64
	buf := make([]byte, chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				c.log.Error("download: write chunk", "error", writeErr)
				return false
			}
			done += int64(n)
			if onProgress != nil && total > 0 {
				onProgress(done, total)
			}
		}
		if readErr == io.EOF {
			return true
		}
		if readErr != nil {
			c.log.Error("download: read body", "error", readErr)
			return false
		}
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, dst any) error {
	reqURL := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	resp, err := c.api.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("disk api %s: %s: %s", endpoint, resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toEntries(items []entryPayload) []domain.Entry {
	entries := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, domain.Entry{
			Type: domain.EntryType(item.Type),
			Name: item.Name,
			Path: item.Path,
			Size: item.Size,
		})
	}
	return entries
}

// Package tesseract talks to the OCR sidecar service. The engine process
// loads its models once; this client treats it as an immutable, concurrently
// shared capability.
package tesseract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/doc-insight/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type recognizeResponse struct {
	Text string `json:"text"`
}

func (c *Client) RecognizeImage(ctx context.Context, png []byte, langHint string) (string, error) {
	endpoint := fmt.Sprintf("%s/ocr/image?lang=%s", c.baseURL, url.QueryEscape(langHint))
	return c.recognize(ctx, "tesseract.image", endpoint, "image/png", png)
}

func (c *Client) RecognizePDFPage(ctx context.Context, raw []byte, page int, langHint string) (string, error) {
	endpoint := fmt.Sprintf("%s/ocr/pdf-page?page=%s&lang=%s",
		c.baseURL, strconv.Itoa(page), url.QueryEscape(langHint))
	return c.recognize(ctx, "tesseract.pdf_page", endpoint, "application/pdf", raw)
}

func (c *Client) recognize(ctx context.Context, operation, endpoint, contentType string, payload []byte) (string, error) {
	var text string
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build ocr request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("ocr request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &HTTPStatusError{
				Operation:  operation,
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       string(body),
			}
		}

		var parsed recognizeResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("decode ocr response: %w", err)
		}
		text = parsed.Text
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyOCRError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return text, nil
}

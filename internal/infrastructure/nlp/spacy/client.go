// Package spacy talks to the NLP sidecar providing named-entity recognition
// and part-of-speech tagging. Unavailability of this capability degrades
// analysis instead of failing it; classification here only shapes retry and
// breaker behavior for the calls themselves.
package spacy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/doc-insight/internal/core/domain"
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
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

type annotateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (c *Client) Annotate(ctx context.Context, text, language string) (domain.Annotation, error) {
	payload, err := json.Marshal(annotateRequest{Text: text, Language: language})
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("marshal annotate request: %w", err)
	}

	var annotation domain.Annotation
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/annotate", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build annotate request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("annotate request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &HTTPStatusError{
				Operation:  "spacy.annotate",
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       string(body),
			}
		}

		if err := json.NewDecoder(resp.Body).Decode(&annotation); err != nil {
			return fmt.Errorf("decode annotate response: %w", err)
		}
		return nil
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "spacy.annotate", call, classifyNLPError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.Annotation{}, err
	}
	return annotation, nil
}

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "nlp status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("nlp %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("nlp %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

func classifyNLPError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		retryable := statusErr.StatusCode >= http.StatusInternalServerError
		return resilience.ErrorClassification{
			Retryable:     retryable,
			RecordFailure: retryable,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}

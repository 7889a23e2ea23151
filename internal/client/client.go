// Package client talks to the remote farmland analysis service.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/agricarbon/internal/certs"
	"github.com/Veraticus/agricarbon/internal/common"
	"github.com/Veraticus/agricarbon/internal/model"
	"github.com/Veraticus/agricarbon/internal/normalize"
	"github.com/Veraticus/agricarbon/internal/service"
)

// Messages surfaced to the user in place of low-level failures.
const (
	UnavailableMessage     = "The analysis service is currently unavailable. Please ensure your local backend is running and try again."
	ChatUnavailableMessage = "The chat service is currently unavailable. Please ensure your local backend is running and try again."
	ChatEmptyReply         = "I'm sorry, I couldn't get a proper response."
	UnknownErrorMessage    = "An unknown error occurred."
	chatErrorPrefix        = "I'm sorry, an error occurred: "
)

// DefaultTimeout bounds a whole request, including the upload.
const DefaultTimeout = 90 * time.Second

// APIError is a non-2xx response from the service.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return e.Message
}

// Config configures a Client.
type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	// CACertFile, when set, is the only root trusted for HTTPS.
	CACertFile string
	Timeout    time.Duration
}

// Client implements service.AnalysisService over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ service.AnalysisService = (*Client)(nil)

// New creates a client for the service at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("%w: service base URL is required", common.ErrMissingConfig)
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("%w: service base URL: %v", common.ErrInvalidConfig, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		transport := &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		}
		if cfg.CACertFile != "" {
			pool, err := certs.LoadCertPool(cfg.CACertFile)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
			}
			transport.TLSClientConfig = &tls.Config{
				RootCAs:    pool,
				MinVersion: tls.VersionTLS12,
			}
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: transport,
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
	}, nil
}

// Analyze uploads the image and returns the normalized result. Failures are
// reported once and never retried.
func (c *Client) Analyze(ctx context.Context, req service.AnalyzeRequest) (*model.AnalysisResult, error) {
	image, err := readImage(req.Image)
	if err != nil {
		return nil, err
	}

	body, contentType, err := buildAnalyzeForm(req, image)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	common.LogDebug("Submitting image for analysis", common.Fields{
		"filename":   req.Filename,
		"image_type": image.contentType,
		"bytes":      len(image.data),
		"city":       req.City,
		"state":      req.State,
	})

	start := time.Now()
	respBody, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	result, err := normalize.NormalizeJSON(respBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnexpectedResponse, err)
	}

	common.LogInfo("Analysis received", common.Fields{
		"duration":   time.Since(start).Round(time.Millisecond).String(),
		"confidence": result.Summary.Confidence,
	})
	return &result, nil
}

// chatRequest is the /chat body; a nil analysis encodes as null.
type chatRequest struct {
	UserAnalysis *model.AnalysisResult `json:"user_analysis"`
	Message      string                `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat asks a question about the analysis. It always returns a reply: any
// failure becomes an apology so the conversation can continue.
func (c *Client) Chat(ctx context.Context, message string, analysis *model.AnalysisResult) string {
	reply, err := c.chat(ctx, message, analysis)
	if err != nil {
		common.LogError(err, "Chat request failed", nil)
		if errors.Is(err, common.ErrServiceUnavailable) {
			return ChatUnavailableMessage
		}
		return chatErrorPrefix + common.UserMessage(err)
	}
	if strings.TrimSpace(reply) == "" {
		return ChatEmptyReply
	}
	return reply
}

func (c *Client) chat(ctx context.Context, message string, analysis *model.AnalysisResult) (string, error) {
	payload, err := json.Marshal(chatRequest{Message: message, UserAnalysis: analysis})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	body, err := c.do(httpReq)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	return resp.Response, nil
}

// Health reports the service's own status.
func (c *Client) Health(ctx context.Context) (service.HealthStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return service.HealthStatus{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	body, err := c.do(httpReq)
	if err != nil {
		return service.HealthStatus{}, err
	}

	var status service.HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return service.HealthStatus{}, fmt.Errorf("%w: %v", common.ErrUnexpectedResponse, err)
	}
	return status, nil
}

// do sends the request and returns the body of a 2xx response. Transport
// failures become ErrServiceUnavailable; other statuses become *APIError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, fmt.Errorf("request canceled: %w", ctxErr)
		}
		return nil, common.NewUserError(UnavailableMessage, fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
		common.LogDebug("Service returned an error", common.Fields{
			"path":   req.URL.Path,
			"status": resp.StatusCode,
			"detail": apiErr.Message,
		})
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

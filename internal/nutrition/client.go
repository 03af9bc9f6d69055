// Package nutrition talks to the food-search and image-recognition backend.
package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

var (
	ErrNotConfigured    = errors.New("food backend is not configured")
	ErrUpstream         = errors.New("food backend returned an error")
	ErrMalformedPayload = errors.New("food backend returned a malformed payload")
)

// DefaultTimeout bounds every backend call, image uploads included.
const DefaultTimeout = 20 * time.Second

// maxErrorBody caps how much of a failed response ends up in the error.
const maxErrorBody = 512

// maxResponseBody caps how much of any response is read.
const maxResponseBody = 4 << 20

type foodsResponse struct {
	Foods []domain.FoodDTO `json:"foods"`
}

type imageRequest struct {
	Image string `json:"image"`
}

// Client implements both the search and the recognition collaborators.
type Client struct {
	baseURL string
	client  *http.Client
	maxBody int64
}

// NewClient returns a client for baseURL. An empty baseURL yields a client
// whose calls fail with ErrNotConfigured.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		maxBody: maxResponseBody,
	}
}

// SearchFoods runs GET /get-foods?search=&page=.
func (c *Client) SearchFoods(ctx context.Context, text string, page int) ([]domain.FoodDTO, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("search", text)
	q.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-foods?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	return c.doFoods(req)
}

// RecognizeFoods runs POST /read-foods-from-image with the base64 photo.
func (c *Client) RecognizeFoods(ctx context.Context, imageBase64 string) ([]domain.FoodDTO, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	b, err := json.Marshal(imageRequest{Image: imageBase64})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/read-foods-from-image", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create recognition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doFoods(req)
}

func (c *Client) doFoods(req *http.Request) ([]domain.FoodDTO, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		customLog.Warnf("Nutrition: %s %s failed: %v", req.Method, req.URL.Path, err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrUpstream, err)
	}
	if int64(len(body)) > c.maxBody {
		customLog.Warnf("Nutrition: %s %s response exceeds %d bytes", req.Method, req.URL.Path, c.maxBody)
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrMalformedPayload, c.maxBody)
	}
	customLog.Debugf("Nutrition: %s %s -> %d in %s", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var fr foodsResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if fr.Foods == nil {
		return []domain.FoodDTO{}, nil
	}
	return fr.Foods, nil
}

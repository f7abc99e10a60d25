// Package sensor integrates the external sensor platform: a remote API
// client for syncing, and DataSource implementations that feed the snapshot
// pipeline with the platform's empty-on-failure contract.
package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// Client is a sensor platform API client
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a new sensor platform client
func NewClient(baseURL string, tokenSource oauth2.TokenSource) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
}

// GetWorkouts fetches workouts in [start, end) with pagination
func (c *Client) GetWorkouts(ctx context.Context, start, end time.Time, page, perPage int) ([]Workout, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.get(ctx, "/v1/workouts", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var workouts []Workout
	if err := json.NewDecoder(resp.Body).Decode(&workouts); err != nil {
		return nil, fmt.Errorf("decoding workouts: %w", err)
	}

	return workouts, nil
}

// GetAllWorkouts fetches every workout in [start, end), handling pagination
// and rate limits automatically.
func (c *Client) GetAllWorkouts(ctx context.Context, start, end time.Time, onProgress func(fetched int)) ([]Workout, error) {
	var all []Workout
	page := 1
	perPage := 100

	for {
		workouts, err := c.GetWorkouts(ctx, start, end, page, perPage)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(workouts) == 0 {
			break
		}

		all = append(all, workouts...)

		if onProgress != nil {
			onProgress(len(all))
		}

		if len(workouts) < perPage {
			break // Last page
		}

		page++
	}

	return all, nil
}

// GetHeartRateSamples fetches the raw heart-rate sequence for one workout,
// ordered ascending by time.
func (c *Client) GetHeartRateSamples(ctx context.Context, workoutID int64) ([]HeartRateSample, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/v1/workouts/%d/heart_rate", workoutID)
	resp, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var samples []HeartRateSample
	if err := json.NewDecoder(resp.Body).Decode(&samples); err != nil {
		return nil, fmt.Errorf("decoding heart rate samples: %w", err)
	}

	return samples, nil
}

// RateLimitRemaining returns the remaining request budget in the current window
func (c *Client) RateLimitRemaining() int {
	return c.rateLimiter.Remaining()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Update rate limiter from response headers
	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

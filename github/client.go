package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"repomart/logger"
	"repomart/models"
)

const pageSize = 100 // GitHub's maximum allowed per page

// RateLimit represents GitHub's rate limit information
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Client represents a GitHub API client
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    *url.URL
}

// NewClient creates a GitHub API client. An empty token means unauthenticated
// requests against the public API.
func NewClient(token string) *Client {
	baseURL, _ := url.Parse("https://api.github.com")
	logger.Info("Initializing GitHub client",
		zap.String("base_url", baseURL.String()),
		zap.Bool("authenticated", token != ""))
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

// FetchRepos fetches all repositories of an organization, newest-first by
// updated_at, with pagination support. Paging terminates on the first empty
// page, or early once an entire page falls strictly below since: pages are
// sorted by updated_at descending, so every later page is older still. Records
// from the boundary page are always included; the caller's upsert keeps
// re-fetched records correct.
func (c *Client) FetchRepos(ctx context.Context, org string, since time.Time) ([]models.RawRepo, error) {
	var allRepos []models.RawRepo
	page := 1
	retried := false

	for {
		path := fmt.Sprintf("/orgs/%s/repos", org)
		reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

		q := reqURL.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(pageSize))
		q.Set("sort", "updated")
		q.Set("direction", "desc")
		reqURL.RawQuery = q.Encode()

		logger.Debug("Fetching repos page",
			zap.String("org", org),
			zap.Int("page", page),
			zap.String("url", reqURL.String()))

		req, err := http.NewRequestWithContext(ctx, "GET", reqURL.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		if c.token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
		}
		req.Header.Set("Accept", "application/vnd.github+json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logger.Error("Failed to fetch repos",
				zap.Error(err),
				zap.String("org", org),
				zap.Int("page", page))
			return nil, fmt.Errorf("failed to fetch repos: %w", err)
		}

		// Rate limited: wait for the reset and retry this page once.
		if isRateLimited(resp) && !retried {
			resp.Body.Close()
			waitForRateLimit(resp)
			retried = true
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			logger.Error("Failed to fetch repos",
				zap.Int("status_code", resp.StatusCode),
				zap.String("org", org),
				zap.Int("page", page))
			return nil, fmt.Errorf("failed to fetch repos: status code %d", resp.StatusCode)
		}

		var repos []models.RawRepo
		if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
			resp.Body.Close()
			logger.Error("Failed to decode repos response",
				zap.Error(err),
				zap.String("org", org),
				zap.Int("page", page))
			return nil, fmt.Errorf("failed to decode repos response: %w", err)
		}
		resp.Body.Close()

		if len(repos) == 0 {
			break
		}

		allRepos = append(allRepos, repos...)

		// Oldest record of the page is its last element (sorted descending).
		if !since.IsZero() && repos[len(repos)-1].UpdatedAt.Before(since) {
			logger.Debug("Page below cursor, stopping pagination",
				zap.Int("page", page),
				zap.Time("cursor", since))
			break
		}

		page++
		retried = false
	}

	logger.Info("Successfully fetched repos",
		zap.String("org", org),
		zap.Int("total_count", len(allRepos)),
		zap.Int("pages", page))

	return allRepos, nil
}

// isRateLimited reports whether the response is a primary rate-limit rejection
func isRateLimited(resp *http.Response) bool {
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// parseRateLimit parses rate limit information from response headers
func parseRateLimit(resp *http.Response) RateLimit {
	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	remaining, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining"))
	reset, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)

	return RateLimit{
		Limit:     limit,
		Remaining: remaining,
		Reset:     time.Unix(reset, 0),
	}
}

// waitForRateLimit sleeps until the rate limit window resets
func waitForRateLimit(resp *http.Response) {
	rl := parseRateLimit(resp)
	waitTime := time.Until(rl.Reset)
	logger.Info("Rate limit exceeded, waiting for reset",
		zap.Int("limit", rl.Limit),
		zap.Time("reset_time", rl.Reset),
		zap.Duration("wait_time", waitTime))
	if waitTime > 0 {
		time.Sleep(waitTime)
	}
}

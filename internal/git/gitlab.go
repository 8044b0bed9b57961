package git

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/freema/fgit/internal/apperror"
	"github.com/freema/fgit/internal/logger"
	"github.com/freema/fgit/internal/metrics"
)

// MergeRequest is one open merge request as printed by `fgit mrs`.
type MergeRequest struct {
	Title  string
	Author string
	WebURL string
}

// String renders the merge request as "{title} by {author} ({web_url})".
func (m MergeRequest) String() string {
	return fmt.Sprintf("%s by %s (%s)", m.Title, m.Author, m.WebURL)
}

// mergeRequestJSON mirrors the API object. Pointer fields distinguish an
// absent key from an empty string.
type mergeRequestJSON struct {
	Title  *string `json:"title"`
	Author *struct {
		Name *string `json:"name"`
	} `json:"author"`
	WebURL *string `json:"web_url"`
}

// GitLabClient lists merge requests via the GitLab REST API.
type GitLabClient struct {
	client  *http.Client
	baseURL string
}

// NewGitLabClient creates a GitLab client for baseURL. A zero timeout means none.
func NewGitLabClient(baseURL string, timeout time.Duration) *GitLabClient {
	return &GitLabClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ListMergeRequests performs one authenticated GET of the project's merge
// requests and decodes every item. Any missing field fails the whole listing.
func (c *GitLabClient) ListMergeRequests(ctx context.Context, token, projectID string) ([]MergeRequest, error) {
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests", c.baseURL, url.PathEscape(projectID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating merge request listing: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	logger.FromContext(ctx).Debug("listing merge requests", "endpoint", endpoint)

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.GitLabRequestsTotal.WithLabelValues("error").Inc()
		return nil, apperror.RemoteAPI("Failed to list merge requests: %s", sanitizeString(err.Error(), token))
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	metrics.GitLabRequestsTotal.WithLabelValues(status).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.RemoteAPI("Failed to list merge requests: %s", status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.RemoteAPI("Failed to read response: %v", err)
	}

	var items []mergeRequestJSON
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, apperror.RemoteAPI("Failed to parse response JSON: %v", err)
	}

	mrs := make([]MergeRequest, 0, len(items))
	for _, item := range items {
		mr, err := item.toMergeRequest()
		if err != nil {
			return nil, err
		}
		mrs = append(mrs, mr)
	}
	return mrs, nil
}

func (m mergeRequestJSON) toMergeRequest() (MergeRequest, error) {
	if m.Title == nil {
		return MergeRequest{}, apperror.MissingField("title", "Missing merge request title")
	}
	if m.Author == nil || m.Author.Name == nil {
		return MergeRequest{}, apperror.MissingField("author.name", "Missing merge request author name")
	}
	if m.WebURL == nil {
		return MergeRequest{}, apperror.MissingField("web_url", "Missing merge request web URL")
	}
	return MergeRequest{Title: *m.Title, Author: *m.Author.Name, WebURL: *m.WebURL}, nil
}

// sanitizeString masks token in s.
func sanitizeString(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "***")
}

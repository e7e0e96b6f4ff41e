// Package circle is the client for the community platform's headless API.
// Pulls are strictly sequential: one space at a time, one page at a time,
// with a fixed delay between pages to stay under the rate limit.
package circle

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
	"strings"
	"time"

	"github.com/okian/worthboard/internal/domain/normalize"
	"github.com/okian/worthboard/pkg/logger"
	"github.com/okian/worthboard/pkg/metrics"
)

const (
	defaultBaseURL   = "https://app.circle.so"
	defaultPerPage   = 100
	defaultPageDelay = 250 * time.Millisecond
	defaultTimeout   = 30 * time.Second

	authPath    = "/api/v1/headless/auth_token"
	headlessAPI = "/api/headless/v1"

	bearerPrefix = "Bearer "
)

// Credential is an access token ready for the Authorization header.
type Credential string

// Valid reports whether the credential can be used for pulls.
func (c Credential) Valid() bool {
	return strings.HasPrefix(string(c), bearerPrefix) && len(c) > len(bearerPrefix)
}

// Space is one entry of the spaces listing.
type Space struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SpaceType string `json:"space_type"`
}

// Client talks to the platform API.
type Client struct {
	baseURL   string
	http      *http.Client
	perPage   int
	pageDelay time.Duration
	logger    logger.Logger
}

// New creates a client with production defaults.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: defaultTimeout},
		perPage:   defaultPerPage,
		pageDelay: defaultPageDelay,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate exchanges a headless pre-token and member email for an
// access credential. Any non-200 answer yields ErrInvalidCredentials;
// transport failures are returned wrapped.
func (c *Client) Authenticate(ctx context.Context, preToken, email string) (Credential, error) {
	const endpoint = "auth_token"
	if strings.TrimSpace(preToken) == "" || strings.TrimSpace(email) == "" {
		return "", ErrInvalidCredentials
	}
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return "", fmt.Errorf("encode auth request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+authPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Authorization", bearerPrefix+preToken)
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(req, endpoint, &out); err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			metrics.RecordAuthFailure()
			c.logger.Warn(ctx, "credential exchange rejected", logger.Error(err))
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if out.AccessToken == "" {
		metrics.RecordAuthFailure()
		return "", ErrInvalidCredentials
	}
	return Credential(bearerPrefix + out.AccessToken), nil
}

// Spaces lists the community's spaces in API order.
func (c *Client) Spaces(ctx context.Context, cred Credential) ([]Space, error) {
	if !cred.Valid() {
		return nil, ErrInvalidCredentials
	}
	req, err := c.get(ctx, cred, headlessAPI+"/spaces", nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(req, "spaces", &raw); err != nil {
		return nil, err
	}
	// The listing is a bare array; tolerate a paginated envelope too.
	var spaces []Space
	if err := json.Unmarshal(raw, &spaces); err == nil {
		return spaces, nil
	}
	var page struct {
		Records []Space `json:"records"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("%w: spaces: %w", ErrDecode, err)
	}
	return page.Records, nil
}

// SpacePosts pulls every post of one space, newest first.
func (c *Client) SpacePosts(ctx context.Context, cred Credential, spaceID int64) ([]normalize.PostRecord, error) {
	path := fmt.Sprintf("%s/spaces/%d/posts", headlessAPI, spaceID)
	query := url.Values{"sort": {"latest"}}
	return paginate[normalize.PostRecord](ctx, c, cred, "posts", path, query)
}

// Events pulls past and upcoming community events.
func (c *Client) Events(ctx context.Context, cred Credential) ([]normalize.EventRecord, error) {
	query := url.Values{"past_events": {"true"}}
	return paginate[normalize.EventRecord](ctx, c, cred, "events", headlessAPI+"/community_events", query)
}

// MemberCount returns the total number of community members.
func (c *Client) MemberCount(ctx context.Context, cred Credential) (int, error) {
	if !cred.Valid() {
		return 0, ErrInvalidCredentials
	}
	req, err := c.get(ctx, cred, headlessAPI+"/community_members", url.Values{
		"page": {"1"}, "per_page": {"1"},
	})
	if err != nil {
		return 0, err
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(req, "community_members", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

type page[R any] struct {
	Records     []R  `json:"records"`
	HasNextPage bool `json:"has_next_page"`
}

// paginate requests pages from 1 until a page is empty or the API reports
// no next page, sleeping pageDelay between requests.
func paginate[R any](ctx context.Context, c *Client, cred Credential, resource, path string, query url.Values) ([]R, error) {
	if !cred.Valid() {
		return nil, ErrInvalidCredentials
	}
	var all []R
	for n := 1; ; n++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("per_page", strconv.Itoa(c.perPage))
		q.Set("page", strconv.Itoa(n))

		req, err := c.get(ctx, cred, path, q)
		if err != nil {
			return nil, err
		}
		var p page[R]
		if err := c.do(req, resource, &p); err != nil {
			return nil, fmt.Errorf("%s page %d: %w", resource, n, err)
		}
		metrics.RecordPageFetched(resource, len(p.Records))
		c.logger.Debug(ctx, "page fetched",
			logger.String("resource", resource),
			logger.String("path", path),
			logger.Int("page", n),
			logger.Int("records", len(p.Records)),
		)
		if len(p.Records) == 0 {
			break
		}
		all = append(all, p.Records...)
		if !p.HasNextPage {
			break
		}
		if err := sleep(ctx, c.pageDelay); err != nil {
			return nil, err
		}
	}
	return all, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("pagination interrupted: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

func (c *Client) get(ctx context.Context, cred Credential, path string, query url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Authorization", string(cred))
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a JSON body into out. Non-2xx statuses become
// *StatusError.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RecordUpstreamRequest(endpoint, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordUpstreamError(endpoint, "transport")
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		metrics.RecordUpstreamError(endpoint, "status_"+strconv.Itoa(resp.StatusCode))
		return &StatusError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordUpstreamError(endpoint, "decode")
		return fmt.Errorf("%w: %s: %w", ErrDecode, endpoint, err)
	}
	return nil
}

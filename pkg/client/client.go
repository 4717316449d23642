package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the CRM API. Safe for concurrent use. Session cookies are
// kept in a jar so authenticated calls work after the browser-side login
// redirect hands over the session.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The caller is
// responsible for its cookie jar if session endpoints are used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// listEnvelope is the server's list read shape.
type listEnvelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

// do issues the request and decodes a 2xx body into out. A non-2xx status
// becomes an HTTPError, transport failures become NetworkError, and a body
// that does not decode becomes ParseError. out may be nil for endpoints
// whose body is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	fullURL := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("could not encode request body: %v", err)}
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("could not build request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{URL: fullURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{Status: resp.StatusCode}
		var envelope errorEnvelope
		if json.Unmarshal(raw, &envelope) == nil {
			httpErr.Code = envelope.Error.Code
			httpErr.Message = envelope.Error.Message
		}
		return httpErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{URL: fullURL, Err: err}
	}
	return nil
}

// getList fetches a list endpoint. The server wraps list reads in
// {success, data, pagination}, but a bare JSON array is also accepted.
// Anything else is a ParseError, never an empty page.
func getList[T any](ctx context.Context, c *Client, path string) (*Page[T], error) {
	fullURL := c.baseURL + path

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, &ParseError{URL: fullURL, Err: fmt.Errorf("empty response body")}
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &ParseError{URL: fullURL, Err: err}
		}
		return &Page[T]{Items: items}, nil
	}

	var envelope listEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, &ParseError{URL: fullURL, Err: err}
	}
	if envelope.Data == nil {
		return nil, &ParseError{URL: fullURL, Err: fmt.Errorf("response has no data field")}
	}

	var items []T
	if err := json.Unmarshal(envelope.Data, &items); err != nil {
		return nil, &ParseError{URL: fullURL, Err: err}
	}

	return &Page[T]{Items: items, Pagination: envelope.Pagination}, nil
}

// pageQuery renders pagination params, omitting unset values.
func pageQuery(page, pageSize int) string {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Customers lists customers.
func (c *Client) Customers(ctx context.Context, page, pageSize int) (*Page[Customer], error) {
	return getList[Customer](ctx, c, "/customers"+pageQuery(page, pageSize))
}

// Customer fetches a single customer.
func (c *Client) Customer(ctx context.Context, id int64) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders lists orders.
func (c *Client) Orders(ctx context.Context, page, pageSize int) (*Page[Order], error) {
	return getList[Order](ctx, c, "/orders"+pageQuery(page, pageSize))
}

// CustomerOrders lists one customer's orders.
func (c *Client) CustomerOrders(ctx context.Context, customerID int64) (*Page[Order], error) {
	return getList[Order](ctx, c, fmt.Sprintf("/orders/customer/%d", customerID))
}

// Segments lists segments.
func (c *Client) Segments(ctx context.Context, page, pageSize int) (*Page[Segment], error) {
	return getList[Segment](ctx, c, "/segments"+pageQuery(page, pageSize))
}

// CreateSegment creates a segment from the given rules.
func (c *Client) CreateSegment(ctx context.Context, name string, conditions []Condition, logic string) (*Segment, error) {
	if err := validateSegmentInput(conditions, logic); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &ValidationError{Message: "segment name is required"}
	}

	payload := map[string]interface{}{
		"name":       name,
		"conditions": conditions,
		"logic":      logic,
	}

	var out Segment
	if err := c.do(ctx, http.MethodPost, "/segments", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PreviewSegment reports how many customers the rules currently match,
// with a bounded sample. A failure here means the preview is unknown, not
// that zero customers match.
func (c *Client) PreviewSegment(ctx context.Context, conditions []Condition, logic string) (*PreviewResult, error) {
	if err := validateSegmentInput(conditions, logic); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"conditions": conditions,
		"logic":      logic,
	}

	var out PreviewResult
	if err := c.do(ctx, http.MethodPost, "/segments/preview", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SegmentAudience lists the customers a segment currently matches.
func (c *Client) SegmentAudience(ctx context.Context, segmentID int64) (*Page[Customer], error) {
	return getList[Customer](ctx, c, fmt.Sprintf("/segments/%d/audience", segmentID))
}

// Campaigns lists campaigns.
func (c *Client) Campaigns(ctx context.Context, page, pageSize int) (*Page[Campaign], error) {
	return getList[Campaign](ctx, c, "/campaigns"+pageQuery(page, pageSize))
}

// CreateCampaign creates a campaign targeted at a segment and queues its
// deliveries.
func (c *Client) CreateCampaign(ctx context.Context, name string, segmentID int64, message string) (*CreateCampaignResult, error) {
	if name == "" {
		return nil, &ValidationError{Message: "campaign name is required"}
	}
	if segmentID <= 0 {
		return nil, &ValidationError{Message: "segment is required"}
	}
	if message == "" {
		return nil, &ValidationError{Message: "campaign message is required"}
	}

	payload := map[string]interface{}{
		"name":       name,
		"segment_id": segmentID,
		"message":    message,
	}

	var out CreateCampaignResult
	if err := c.do(ctx, http.MethodPost, "/campaigns", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CampaignHistory lists campaigns most recent first with delivery stats.
func (c *Client) CampaignHistory(ctx context.Context) (*Page[CampaignHistoryEntry], error) {
	return getList[CampaignHistoryEntry](ctx, c, "/campaigns/history")
}

// CampaignStats fetches the server-computed delivery stats for a campaign.
func (c *Client) CampaignStats(ctx context.Context, campaignID int64) (*CampaignStats, error) {
	var out CampaignStats
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/campaigns/%d/stats", campaignID), nil, &out); err != nil {
		return nil, err
	}
	out.Source = StatsSourceServer
	return &out, nil
}

// Communications lists delivery logs, optionally filtered by campaign.
func (c *Client) Communications(ctx context.Context, campaignID int64, page, pageSize int) (*Page[CommunicationLog], error) {
	q := url.Values{}
	if campaignID > 0 {
		q.Set("campaign_id", strconv.FormatInt(campaignID, 10))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/communications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return getList[CommunicationLog](ctx, c, path)
}

// CampaignCommunications lists every delivery log of one campaign.
func (c *Client) CampaignCommunications(ctx context.Context, campaignID int64) (*Page[CommunicationLog], error) {
	return getList[CommunicationLog](ctx, c, fmt.Sprintf("/communications/campaign/%d", campaignID))
}

// DashboardStats fetches the dashboard aggregate. The server computes it all
// or nothing, so an error means no numbers are available at all.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// userEnvelope is the /auth/user shape: success=false with no user means
// unauthenticated, which is not an error.
type userEnvelope struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

// CurrentUser returns the session user, or nil when unauthenticated.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.User == nil {
		return nil, nil
	}
	return out.User, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// validateSegmentInput checks segment rules client side before hitting the
// network.
func validateSegmentInput(conditions []Condition, logic string) error {
	if len(conditions) == 0 {
		return &ValidationError{Message: "at least one condition is required"}
	}
	if logic != "AND" && logic != "OR" {
		return &ValidationError{Message: fmt.Sprintf("logic must be AND or OR, got %q", logic)}
	}
	for i, cond := range conditions {
		if cond.Field == "" {
			return &ValidationError{Message: fmt.Sprintf("condition %d has no field", i)}
		}
		if cond.Operator == "" {
			return &ValidationError{Message: fmt.Sprintf("condition %d has no operator", i)}
		}
		if cond.Value == nil {
			return &ValidationError{Message: fmt.Sprintf("condition %d has no value", i)}
		}
	}
	return nil
}

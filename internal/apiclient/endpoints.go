package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"querypulse/internal/domain"
)

// LoginResult is the token grant returned by the login endpoint.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates an account. The backend logs the user in separately.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (domain.User, error) {
	body := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}
	var u domain.User
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, body, &u)
	return u, err
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res LoginResult
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, body, &res)
	return res, err
}

// Me fetches the profile behind the current token.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &u)
	return u, err
}

// CompleteOnboarding marks the account's onboarding flow as finished.
func (c *Client) CompleteOnboarding(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/onboarding/complete", nil, nil, nil)
}

// Health probes the API's liveness endpoint (unversioned, unauthenticated).
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return err
	}
	if err := CheckError(resp); err != nil {
		return err
	}
	_, err = ReadBody(resp)
	return err
}

// ListDatabases returns every registered connection.
func (c *Client) ListDatabases(ctx context.Context) ([]domain.Connection, error) {
	var conns []domain.Connection
	err := c.doJSON(ctx, http.MethodGet, "/databases", nil, nil, &conns)
	return conns, err
}

// CreateDatabase registers a connection and returns the stored record.
func (c *Client) CreateDatabase(ctx context.Context, nc domain.NewConnection) (domain.Connection, error) {
	var conn domain.Connection
	err := c.doJSON(ctx, http.MethodPost, "/databases", nil, nc, &conn)
	return conn, err
}

// GetDatabase fetches one connection by ID.
func (c *Client) GetDatabase(ctx context.Context, id string) (domain.Connection, error) {
	var conn domain.Connection
	err := c.doJSON(ctx, http.MethodGet, "/databases/"+url.PathEscape(id), nil, nil, &conn)
	return conn, err
}

// DeleteDatabase removes a connection.
func (c *Client) DeleteDatabase(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/databases/"+url.PathEscape(id), nil, nil, nil)
}

// TestResult reports whether the backend could reach a candidate database.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TestConnection validates connection details without saving them.
func (c *Client) TestConnection(ctx context.Context, nc domain.NewConnection) (TestResult, error) {
	var res TestResult
	err := c.doJSON(ctx, http.MethodPost, "/databases/test-connection", nil, nc, &res)
	return res, err
}

// SlowQueries fetches up to limit slow-query records for a database.
func (c *Client) SlowQueries(ctx context.Context, databaseID string, limit int) ([]domain.QueryRecord, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var records []domain.QueryRecord
	err := c.doJSON(ctx, http.MethodGet, "/databases/"+url.PathEscape(databaseID)+"/queries/slow", query, nil, &records)
	return records, err
}

// QueryDetails fetches one query with stats and recommendations.
func (c *Client) QueryDetails(ctx context.Context, id string) (domain.QueryDetail, error) {
	var detail domain.QueryDetail
	err := c.doJSON(ctx, http.MethodGet, "/queries/"+url.PathEscape(id), nil, nil, &detail)
	return detail, err
}

// Metrics fetches the dashboard time series for a database.
func (c *Client) Metrics(ctx context.Context, databaseID, timeRange string) (domain.MetricsSeries, error) {
	query := url.Values{}
	if timeRange != "" {
		query.Set("time_range", timeRange)
	}
	var series domain.MetricsSeries
	err := c.doJSON(ctx, http.MethodGet, "/databases/"+url.PathEscape(databaseID)+"/metrics", query, nil, &series)
	return series, err
}

// QueryPatterns fetches recurring query fingerprints over the given window.
func (c *Client) QueryPatterns(ctx context.Context, databaseID string, hours int) ([]domain.QueryPattern, error) {
	query := url.Values{}
	if hours > 0 {
		query.Set("hours", strconv.Itoa(hours))
	}
	var patterns []domain.QueryPattern
	err := c.doJSON(ctx, http.MethodGet, "/databases/"+url.PathEscape(databaseID)+"/intelligence/patterns", query, nil, &patterns)
	return patterns, err
}

// PerformanceTrends fetches the regression list for a database.
func (c *Client) PerformanceTrends(ctx context.Context, databaseID string) ([]domain.PerformanceTrend, error) {
	var trends []domain.PerformanceTrend
	err := c.doJSON(ctx, http.MethodGet, "/databases/"+url.PathEscape(databaseID)+"/intelligence/trends", nil, nil, &trends)
	return trends, err
}

// ApplyRecommendation marks a recommendation applied and returns its new state.
func (c *Client) ApplyRecommendation(ctx context.Context, id string) (domain.Recommendation, error) {
	var rec domain.Recommendation
	err := c.doJSON(ctx, http.MethodPost, "/recommendations/"+url.PathEscape(id)+"/apply", nil, nil, &rec)
	return rec, err
}

// DismissRecommendation marks a recommendation dismissed and returns its new state.
func (c *Client) DismissRecommendation(ctx context.Context, id string) (domain.Recommendation, error) {
	var rec domain.Recommendation
	err := c.doJSON(ctx, http.MethodPost, "/recommendations/"+url.PathEscape(id)+"/dismiss", nil, nil, &rec)
	return rec, err
}

// CheckoutSession is a redirect target created by the billing backend.
type CheckoutSession struct {
	URL string `json:"url"`
}

// CreateCheckoutSession starts a plan upgrade and returns the redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, plan string) (CheckoutSession, error) {
	body := map[string]string{"plan": plan}
	var session CheckoutSession
	err := c.doJSON(ctx, http.MethodPost, "/billing/checkout", nil, body, &session)
	return session, err
}

// CreatePortalSession opens the billing portal and returns the redirect URL.
func (c *Client) CreatePortalSession(ctx context.Context) (CheckoutSession, error) {
	var session CheckoutSession
	err := c.doJSON(ctx, http.MethodPost, "/billing/portal", nil, nil, &session)
	return session, err
}

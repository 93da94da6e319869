// Package client talks to the enrollment API and keeps the signed-in session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

// ErrUnreachable means no HTTP response came back at all.
var ErrUnreachable = errors.New("server is unreachable")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status   int
	Code     string `json:"error"`
	Message  string `json:"message"`
	Degraded bool   `json:"degraded"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL  string
	http     *http.Client
	sessions *SessionStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, sessions *SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
		sessions: sessions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() Session {
	return c.sessions.Current()
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
}

// do sends body as JSON and decodes the response data into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		if resp.StatusCode == http.StatusUnauthorized && c.sessions.Current().IsAuthenticated() {
			// The stored token is dead; drop it so the guard routes to login.
			_ = c.sessions.Logout()
		}
		return nil, apiErr
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return &env, nil
}

type authResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, req validator.RegisterRequest) (*models.User, error) {
	var res authResult
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return res.User, c.sessions.Login(res.User, res.Token)
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var res authResult
	body := validator.LoginRequest{Email: email, Password: password}
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return res.User, c.sessions.Login(res.User, res.Token)
}

func (c *Client) Logout() error {
	return c.sessions.Logout()
}

type userData struct {
	User *models.User `json:"user"`
}

type studentData struct {
	Student *models.User `json:"student"`
}

// Profile fetches the signed-in user and refreshes the session copy.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	return c.userCall(ctx, http.MethodGet, "/auth/profile", nil)
}

func (c *Client) UpdateProfile(ctx context.Context, req validator.UpdateProfileRequest) (*models.User, error) {
	return c.userCall(ctx, http.MethodPatch, "/student/profile", req)
}

func (c *Client) UploadDocument(ctx context.Context, url string) (*models.User, error) {
	return c.userCall(ctx, http.MethodPost, "/student/upload-document", validator.DocumentRequest{DocumentURL: url})
}

func (c *Client) UploadPaymentReceipt(ctx context.Context, url string) (*models.User, error) {
	return c.userCall(ctx, http.MethodPost, "/student/upload-payment-receipt", validator.ReceiptRequest{PaymentReceiptURL: url})
}

func (c *Client) userCall(ctx context.Context, method, path string, body interface{}) (*models.User, error) {
	var data userData
	if _, err := c.do(ctx, method, path, body, &data); err != nil {
		return nil, err
	}
	return data.User, c.sessions.SetUser(data.User)
}

// Students lists the roster. Admin only.
func (c *Client) Students(ctx context.Context) ([]*models.User, error) {
	var data struct {
		Students []*models.User `json:"students"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/admin/students", nil, &data); err != nil {
		return nil, err
	}
	return data.Students, nil
}

func (c *Client) FinancialStats(ctx context.Context) (models.FinancialStats, error) {
	var stats models.FinancialStats
	_, err := c.do(ctx, http.MethodGet, "/admin/financial-stats", nil, &stats)
	return stats, err
}

func (c *Client) TogglePayment(ctx context.Context, studentID string) (*models.User, error) {
	return c.studentCall(ctx, "/admin/students/"+studentID, nil)
}

func (c *Client) SetCourse(ctx context.Context, studentID, course string) (*models.User, error) {
	return c.studentCall(ctx, "/admin/students/"+studentID+"/course", validator.CourseRequest{EnrolledCourse: course})
}

func (c *Client) SetClearance(ctx context.Context, studentID string, cleared bool) (*models.User, error) {
	return c.studentCall(ctx, "/admin/students/"+studentID+"/clearance", validator.ClearanceRequest{AdminClearance: &cleared})
}

func (c *Client) studentCall(ctx context.Context, path string, body interface{}) (*models.User, error) {
	var data studentData
	if _, err := c.do(ctx, http.MethodPatch, path, body, &data); err != nil {
		return nil, err
	}
	return data.Student, nil
}

// BatchMarkPaid returns how many students matched.
func (c *Client) BatchMarkPaid(ctx context.Context, studentIDs []string) (int, error) {
	var data struct {
		Count int `json:"count"`
	}
	_, err := c.do(ctx, http.MethodPatch, "/admin/students/batch-payment", validator.BatchPaymentRequest{StudentIDs: studentIDs}, &data)
	return data.Count, err
}

func (c *Client) CreatePayment(ctx context.Context, req validator.CreatePaymentRequest) (*models.Payment, error) {
	var data struct {
		Payment *models.Payment `json:"payment"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/payments", req, &data); err != nil {
		return nil, err
	}
	return data.Payment, nil
}

func (c *Client) Payments(ctx context.Context) ([]*models.Payment, error) {
	var data struct {
		Payments []*models.Payment `json:"payments"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/payments", nil, &data); err != nil {
		return nil, err
	}
	return data.Payments, nil
}

// Health is the unauthenticated status probe.
type Health struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	DBConnected bool   `json:"dbConnected"`
	Mode        string `json:"mode"`
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &h, nil
}

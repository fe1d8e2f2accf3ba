package client

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

	"github.com/tasktrack/tasktrack/internal/types"
)

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ListQuery mirrors the GET /tasks query parameters. Zero values are omitted.
type ListQuery struct {
	Status   string
	Priority int
	Category string
	Sort     string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Priority != 0 {
		v.Set("priority", strconv.Itoa(q.Priority))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// APIClient talks to the task server over HTTP. The bearer token, once set,
// is attached to every request.
type APIClient struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *APIClient) SetToken(token string) { c.token = token }
func (c *APIClient) Token() string         { return c.token }

func (c *APIClient) Register(ctx context.Context, req RegisterRequest) (*types.AuthResponse, error) {
	var resp types.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*types.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp types.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) Me(ctx context.Context) (*types.UserResponse, error) {
	var resp struct {
		User types.UserResponse `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/auth/logout", nil, nil, nil)
}

func (c *APIClient) DeleteAccount(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodDelete, "/auth/me", nil, map[string]string{"password": password}, nil)
}

func (c *APIClient) ListTasks(ctx context.Context, q ListQuery) ([]Task, error) {
	tasks := []Task{}
	if err := c.do(ctx, http.MethodGet, "/tasks", q.values(), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *APIClient) GetTask(ctx context.Context, id uint) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *APIClient) CreateTask(ctx context.Context, in NewTask) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *APIClient) UpdateTask(ctx context.Context, id uint, patch TaskPatch) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), nil, patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *APIClient) ToggleTask(ctx context.Context, id uint) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id)+"/toggle", nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *APIClient) DeleteTask(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

func taskPath(id uint) string {
	return "/tasks/" + strconv.FormatUint(uint64(id), 10)
}

func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		}
		apiErr.Fields = body.Errors
	}
	return apiErr
}

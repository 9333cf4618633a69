// Package customer talks to the customer backend over HTTP with JSON bodies.
package customer

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

	"github.com/idilsaglam/todocrm/internal/model"
)

// Path is the customer resource on the backend.
const Path = "/customer"

// ErrStatus matches any *StatusError with errors.Is.
var ErrStatus = errors.New("unexpected status")

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Code, http.StatusText(e.Code), e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// Repository fetches and submits customers. There are no retries, no
// pagination and no local cache.
type Repository struct {
	baseURL string
	client  *http.Client
}

// New returns a repository for baseURL (e.g. http://10.0.2.2:8080).
// A nil client gets one with the given timeout.
func New(baseURL string, client *http.Client, timeout time.Duration) *Repository {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Repository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (r *Repository) url() string { return r.baseURL + Path }

// GetCustomers issues GET /customer and decodes the wrapped list.
func (r *Repository) GetCustomers(ctx context.Context) (model.CustomerResponse, error) {
	var out model.CustomerResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url(), nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("get customers: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return out, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode customers: %w", err)
	}
	if out.Customer == nil {
		out.Customer = []model.Customer{}
	}
	return out, nil
}

// AddCustomer issues POST /customer with c as the JSON body. The created
// resource in the response, if any, is not read.
func (r *Repository) AddCustomer(ctx context.Context, c model.Customer) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("add customer: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		Method: resp.Request.Method,
		URL:    resp.Request.URL.String(),
		Code:   resp.StatusCode,
		Body:   strings.TrimSpace(string(b)),
	}
}

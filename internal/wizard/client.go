// Package wizard is the client tier of the registration flow: an API client,
// a dynamic field renderer and the step controllers driving it.
package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"udyam/internal/pincode"
	"udyam/internal/registration/models"
	"udyam/internal/schema"
	"udyam/pkg/platform/httputil"
)

// APIError is a non-2xx answer from the registration API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ValidationError is a client-side rule failure; no request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// messageOf returns the server's message for err, or fallback when the
// server never answered or sent none.
func messageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client talks to the registration API mounted under {baseURL}/api.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), http: httpClient}
}

// Schema fetches the renderable descriptors of step.
func (c *Client) Schema(ctx context.Context, step string) ([]schema.FieldDescriptor, error) {
	var fields []schema.FieldDescriptor
	if err := c.do(ctx, http.MethodGet, "/api/schema/"+url.PathEscape(step), nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (c *Client) ValidateAadhaar(ctx context.Context, req models.ValidateAadhaarRequest) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/validate-aadhaar", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ValidateOTP(ctx context.Context, req models.ValidateOTPRequest) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/validate-otp", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SubmitStep(ctx context.Context, step string, payload map[string]any) (*models.StepResponse, error) {
	var resp models.StepResponse
	if err := c.do(ctx, http.MethodPost, "/api/"+url.PathEscape(step), payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LookupPincode resolves a postal code through the server-side proxy.
func (c *Client) LookupPincode(ctx context.Context, code string) (*pincode.Locality, error) {
	var loc pincode.Locality
	if err := c.do(ctx, http.MethodGet, "/api/pincode/"+url.PathEscape(code), nil, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody httputil.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{Status: resp.StatusCode, Message: errBody.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

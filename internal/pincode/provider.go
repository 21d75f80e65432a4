package pincode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"udyam/pkg/platform/sentinel"
)

// maxResponseBytes bounds the body read from the postal API.
const maxResponseBytes = 1 << 20

type postOffice struct {
	Name     string `json:"Name"`
	District string `json:"District"`
	State    string `json:"State"`
	Region   string `json:"Region"`
	Country  string `json:"Country"`
}

type lookupResult struct {
	Status     string       `json:"Status"`
	Message    string       `json:"Message"`
	PostOffice []postOffice `json:"PostOffice"`
}

// HTTPProvider queries api.postalpincode.in style endpoints: GET {base}/{code}.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup returns sentinel.ErrNotFound when the API reports no post office for code.
func (p *HTTPProvider) Lookup(ctx context.Context, code string) (*Locality, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+code, nil)
	if err != nil {
		return nil, fmt.Errorf("build pincode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: pincode request: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read pincode response: %w", sentinel.ErrUnavailable, err)
	}
	return parseLookupResponse(code, resp.StatusCode, body)
}

func parseLookupResponse(code string, status int, body []byte) (*Locality, error) {
	if status == http.StatusNotFound {
		return nil, sentinel.ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: pincode api returned status %d", sentinel.ErrUnavailable, status)
	}

	var results []lookupResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode pincode response: %w", err)
	}
	if len(results) == 0 || !strings.EqualFold(results[0].Status, "Success") || len(results[0].PostOffice) == 0 {
		return nil, sentinel.ErrNotFound
	}

	office := results[0].PostOffice[0]
	return &Locality{
		Pincode:  code,
		Name:     office.Name,
		District: office.District,
		State:    office.State,
		Region:   office.Region,
		Country:  office.Country,
	}, nil
}

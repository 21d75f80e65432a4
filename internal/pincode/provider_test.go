package pincode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyam/pkg/platform/sentinel"
)

const successBody = `[{
	"Message": "Number of pincode(s) found:1",
	"Status": "Success",
	"PostOffice": [
		{"Name": "Connaught Place", "District": "Central Delhi", "State": "Delhi", "Region": "Delhi", "Country": "India"},
		{"Name": "Janpath", "District": "Central Delhi", "State": "Delhi", "Region": "Delhi", "Country": "India"}
	]
}]`

func TestHTTPProvider_Lookup(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successBody))
	}))
	defer srv.Close()

	loc, err := NewHTTPProvider(srv.URL+"/pincode/", time.Second).Lookup(context.Background(), "110001")
	require.NoError(t, err)
	assert.Equal(t, "/pincode/110001", gotPath)
	assert.Equal(t, &Locality{
		Pincode:  "110001",
		Name:     "Connaught Place",
		District: "Central Delhi",
		State:    "Delhi",
		Region:   "Delhi",
		Country:  "India",
	}, loc)
}

func TestHTTPProvider_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL, time.Second).Lookup(context.Background(), "110001")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestHTTPProvider_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL, 20*time.Millisecond).Lookup(context.Background(), "110001")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestParseLookupResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"error status from api", http.StatusOK, `[{"Message":"No records found","Status":"Error","PostOffice":null}]`, sentinel.ErrNotFound},
		{"empty array", http.StatusOK, `[]`, sentinel.ErrNotFound},
		{"success without offices", http.StatusOK, `[{"Status":"Success","PostOffice":[]}]`, sentinel.ErrNotFound},
		{"http 404", http.StatusNotFound, ``, sentinel.ErrNotFound},
		{"http 500", http.StatusInternalServerError, ``, sentinel.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLookupResponse("999999", tt.status, []byte(tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		_, err := parseLookupResponse("999999", http.StatusOK, []byte(`{`))
		assert.ErrorContains(t, err, "decode pincode response")
	})
}

package wizard_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"udyam/internal/pincode"
	"udyam/internal/registration/handler"
	"udyam/internal/registration/service"
	"udyam/internal/registration/store"
	"udyam/internal/schema"
	"udyam/internal/wizard"
	"udyam/pkg/platform/sentinel"
)

type fakePostal struct {
	mu      sync.Mutex
	calls   int
	entries map[string]pincode.Locality
}

func (p *fakePostal) Lookup(_ context.Context, code string) (*pincode.Locality, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	loc, ok := p.entries[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &loc, nil
}

type apiFixture struct {
	server *httptest.Server
	client *wizard.Client
	postal *fakePostal
	schema *schema.Store
}

// newAPIFixture serves the real /api routes over the in-memory stores.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	schemaStore, err := schema.NewStore(schema.EmbeddedLoader())
	require.NoError(t, err)

	postal := &fakePostal{entries: map[string]pincode.Locality{
		"110001": {Pincode: "110001", Name: "Connaught Place", District: "Central Delhi", State: "Delhi"},
		"560001": {Pincode: "560001", Name: "Bangalore GPO", Region: "Bangalore HQ", State: "Karnataka"},
	}}
	lookups := pincode.NewService(postal, pincode.NewInMemoryCache(time.Hour), nil, logger)
	registrations := service.New(store.NewInMemoryStore(), schemaStore, service.WithLogger(logger))

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		schema.NewHandler(schemaStore, logger).Register(r)
		handler.New(registrations, logger).Register(r)
		pincode.NewHandler(lookups, logger).Register(r)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &apiFixture{
		server: srv,
		client: wizard.NewClient(srv.URL, srv.Client()),
		postal: postal,
		schema: schemaStore,
	}
}

func (f *apiFixture) fields(t *testing.T, step string) []schema.FieldDescriptor {
	t.Helper()
	fields, err := f.schema.Fields(step)
	require.NoError(t, err)
	return fields
}

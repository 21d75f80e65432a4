package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	dErrors "udyam/pkg/domain-errors"
)

//go:embed default_schema.json
var defaultSchema []byte

// ErrStepNotFound is returned for steps the schema does not define.
var ErrStepNotFound = dErrors.New(dErrors.CodeNotFound, "Step not found")

// Loader returns the raw JSON document of the schema: an object keyed by step name.
type Loader func() ([]byte, error)

// FileLoader reads the schema from path on every call.
func FileLoader(path string) Loader {
	return func() ([]byte, error) {
		return os.ReadFile(path)
	}
}

// EmbeddedLoader serves the schema compiled into the binary.
func EmbeddedLoader() Loader {
	return func() ([]byte, error) {
		return defaultSchema, nil
	}
}

// BytesLoader serves a fixed document.
func BytesLoader(data []byte) Loader {
	return func() ([]byte, error) {
		return data, nil
	}
}

type snapshot struct {
	steps map[string][]FieldDescriptor
	names []string
}

// Store holds the current field schema and swaps it atomically on Reload.
type Store struct {
	load    Loader
	current atomic.Pointer[snapshot]
}

// NewStore loads the schema once and fails if it cannot be parsed.
func NewStore(load Loader) (*Store, error) {
	s := &Store{load: load}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the source. On failure the previous snapshot stays in place.
func (s *Store) Reload() error {
	data, err := s.load()
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	snap, err := parse(data)
	if err != nil {
		return err
	}
	s.current.Store(snap)
	return nil
}

// GetSchema returns the non-hidden descriptors of step in file order.
func (s *Store) GetSchema(step string) ([]FieldDescriptor, error) {
	fields, ok := s.current.Load().steps[step]
	if !ok {
		return nil, ErrStepNotFound
	}
	visible := make([]FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		if !f.IsHidden() {
			visible = append(visible, f)
		}
	}
	return visible, nil
}

// Fields returns every descriptor of step, hidden ones and buttons included.
func (s *Store) Fields(step string) ([]FieldDescriptor, error) {
	fields, ok := s.current.Load().steps[step]
	if !ok {
		return nil, ErrStepNotFound
	}
	out := make([]FieldDescriptor, len(fields))
	copy(out, fields)
	return out, nil
}

// Steps returns the known step names, sorted.
func (s *Store) Steps() []string {
	names := s.current.Load().names
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func parse(data []byte) (*snapshot, error) {
	var raw map[string][]FieldDescriptor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("decode schema: no steps defined")
	}

	snap := &snapshot{steps: make(map[string][]FieldDescriptor, len(raw))}
	for step, fields := range raw {
		for i := range fields {
			switch fields[i].Kind {
			case "":
				fields[i].Kind = inferKind(fields[i])
			case KindAadhaar, KindOTP, KindPAN, KindPincode, KindName, KindConsent, KindCity, KindState, KindGeneric:
			default:
				return nil, fmt.Errorf("decode schema: step %q field %q: unknown kind %q", step, fields[i].Key(), fields[i].Kind)
			}
		}
		snap.steps[step] = fields
		snap.names = append(snap.names, step)
	}
	sort.Strings(snap.names)
	return snap, nil
}

package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Faultbox/c4studio/pkg/kvdoc"
)

// Suggestion defaults.
const (
	DefaultSuggestionLimit = 10
	DefaultSuggestionDelay = 100 * time.Millisecond
)

// Suggester filters documented field names while the user types a key.
type Suggester struct {
	store   *kvdoc.Store
	typ     kvdoc.Type
	section string
	all     []string
	limit   int

	mu        sync.Mutex
	query     string
	published bool
	last      string

	results   Feed[[]string]
	debouncer *Debouncer
}

// SuggesterOption configures a Suggester.
type SuggesterOption func(*Suggester)

// WithLimit caps the number of suggestions returned.
func WithLimit(n int) SuggesterOption {
	return func(s *Suggester) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithInputDelay sets the quiet period before typed input is filtered.
func WithInputDelay(d time.Duration) SuggesterOption {
	return func(s *Suggester) {
		s.debouncer = NewDebouncer(d, s.flushQuery)
	}
}

// NewSuggester loads the field names of section once and filters them on demand.
func NewSuggester(ctx context.Context, store *kvdoc.Store, t kvdoc.Type, section string, opts ...SuggesterOption) *Suggester {
	s := &Suggester{
		store:   store,
		typ:     t,
		section: section,
		all:     store.FieldSuggestions(ctx, t, section),
		limit:   DefaultSuggestionLimit,
	}
	s.debouncer = NewDebouncer(DefaultSuggestionDelay, s.flushQuery)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// All returns every known field name of the section, sorted.
func (s *Suggester) All() []string {
	return append([]string(nil), s.all...)
}

// Filter returns up to the limit of names containing query, ignoring case.
// A blank query returns the first names.
func (s *Suggester) Filter(query string) []string {
	var out []string
	needle := strings.ToLower(strings.TrimSpace(query))
	for _, name := range s.all {
		if len(out) >= s.limit {
			break
		}
		if needle == "" || strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
		}
	}
	return out
}

// Input records typed text. Subscribers receive the filtered list once
// typing pauses; repeating the previous query publishes nothing.
func (s *Suggester) Input(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	s.debouncer.Call()
}

// Select resolves a chosen suggestion to its documentation.
func (s *Suggester) Select(ctx context.Context, key string) *kvdoc.FieldDocumentation {
	return s.store.FieldDocumentation(ctx, s.typ, s.section, key)
}

// Subscribe registers fn for filtered suggestion lists.
func (s *Suggester) Subscribe(fn func([]string)) (unsubscribe func()) {
	return s.results.Subscribe(fn)
}

// Flush filters pending input immediately.
func (s *Suggester) Flush() {
	s.debouncer.Flush()
}

// Close stops pending filtering and drops subscribers.
func (s *Suggester) Close() {
	s.debouncer.Cancel()
	s.results.Close()
}

func (s *Suggester) flushQuery() {
	s.mu.Lock()
	query := s.query
	if s.published && query == s.last {
		s.mu.Unlock()
		return
	}
	s.published = true
	s.last = query
	s.mu.Unlock()

	s.results.Send(s.Filter(query))
}

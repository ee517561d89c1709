package kvdoc

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store loads documentation sets lazily and keeps them for its lifetime.
// A failed load caches an empty set, so each type is fetched at most once.
type Store struct {
	source Source
	log    *zap.Logger

	mu      sync.RWMutex
	cache   map[Type]DocumentationSet
	current Type

	group singleflight.Group

	// Stats
	hits    int
	fetches int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report load failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore creates a store backed by source.
func NewStore(source Source, opts ...Option) *Store {
	s := &Store{
		source:  source,
		log:     zap.NewNop(),
		cache:   make(map[Type]DocumentationSet),
		current: DefCore,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the documentation set for t. It never fails: any fetch or
// decode error is logged and an empty set is cached in its place.
// Concurrent loads of the same type share one fetch. A caller whose ctx
// ends first gets an empty set, but nothing is cached on its behalf and
// the shared fetch keeps running for the others.
func (s *Store) Load(ctx context.Context, t Type) DocumentationSet {
	s.mu.Lock()
	if set, ok := s.cache[t]; ok {
		s.hits++
		s.mu.Unlock()
		return set
	}
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		s.log.Debug("documentation load abandoned", zap.String("type", t.String()), zap.Error(err))
		return emptySet()
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(string(t), func() (interface{}, error) {
		// Another caller may have finished while we waited for the lock.
		s.mu.RLock()
		set, ok := s.cache[t]
		s.mu.RUnlock()
		if ok {
			return set, nil
		}

		set, err := s.fetch(fetchCtx, t)
		if isCancellation(err) {
			return set, err
		}

		s.mu.Lock()
		s.cache[t] = set
		s.mu.Unlock()
		return set, nil
	})

	select {
	case res := <-ch:
		return res.Val.(DocumentationSet)
	case <-ctx.Done():
		s.log.Debug("documentation load abandoned", zap.String("type", t.String()), zap.Error(ctx.Err()))
		return emptySet()
	}
}

// fetch reads and decodes the schema of t. Failures are logged and yield
// an empty set together with the error.
func (s *Store) fetch(ctx context.Context, t Type) (DocumentationSet, error) {
	cfg := ConfigFor(t)
	if cfg.Path == "" || s.source == nil {
		return emptySet(), nil
	}

	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()

	data, err := s.source.Fetch(ctx, cfg.Path)
	if err == nil {
		var set DocumentationSet
		if set, err = decodeSet(cfg.Path, data); err == nil {
			s.log.Debug("documentation loaded",
				zap.String("type", cfg.Name),
				zap.Int("sections", len(set.Sections)))
			return set, nil
		}
	}

	s.log.Error("failed to load documentation",
		zap.String("type", cfg.Name),
		zap.String("path", cfg.Path),
		zap.Error(err))
	return emptySet(), err
}

// isCancellation reports whether err came from an ended context rather
// than from the source or the document itself.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Preload loads the given types, or all types when none are given.
func (s *Store) Preload(ctx context.Context, types ...Type) {
	if len(types) == 0 {
		types = Types()
	}
	for _, t := range types {
		s.Load(ctx, t)
	}
}

// FieldSuggestions returns the sorted field names of section.
func (s *Store) FieldSuggestions(ctx context.Context, t Type, section string) []string {
	sec, ok := s.Load(ctx, t).Sections[section]
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(sec.Fields))
	for name := range sec.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldDocumentation looks up key in section. The match is exact and
// case-sensitive; nil means undocumented.
func (s *Store) FieldDocumentation(ctx context.Context, t Type, section, key string) *FieldDocumentation {
	sec, ok := s.Load(ctx, t).Sections[section]
	if !ok {
		return nil
	}
	doc, ok := sec.Fields[key]
	if !ok {
		return nil
	}
	return &doc
}

// SectionDescription returns the description of section, or "".
func (s *Store) SectionDescription(ctx context.Context, t Type, section string) string {
	return s.Load(ctx, t).Sections[section].Description
}

// AvailableSections returns the declared sections of t.
func (s *Store) AvailableSections(t Type) []string {
	return AvailableSections(t)
}

// IsFieldValid reports whether key is documented in section.
func (s *Store) IsFieldValid(ctx context.Context, t Type, section, key string) bool {
	return s.FieldDocumentation(ctx, t, section, key) != nil
}

// DetectDocumentationType is DetectDocumentationType as a method.
func (s *Store) DetectDocumentationType(content string) Type {
	return DetectDocumentationType(content)
}

// DetectSection is DetectSection as a method.
func (s *Store) DetectSection(content string, t Type) (string, bool) {
	return DetectSection(content, t)
}

// Current returns the documentation type currently selected by the user.
func (s *Store) Current() Type {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrent selects the current documentation type.
func (s *Store) SetCurrent(t Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = t
}

// Stats returns cache hits and the number of source fetches performed.
func (s *Store) Stats() (hits, fetches int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.fetches
}

// Package editor implements the editing surface for key-value files:
// a session holding parsed groups, edit commands that re-serialize after
// every change, documentation annotations and field suggestions.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/c4studio/pkg/kvdoc"
	"github.com/Faultbox/c4studio/pkg/kvtext"
)

// ErrIndexOutOfRange is returned by edit commands given a bad group or field index.
var ErrIndexOutOfRange = errors.New("index out of range")

// NewGroupName is the name of groups created by AddGroup.
const NewGroupName = "New Section"

// Change is published after an edit.
type Change struct {
	Content string
	Groups  []kvtext.Group
}

// Session edits one key-value document.
type Session struct {
	store *kvdoc.Store
	log   *zap.Logger

	mu     sync.Mutex
	raw    string
	groups []kvtext.Group
	typ    kvdoc.Type
	sep    string

	pinnedType bool
	pinnedSep  bool

	changes   Feed[Change]
	debouncer *Debouncer
}

// Option configures a Session.
type Option func(*Session)

// WithType pins the documentation type instead of detecting it.
func WithType(t kvdoc.Type) Option {
	return func(s *Session) {
		s.typ = t
		s.pinnedType = true
	}
}

// WithSeparator pins the separator instead of detecting it.
func WithSeparator(sep string) Option {
	return func(s *Session) {
		if sep != "" {
			s.sep = sep
			s.pinnedSep = true
		}
	}
}

// WithDebounce delays change notifications until edits pause for d.
// Zero delivers every change immediately.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.debouncer = NewDebouncer(d, s.publish)
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSession creates an empty session backed by store. A nil store
// means no documentation is available.
func NewSession(store *kvdoc.Store, opts ...Option) *Session {
	if store == nil {
		store = kvdoc.NewStore(nil)
	}
	s := &Session{
		store: store,
		log:   zap.NewNop(),
		typ:   kvdoc.DefCore,
		sep:   kvtext.DefaultSeparator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetContent replaces the document. Type and separator are detected from
// raw unless pinned; fields are annotated with their documentation.
// Setting content does not notify subscribers.
func (s *Session) SetContent(ctx context.Context, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pinnedType {
		s.typ = kvdoc.DetectDocumentationType(raw)
	}
	if !s.pinnedSep {
		s.sep = kvtext.DetectSeparator(raw)
	}

	parser := &kvtext.Parser{Separator: s.sep, Type: s.typ, Sections: s.store}
	s.raw = raw
	s.groups = parser.Parse(raw)
	for gi := range s.groups {
		s.annotateGroup(ctx, gi)
	}

	s.log.Debug("content set",
		zap.String("type", s.typ.String()),
		zap.String("separator", s.sep),
		zap.Int("groups", len(s.groups)))
}

// Content returns the current raw text.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// Groups returns a copy of the current groups.
func (s *Session) Groups() []kvtext.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneGroups(s.groups)
}

// Type returns the documentation type in use.
func (s *Session) Type() kvdoc.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typ
}

// Separator returns the separator in use.
func (s *Session) Separator() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sep
}

// HasMultipleGroups reports whether the document shows section headers.
func (s *Session) HasMultipleGroups() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups) > 1 || (len(s.groups) == 1 && s.groups[0].Name != kvtext.GeneralGroup)
}

// SetFieldKey renames a field and refreshes its documentation.
func (s *Session) SetFieldKey(ctx context.Context, group, index int, key string) error {
	s.mu.Lock()
	f, err := s.field(group, index)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if f.Key == key {
		s.mu.Unlock()
		return nil
	}
	f.Key = key
	f.Info = s.lookup(ctx, group, key)
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetFieldValue changes a field's value.
func (s *Session) SetFieldValue(group, index int, value string) error {
	s.mu.Lock()
	f, err := s.field(group, index)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if f.Value == value {
		s.mu.Unlock()
		return nil
	}
	f.Value = value
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

// SelectSuggestion sets a field's key to a suggested name and returns its
// documentation.
func (s *Session) SelectSuggestion(ctx context.Context, group, index int, key string) (*kvdoc.FieldDocumentation, error) {
	s.mu.Lock()
	f, err := s.field(group, index)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	f.Key = key
	f.Info = s.lookup(ctx, group, key)
	info := f.Info
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
	return info, nil
}

// AddField appends an empty field to a group. Empty fields are not
// written out until they get a key or value.
func (s *Session) AddField(group int) error {
	s.mu.Lock()
	if group < 0 || group >= len(s.groups) {
		s.mu.Unlock()
		return fmt.Errorf("group %d: %w", group, ErrIndexOutOfRange)
	}
	s.groups[group].Fields = append(s.groups[group].Fields, kvtext.Field{})
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

// RemoveField deletes a field.
func (s *Session) RemoveField(group, index int) error {
	s.mu.Lock()
	if _, err := s.field(group, index); err != nil {
		s.mu.Unlock()
		return err
	}
	fields := s.groups[group].Fields
	s.groups[group].Fields = append(fields[:index:index], fields[index+1:]...)
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

// MoveField moves a field within its group from one position to another.
func (s *Session) MoveField(group, from, to int) error {
	s.mu.Lock()
	if _, err := s.field(group, from); err != nil {
		s.mu.Unlock()
		return err
	}
	if _, err := s.field(group, to); err != nil {
		s.mu.Unlock()
		return err
	}
	fields := s.groups[group].Fields
	f := fields[from]
	fields = append(fields[:from:from], fields[from+1:]...)
	fields = append(fields[:to], append([]kvtext.Field{f}, fields[to:]...)...)
	s.groups[group].Fields = fields
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetGroupFields replaces a group's fields, e.g. after a drag reorder.
func (s *Session) SetGroupFields(ctx context.Context, group int, fields []kvtext.Field) error {
	s.mu.Lock()
	if group < 0 || group >= len(s.groups) {
		s.mu.Unlock()
		return fmt.Errorf("group %d: %w", group, ErrIndexOutOfRange)
	}
	s.groups[group].Fields = append([]kvtext.Field(nil), fields...)
	s.annotateGroup(ctx, group)
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

// AddGroup appends a "New Section" group with one empty field.
// Subscribers are notified immediately.
func (s *Session) AddGroup() {
	s.mu.Lock()
	s.groups = append(s.groups, kvtext.Group{
		Name:    NewGroupName,
		Fields:  []kvtext.Field{{}},
		Section: "DefCore",
		Type:    s.typ,
	})
	s.commitLocked()
	s.mu.Unlock()

	s.notifyNow()
}

// RemoveGroup deletes a group. Subscribers are notified immediately.
func (s *Session) RemoveGroup(group int) error {
	s.mu.Lock()
	if group < 0 || group >= len(s.groups) {
		s.mu.Unlock()
		return fmt.Errorf("group %d: %w", group, ErrIndexOutOfRange)
	}
	s.groups = append(s.groups[:group:group], s.groups[group+1:]...)
	s.commitLocked()
	s.mu.Unlock()

	s.notifyNow()
	return nil
}

// RenameGroup sets a group's name and schema section, then re-annotates
// its fields against the new section.
func (s *Session) RenameGroup(ctx context.Context, group int, name string) error {
	s.mu.Lock()
	if group < 0 || group >= len(s.groups) {
		s.mu.Unlock()
		return fmt.Errorf("group %d: %w", group, ErrIndexOutOfRange)
	}
	s.groups[group].Name = name
	s.groups[group].Section = name
	s.annotateGroup(ctx, group)
	s.commitLocked()
	s.mu.Unlock()

	s.notifyNow()
	return nil
}

// IsFieldValid reports whether a field is documented. Without a
// documentation type every field counts as valid.
func (s *Session) IsFieldValid(f kvtext.Field) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f.Info != nil || s.typ == ""
}

// Suggester returns a field-name suggester for a group's section.
func (s *Session) Suggester(ctx context.Context, group int, opts ...SuggesterOption) (*Suggester, error) {
	s.mu.Lock()
	if group < 0 || group >= len(s.groups) {
		s.mu.Unlock()
		return nil, fmt.Errorf("group %d: %w", group, ErrIndexOutOfRange)
	}
	g := s.groups[group]
	s.mu.Unlock()

	return NewSuggester(ctx, s.store, g.Type, g.Section, opts...), nil
}

// Subscribe registers fn for change notifications.
func (s *Session) Subscribe(fn func(Change)) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}

// Flush delivers a pending debounced notification now.
func (s *Session) Flush() {
	if s.debouncer != nil {
		s.debouncer.Flush()
	}
}

// Close cancels pending notifications and drops all subscribers.
func (s *Session) Close() {
	if s.debouncer != nil {
		s.debouncer.Cancel()
	}
	s.changes.Close()
}

// field returns a pointer into the group list. Callers hold s.mu.
func (s *Session) field(group, index int) (*kvtext.Field, error) {
	if group < 0 || group >= len(s.groups) {
		return nil, fmt.Errorf("group %d: %w", group, ErrIndexOutOfRange)
	}
	fields := s.groups[group].Fields
	if index < 0 || index >= len(fields) {
		return nil, fmt.Errorf("field %d of group %d: %w", index, group, ErrIndexOutOfRange)
	}
	return &fields[index], nil
}

func (s *Session) lookup(ctx context.Context, group int, key string) *kvdoc.FieldDocumentation {
	g := s.groups[group]
	if key == "" || g.Section == "" {
		return nil
	}
	return s.store.FieldDocumentation(ctx, g.Type, g.Section, key)
}

func (s *Session) annotateGroup(ctx context.Context, group int) {
	fields := s.groups[group].Fields
	for i := range fields {
		fields[i].Info = s.lookup(ctx, group, fields[i].Key)
	}
}

func (s *Session) commitLocked() {
	s.raw = kvtext.Serialize(s.groups, s.sep)
}

func (s *Session) notify() {
	if s.debouncer != nil {
		s.debouncer.Call()
		return
	}
	s.publish()
}

func (s *Session) notifyNow() {
	if s.debouncer != nil {
		s.debouncer.Cancel()
	}
	s.publish()
}

func (s *Session) publish() {
	s.mu.Lock()
	change := Change{Content: s.raw, Groups: cloneGroups(s.groups)}
	s.mu.Unlock()

	s.changes.Send(change)
}

func cloneGroups(groups []kvtext.Group) []kvtext.Group {
	if groups == nil {
		return nil
	}
	out := make([]kvtext.Group, len(groups))
	for i, g := range groups {
		out[i] = g
		out[i].Fields = append([]kvtext.Field(nil), g.Fields...)
	}
	return out
}

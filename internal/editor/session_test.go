package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/c4studio/pkg/kvdoc"
	"github.com/Faultbox/c4studio/pkg/kvtext"
)

const clonkDefCore = `[DefCore]
id=CLNK
Name=Clonk
Bogus=1

[Physical]
Energy=50000
Walk=60000`

func newTestSession(opts ...Option) *Session {
	return NewSession(kvdoc.NewStore(kvdoc.EmbeddedSource()), opts...)
}

// recorder collects published changes.
type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) record(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func (r *recorder) last() Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changes[len(r.changes)-1]
}

func TestSetContentDetectsAndAnnotates(t *testing.T) {
	s := newTestSession()
	s.SetContent(context.Background(), clonkDefCore)

	if s.Type() != kvdoc.DefCore {
		t.Errorf("expected DefCore, got %s", s.Type())
	}
	if s.Separator() != "=" {
		t.Errorf("expected '=', got %q", s.Separator())
	}

	groups := s.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Fields[0].Info == nil {
		t.Error("expected documentation for id")
	}
	if groups[0].Fields[2].Info != nil {
		t.Error("expected no documentation for Bogus")
	}
	if groups[1].Fields[0].Info == nil {
		t.Error("expected documentation for Energy in Physical")
	}
	if s.IsFieldValid(groups[0].Fields[2]) {
		t.Error("Bogus should not be valid")
	}
	if !s.HasMultipleGroups() {
		t.Error("expected multiple groups")
	}
}

func TestSetContentActMapColon(t *testing.T) {
	s := newTestSession()
	s.SetContent(context.Background(), "[ActMap]\nName: Walk\nProcedure: WALK")

	if s.Type() != kvdoc.ActMap {
		t.Errorf("expected ActMap, got %s", s.Type())
	}
	if s.Separator() != ":" {
		t.Errorf("expected ':', got %q", s.Separator())
	}
	if g := s.Groups(); len(g) != 1 || g[0].Fields[1].Info == nil {
		t.Errorf("expected annotated ActMap group, got %+v", g)
	}
}

func TestPinnedTypeAndSeparator(t *testing.T) {
	s := newTestSession(WithType(kvdoc.Material), WithSeparator("="))
	s.SetContent(context.Background(), "Density=50\nDigFree=1")

	if s.Type() != kvdoc.Material {
		t.Errorf("expected Material, got %s", s.Type())
	}
	g := s.Groups()
	if len(g) != 1 || g[0].Name != kvtext.GeneralGroup || g[0].Section != "Material" {
		t.Errorf("unexpected groups %+v", g)
	}
	if s.HasMultipleGroups() {
		t.Error("single General group has no headers")
	}
}

func TestEditsReserialize(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	s.SetContent(ctx, clonkDefCore)

	var rec recorder
	unsubscribe := s.Subscribe(rec.record)
	defer unsubscribe()

	if err := s.SetFieldValue(0, 1, "Hero"); err != nil {
		t.Fatalf("SetFieldValue: %v", err)
	}
	if err := s.RemoveField(0, 2); err != nil {
		t.Fatalf("RemoveField: %v", err)
	}
	if err := s.SetFieldKey(ctx, 1, 1, "Jump"); err != nil {
		t.Fatalf("SetFieldKey: %v", err)
	}

	want := "[DefCore]\nid=CLNK\nName=Hero\n\n[Physical]\nEnergy=50000\nJump=60000"
	if s.Content() != want {
		t.Errorf("Content() = %q, want %q", s.Content(), want)
	}
	if rec.count() != 3 {
		t.Errorf("expected 3 notifications, got %d", rec.count())
	}
	if rec.last().Content != want {
		t.Errorf("last change = %q", rec.last().Content)
	}
	if s.Groups()[1].Fields[1].Info == nil {
		t.Error("expected Jump to be documented after rename")
	}
}

func TestUnchangedEditDoesNotNotify(t *testing.T) {
	s := newTestSession()
	s.SetContent(context.Background(), "id=CLNK")

	var rec recorder
	s.Subscribe(rec.record)

	if err := s.SetFieldValue(0, 0, "CLNK"); err != nil {
		t.Fatal(err)
	}
	if rec.count() != 0 {
		t.Errorf("expected no notification, got %d", rec.count())
	}
}

func TestAddFieldAndGroup(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	s.SetContent(ctx, "[DefCore]\nid=CLNK")

	if err := s.AddField(0); err != nil {
		t.Fatal(err)
	}
	// Empty fields are skipped on output.
	if s.Content() != "[DefCore]\nid=CLNK" {
		t.Errorf("unexpected content %q", s.Content())
	}
	if _, err := s.SelectSuggestion(ctx, 0, 1, "Name"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetFieldValue(0, 1, "Clonk"); err != nil {
		t.Fatal(err)
	}

	s.AddGroup()
	groups := s.Groups()
	if groups[1].Name != NewGroupName || len(groups[1].Fields) != 1 {
		t.Errorf("unexpected new group %+v", groups[1])
	}
	if err := s.RenameGroup(ctx, 1, "Physical"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectSuggestion(ctx, 1, 0, "Energy"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetFieldValue(1, 0, "100"); err != nil {
		t.Fatal(err)
	}

	want := "[DefCore]\nid=CLNK\nName=Clonk\n\n[Physical]\nEnergy=100"
	if s.Content() != want {
		t.Errorf("Content() = %q, want %q", s.Content(), want)
	}
}

func TestSelectSuggestionReturnsDocumentation(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	s.SetContent(ctx, "[DefCore]\nx=1")

	doc, err := s.SelectSuggestion(ctx, 0, 0, "Width")
	if err != nil {
		t.Fatal(err)
	}
	if doc == nil || doc.Type != "Integer" {
		t.Errorf("unexpected documentation %+v", doc)
	}
	if s.Groups()[0].Fields[0].Info == nil {
		t.Error("expected field annotated")
	}
}

func TestMoveField(t *testing.T) {
	s := newTestSession()
	s.SetContent(context.Background(), "a=1\nb=2\nc=3")

	if err := s.MoveField(0, 0, 2); err != nil {
		t.Fatal(err)
	}
	if s.Content() != "b=2\nc=3\na=1" {
		t.Errorf("after move down: %q", s.Content())
	}
	if err := s.MoveField(0, 2, 0); err != nil {
		t.Fatal(err)
	}
	if s.Content() != "a=1\nb=2\nc=3" {
		t.Errorf("after move up: %q", s.Content())
	}
}

func TestRemoveGroupAndSetGroupFields(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	s.SetContent(ctx, clonkDefCore)

	if err := s.RemoveGroup(0); err != nil {
		t.Fatal(err)
	}
	if err := s.SetGroupFields(ctx, 0, []kvtext.Field{{Key: "Walk", Value: "1"}, {Key: "Energy", Value: "2"}}); err != nil {
		t.Fatal(err)
	}
	if s.Content() != "[Physical]\nWalk=1\nEnergy=2" {
		t.Errorf("unexpected content %q", s.Content())
	}
	if s.Groups()[0].Fields[0].Info == nil {
		t.Error("expected replaced fields to be annotated")
	}
}

func TestIndexErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	s.SetContent(ctx, "a=1")

	checks := []error{
		s.SetFieldValue(1, 0, "x"),
		s.SetFieldValue(0, 5, "x"),
		s.SetFieldKey(ctx, -1, 0, "x"),
		s.RemoveField(0, 1),
		s.MoveField(0, 0, 3),
		s.AddField(2),
		s.RemoveGroup(4),
		s.RenameGroup(ctx, 9, "x"),
	}
	for i, err := range checks {
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("check %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
	if _, err := s.Suggester(ctx, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Suggester: expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestDebouncedNotifications(t *testing.T) {
	s := newTestSession(WithDebounce(30 * time.Millisecond))
	defer s.Close()
	s.SetContent(context.Background(), "a=1")

	done := make(chan Change, 4)
	s.Subscribe(func(c Change) { done <- c })

	for i, v := range []string{"2", "3", "4", "5"} {
		if err := s.SetFieldValue(0, 0, v); err != nil {
			t.Fatalf("edit %d: %v", i, err)
		}
	}

	select {
	case c := <-done:
		if c.Content != "a=5" {
			t.Errorf("expected final content, got %q", c.Content)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no notification after quiet period")
	}

	select {
	case c := <-done:
		t.Errorf("burst should collapse into one notification, got extra %q", c.Content)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFlushDeliversPending(t *testing.T) {
	s := newTestSession(WithDebounce(time.Hour))
	defer s.Close()
	s.SetContent(context.Background(), "a=1")

	var rec recorder
	s.Subscribe(rec.record)

	if err := s.SetFieldValue(0, 0, "2"); err != nil {
		t.Fatal(err)
	}
	if rec.count() != 0 {
		t.Fatal("notification should be pending")
	}
	s.Flush()
	if rec.count() != 1 || rec.last().Content != "a=2" {
		t.Errorf("expected flushed change, got %d", rec.count())
	}
}

func TestGroupChangesNotifyImmediately(t *testing.T) {
	s := newTestSession(WithDebounce(time.Hour))
	defer s.Close()
	s.SetContent(context.Background(), "a=1")

	var rec recorder
	s.Subscribe(rec.record)

	s.AddGroup()
	if rec.count() != 1 {
		t.Errorf("expected immediate notification, got %d", rec.count())
	}
}

func TestUnsubscribe(t *testing.T) {
	s := newTestSession()
	s.SetContent(context.Background(), "a=1")

	var first, second recorder
	unsubscribe := s.Subscribe(first.record)
	s.Subscribe(second.record)

	if err := s.SetFieldValue(0, 0, "2"); err != nil {
		t.Fatal(err)
	}
	unsubscribe()
	unsubscribe()
	if err := s.SetFieldValue(0, 0, "3"); err != nil {
		t.Fatal(err)
	}

	if first.count() != 1 {
		t.Errorf("first subscriber: expected 1 change, got %d", first.count())
	}
	if second.count() != 2 {
		t.Errorf("second subscriber: expected 2 changes, got %d", second.count())
	}
}

func TestChangeGroupsAreCopies(t *testing.T) {
	s := newTestSession()
	s.SetContent(context.Background(), "a=1")

	var rec recorder
	s.Subscribe(rec.record)
	if err := s.SetFieldValue(0, 0, "2"); err != nil {
		t.Fatal(err)
	}

	rec.last().Groups[0].Fields[0].Value = "mutated"
	if s.Groups()[0].Fields[0].Value != "2" {
		t.Error("subscribers must not alias session state")
	}
}

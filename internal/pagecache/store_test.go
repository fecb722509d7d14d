package pagecache

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type entry struct {
	id string
}

func (e *entry) ListID() string { return e.id }

// group models a duplicate-group style item whose cache identity is the
// group ID rather than any member's ID.
type group struct {
	groupID string
	members []string
}

func (g *group) ListID() string { return g.groupID }

func strptr(s string) *string { return &s }

func entries(ids ...string) []*entry {
	out := make([]*entry, len(ids))
	for i, id := range ids {
		out[i] = &entry{id: id}
	}
	return out
}

func ids(items []*entry) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInitialize(t *testing.T) {
	s := NewStore[*entry](nil)
	calls := 0
	s.Initialize(context.Background(), "images", func(ctx context.Context) (CursorPage[*entry], error) {
		calls++
		return CursorPage[*entry]{Items: entries("1", "2", "3"), NextCursor: strptr("c1")}, nil
	})

	snap, ok := s.Snapshot("images")
	if !ok {
		t.Fatal("expected state for key")
	}
	if !equalIDs(ids(snap.Items), "1", "2", "3") {
		t.Errorf("items = %v, want [1 2 3]", ids(snap.Items))
	}
	if !snap.HasMore || snap.Loading {
		t.Errorf("hasMore=%v loading=%v, want true/false", snap.HasMore, snap.Loading)
	}
	if calls != 1 {
		t.Errorf("fetcher called %d times, want 1", calls)
	}
}

func TestInitializeIdempotentAfterLoad(t *testing.T) {
	s := NewStore[*entry](nil)
	calls := 0
	fetch := func(ctx context.Context) (CursorPage[*entry], error) {
		calls++
		return CursorPage[*entry]{Items: entries("1")}, nil
	}
	s.Initialize(context.Background(), "images", fetch)
	s.Initialize(context.Background(), "images", fetch)
	if calls != 1 {
		t.Errorf("fetcher called %d times, want 1", calls)
	}
}

func TestInitializeIdempotentWhileInFlight(t *testing.T) {
	s := NewStore[*entry](nil)
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	fetch := func(ctx context.Context) (CursorPage[*entry], error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(entered)
		<-release
		return CursorPage[*entry]{Items: entries("1")}, nil
	}

	done := make(chan struct{})
	go func() {
		s.Initialize(context.Background(), "images", fetch)
		close(done)
	}()
	<-entered

	// Second mount-time call while the first fetch is still in flight
	s.Initialize(context.Background(), "images", func(ctx context.Context) (CursorPage[*entry], error) {
		t.Error("second fetcher should not be invoked")
		return CursorPage[*entry]{}, nil
	})

	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("fetcher called %d times, want 1", calls)
	}
}

func TestAdvanceAppendsAndExhausts(t *testing.T) {
	s := NewStore[*entry](nil)
	s.Initialize(context.Background(), "images", func(ctx context.Context) (CursorPage[*entry], error) {
		return CursorPage[*entry]{Items: entries("1", "2", "3"), NextCursor: strptr("c1")}, nil
	})

	advCalls := 0
	adv := func(ctx context.Context, cursor string) (CursorPage[*entry], error) {
		advCalls++
		if cursor != "c1" {
			t.Errorf("cursor = %q, want c1", cursor)
		}
		return CursorPage[*entry]{Items: entries("4", "5")}, nil
	}
	s.Advance(context.Background(), "images", adv)

	snap, _ := s.Snapshot("images")
	if !equalIDs(ids(snap.Items), "1", "2", "3", "4", "5") {
		t.Errorf("items = %v, want [1 2 3 4 5]", ids(snap.Items))
	}
	if snap.HasMore {
		t.Error("hasMore should be false after null cursor")
	}

	// Exhaustion is terminal: a further advance must not invoke the fetcher
	s.Advance(context.Background(), "images", adv)
	if advCalls != 1 {
		t.Errorf("fetcher called %d times, want 1", advCalls)
	}
	snap, _ = s.Snapshot("images")
	if !equalIDs(ids(snap.Items), "1", "2", "3", "4", "5") {
		t.Errorf("items changed after no-op advance: %v", ids(snap.Items))
	}
}

func TestAdvanceNoopWithoutState(t *testing.T) {
	s := NewStore[*entry](nil)
	s.Advance(context.Background(), "missing", func(ctx context.Context, cursor string) (CursorPage[*entry], error) {
		t.Error("fetcher should not be invoked for unknown key")
		return CursorPage[*entry]{}, nil
	})
}

func TestAdvanceNoDoubleInFlight(t *testing.T) {
	s := NewStore[*entry](nil)
	s.Initialize(context.Background(), "images", func(ctx context.Context) (CursorPage[*entry], error) {
		return CursorPage[*entry]{Items: entries("1"), NextCursor: strptr("c1")}, nil
	})

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		s.Advance(context.Background(), "images", func(ctx context.Context, cursor string) (CursorPage[*entry], error) {
			close(entered)
			<-release
			return CursorPage[*entry]{Items: entries("2")}, nil
		})
		close(done)
	}()
	<-entered

	// Sentinel fires again while the first advance is still in flight
	s.Advance(context.Background(), "images", func(ctx context.Context, cursor string) (CursorPage[*entry], error) {
		t.Error("second fetcher should not be invoked while loading")
		return CursorPage[*entry]{}, nil
	})

	close(release)
	<-done
}

func TestInitializeFailure(t *testing.T) {
	s := NewStore[*entry](nil)
	s.Initialize(context.Background(), "orphans", func(ctx context.Context) (CursorPage[*entry], error) {
		return CursorPage[*entry]{}, errors.New("boom")
	})

	snap, ok := s.Snapshot("orphans")
	if !ok {
		t.Fatal("expected state for key")
	}
	if len(snap.Items) != 0 || snap.HasMore || snap.Loading {
		t.Errorf("snapshot = %+v, want empty exhausted idle", snap)
	}
}

func TestAdvanceFailureRetainsItems(t *testing.T) {
	s := NewStore[*entry](nil)
	s.Initialize(context.Background(), "images", func(ctx context.Context) (CursorPage[*entry], error) {
		return CursorPage[*entry]{Items: entries("1", "2"), NextCursor: strptr("c1")}, nil
	})
	s.Advance(context.Background(), "images", func(ctx context.Context, cursor string) (CursorPage[*entry], error) {
		return CursorPage[*entry]{}, errors.New("boom")
	})

	snap, _ := s.Snapshot("images")
	if !equalIDs(ids(snap.Items), "1", "2") {
		t.Errorf("items = %v, want [1 2]", ids(snap.Items))
	}
	if snap.HasMore {
		t.Error("hasMore should be forced false after a failed advance")
	}
}

func TestRemoveItem(t *testing.T) {
	s := NewStore[*entry](nil)
	s.Initialize(context.Background(), "images", func(ctx context.Context) (CursorPage[*entry], error) {
		return CursorPage[*entry]{Items: entries("1", "2", "3", "4", "5"), NextCursor: strptr("c2")}, nil
	})

	s.RemoveItem("images", "3")

	snap, _ := s.Snapshot("images")
	if !equalIDs(ids(snap.Items), "1", "2", "4", "5") {
		t.Errorf("items = %v, want [1 2 4 5]", ids(snap.Items))
	}
	if !snap.HasMore {
		t.Error("removal must not touch hasMore")
	}
}

func TestRemoveItemsByGroupID(t *testing.T) {
	s := NewStore[*group](nil)
	s.Initialize(context.Background(), "duplicates", func(ctx context.Context) (CursorPage[*group], error) {
		return CursorPage[*group]{Items: []*group{
			{groupID: "g1", members: []string{"a", "b"}},
			{groupID: "g2", members: []string{"c", "d"}},
			{groupID: "g3", members: []string{"e"}},
		}}, nil
	})

	s.RemoveItems("duplicates", []string{"g1", "g3"})

	snap, _ := s.Snapshot("duplicates")
	if len(snap.Items) != 1 || snap.Items[0].groupID != "g2" {
		t.Errorf("expected only g2 to remain, got %d items", len(snap.Items))
	}
}

func TestRemoveItemUnknownKeyIsNoop(t *testing.T) {
	s := NewStore[*entry](nil)
	s.RemoveItem("missing", "1") // must not panic
}

func TestKeyIsolation(t *testing.T) {
	s := NewStore[*entry](nil)
	first := func(ids ...string) FirstPageFunc[*entry] {
		return func(ctx context.Context) (CursorPage[*entry], error) {
			return CursorPage[*entry]{Items: entries(ids...), NextCursor: strptr("c")}, nil
		}
	}
	s.Initialize(context.Background(), "a", first("1", "2"))
	s.Initialize(context.Background(), "b", first("3", "4"))

	s.RemoveItem("a", "1")
	s.Advance(context.Background(), "b", func(ctx context.Context, cursor string) (CursorPage[*entry], error) {
		return CursorPage[*entry]{Items: entries("5")}, nil
	})

	snapA, _ := s.Snapshot("a")
	snapB, _ := s.Snapshot("b")
	if !equalIDs(ids(snapA.Items), "2") {
		t.Errorf("list a = %v, want [2]", ids(snapA.Items))
	}
	if !snapA.HasMore {
		t.Error("list a hasMore changed by operations on list b")
	}
	if !equalIDs(ids(snapB.Items), "3", "4", "5") {
		t.Errorf("list b = %v, want [3 4 5]", ids(snapB.Items))
	}
}

func TestClearListForcesRefetch(t *testing.T) {
	s := NewStore[*entry](nil)
	calls := 0
	fetch := func(ctx context.Context) (CursorPage[*entry], error) {
		calls++
		return CursorPage[*entry]{Items: entries("1")}, nil
	}
	s.Initialize(context.Background(), "images", fetch)
	s.ClearList("images")
	if _, ok := s.Snapshot("images"); ok {
		t.Error("snapshot should not exist after clear")
	}
	s.Initialize(context.Background(), "images", fetch)
	if calls != 2 {
		t.Errorf("fetcher called %d times, want 2", calls)
	}
}

func TestClearListDropsInFlightResult(t *testing.T) {
	s := NewStore[*entry](nil)
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		s.Initialize(context.Background(), "images", func(ctx context.Context) (CursorPage[*entry], error) {
			close(entered)
			<-release
			return CursorPage[*entry]{Items: entries("stale")}, nil
		})
		close(done)
	}()
	<-entered

	// The list is invalidated (and re-initialized) while the original
	// fetch is still in flight; the stale result must not clobber it.
	s.ClearList("images")
	s.Initialize(context.Background(), "images", func(ctx context.Context) (CursorPage[*entry], error) {
		return CursorPage[*entry]{Items: entries("fresh")}, nil
	})

	close(release)
	<-done

	snap, _ := s.Snapshot("images")
	if !equalIDs(ids(snap.Items), "fresh") {
		t.Errorf("items = %v, want [fresh]", ids(snap.Items))
	}
}

func TestEmptyPageWithCursorKeepsGoing(t *testing.T) {
	s := NewStore[*entry](nil)
	s.Initialize(context.Background(), "images", func(ctx context.Context) (CursorPage[*entry], error) {
		return CursorPage[*entry]{Items: nil, NextCursor: strptr("c1")}, nil
	})

	snap, _ := s.Snapshot("images")
	if !snap.HasMore {
		t.Fatal("empty page with non-null cursor must not exhaust the list")
	}

	// Guard ordering matters here: the loading/non-empty idempotence check
	// must not block the advance that fetches the real first batch.
	s.Advance(context.Background(), "images", func(ctx context.Context, cursor string) (CursorPage[*entry], error) {
		return CursorPage[*entry]{Items: entries("1")}, nil
	})
	snap, _ = s.Snapshot("images")
	if !equalIDs(ids(snap.Items), "1") {
		t.Errorf("items = %v, want [1]", ids(snap.Items))
	}
}

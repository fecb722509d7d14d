package service

import (
	"context"
	"errors"
	"testing"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/pagecache"
)

// fakeClient implements domain.Client with overridable endpoints.
// Unset endpoints fail the test if called.
type fakeClient struct {
	t *testing.T

	// lastLimit records the page size of the most recent listing call
	lastLimit int

	listMedia  func(filter domain.MediaFilter, cursor string) (pagecache.CursorPage[*domain.MediaItem], error)
	listPeople func(cursor string) (pagecache.CursorPage[*domain.Person], error)
	listOrphan func(cursor string) (pagecache.CursorPage[*domain.Face], error)
	listGroups func(cursor string) (pagecache.CursorPage[*domain.DuplicateGroup], error)
	search     func(query, cursor string) (pagecache.CursorPage[*domain.MediaItem], error)

	assignFace   func(faceID, personID string) error
	deleteMedia  func(mediaID string) error
	setFavorite  func(mediaID string, favorite bool) error
	resolveGroup func(groupID string, res domain.DuplicateResolution) error
}

func (f *fakeClient) CheckHealth(ctx context.Context) error { return nil }

func (f *fakeClient) ListMedia(ctx context.Context, filter domain.MediaFilter, cursor string, limit int) (pagecache.CursorPage[*domain.MediaItem], error) {
	if f.listMedia == nil {
		f.t.Fatal("unexpected ListMedia call")
	}
	f.lastLimit = limit
	return f.listMedia(filter, cursor)
}

func (f *fakeClient) SearchMedia(ctx context.Context, query, cursor string, limit int) (pagecache.CursorPage[*domain.MediaItem], error) {
	if f.search == nil {
		f.t.Fatal("unexpected SearchMedia call")
	}
	f.lastLimit = limit
	return f.search(query, cursor)
}

func (f *fakeClient) ListPeople(ctx context.Context, cursor string, limit int) (pagecache.CursorPage[*domain.Person], error) {
	if f.listPeople == nil {
		f.t.Fatal("unexpected ListPeople call")
	}
	return f.listPeople(cursor)
}

func (f *fakeClient) ListPersonFaces(ctx context.Context, personID, cursor string, limit int) (pagecache.CursorPage[*domain.Face], error) {
	f.t.Fatal("unexpected ListPersonFaces call")
	return pagecache.CursorPage[*domain.Face]{}, nil
}

func (f *fakeClient) ListOrphanFaces(ctx context.Context, cursor string, limit int) (pagecache.CursorPage[*domain.Face], error) {
	if f.listOrphan == nil {
		f.t.Fatal("unexpected ListOrphanFaces call")
	}
	return f.listOrphan(cursor)
}

func (f *fakeClient) ListDuplicateGroups(ctx context.Context, cursor string, limit int) (pagecache.CursorPage[*domain.DuplicateGroup], error) {
	if f.listGroups == nil {
		f.t.Fatal("unexpected ListDuplicateGroups call")
	}
	return f.listGroups(cursor)
}

func (f *fakeClient) AssignFace(ctx context.Context, faceID, personID string) error {
	if f.assignFace == nil {
		f.t.Fatal("unexpected AssignFace call")
	}
	return f.assignFace(faceID, personID)
}

func (f *fakeClient) DetachFace(ctx context.Context, faceID string) error {
	f.t.Fatal("unexpected DetachFace call")
	return nil
}

func (f *fakeClient) DeleteMedia(ctx context.Context, mediaID string) error {
	if f.deleteMedia == nil {
		f.t.Fatal("unexpected DeleteMedia call")
	}
	return f.deleteMedia(mediaID)
}

func (f *fakeClient) SetFavorite(ctx context.Context, mediaID string, favorite bool) error {
	if f.setFavorite == nil {
		f.t.Fatal("unexpected SetFavorite call")
	}
	return f.setFavorite(mediaID, favorite)
}

func (f *fakeClient) ResolveDuplicateGroup(ctx context.Context, groupID string, res domain.DuplicateResolution) error {
	if f.resolveGroup == nil {
		f.t.Fatal("unexpected ResolveDuplicateGroup call")
	}
	return f.resolveGroup(groupID, res)
}

func (f *fakeClient) MergePeople(ctx context.Context, sourceID, destID string) error {
	f.t.Fatal("unexpected MergePeople call")
	return nil
}

func (f *fakeClient) RenamePerson(ctx context.Context, personID, name string) error {
	f.t.Fatal("unexpected RenamePerson call")
	return nil
}

func strptr(s string) *string { return &s }

func mediaPage(cursor *string, ids ...string) pagecache.CursorPage[*domain.MediaItem] {
	items := make([]*domain.MediaItem, len(ids))
	for i, id := range ids {
		items[i] = &domain.MediaItem{ID: id, Filename: id + ".jpg"}
	}
	return pagecache.CursorPage[*domain.MediaItem]{Items: items, NextCursor: cursor}
}

func mediaIDs(items []*domain.MediaItem) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.ID
	}
	return out
}

func TestLibraryLoadAndAdvance(t *testing.T) {
	client := &fakeClient{t: t}
	client.listMedia = func(filter domain.MediaFilter, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		if cursor == "" {
			return mediaPage(strptr("c1"), "m1", "m2"), nil
		}
		if cursor != "c1" {
			t.Errorf("cursor = %q, want c1", cursor)
		}
		return mediaPage(nil, "m3"), nil
	}

	svc := NewLibraryService(client, NewCaches(nil), 0, nil)
	filter := domain.MediaFilter{Type: "photo", Sort: "taken_at"}

	svc.LoadMedia(context.Background(), filter)
	svc.LoadMoreMedia(context.Background(), filter)

	snap, ok := svc.MediaSnapshot(filter)
	if !ok {
		t.Fatal("expected snapshot")
	}
	got := mediaIDs(snap.Items)
	if len(got) != 3 || got[0] != "m1" || got[2] != "m3" {
		t.Errorf("items = %v, want [m1 m2 m3]", got)
	}
	if snap.HasMore {
		t.Error("expected exhausted list")
	}
}

func TestLibraryFiltersDoNotShareKeys(t *testing.T) {
	client := &fakeClient{t: t}
	client.listMedia = func(filter domain.MediaFilter, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		if filter.Type == "photo" {
			return mediaPage(nil, "p1"), nil
		}
		return mediaPage(nil, "v1"), nil
	}

	svc := NewLibraryService(client, NewCaches(nil), 0, nil)
	photos := domain.MediaFilter{Type: "photo"}
	videos := domain.MediaFilter{Type: "video"}

	svc.LoadMedia(context.Background(), photos)
	svc.LoadMedia(context.Background(), videos)

	snapP, _ := svc.MediaSnapshot(photos)
	snapV, _ := svc.MediaSnapshot(videos)
	if len(snapP.Items) != 1 || snapP.Items[0].ID != "p1" {
		t.Errorf("photo list = %v", mediaIDs(snapP.Items))
	}
	if len(snapV.Items) != 1 || snapV.Items[0].ID != "v1" {
		t.Errorf("video list = %v", mediaIDs(snapV.Items))
	}
}

func TestDeleteMediaPrunesOnSuccess(t *testing.T) {
	client := &fakeClient{t: t}
	client.listMedia = func(filter domain.MediaFilter, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		return mediaPage(strptr("c1"), "m1", "m2", "m3"), nil
	}
	client.deleteMedia = func(mediaID string) error { return nil }

	svc := NewLibraryService(client, NewCaches(nil), 0, nil)
	filter := domain.MediaFilter{}
	svc.LoadMedia(context.Background(), filter)

	if err := svc.DeleteMedia(context.Background(), filter, "m2"); err != nil {
		t.Fatalf("DeleteMedia: %v", err)
	}
	snap, _ := svc.MediaSnapshot(filter)
	got := mediaIDs(snap.Items)
	if len(got) != 2 || got[0] != "m1" || got[1] != "m3" {
		t.Errorf("items = %v, want [m1 m3]", got)
	}
	if !snap.HasMore {
		t.Error("prune must not touch pagination state")
	}
}

func TestDeleteMediaFailureLeavesCache(t *testing.T) {
	client := &fakeClient{t: t}
	client.listMedia = func(filter domain.MediaFilter, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		return mediaPage(nil, "m1", "m2"), nil
	}
	client.deleteMedia = func(mediaID string) error { return errors.New("boom") }

	svc := NewLibraryService(client, NewCaches(nil), 0, nil)
	filter := domain.MediaFilter{}
	svc.LoadMedia(context.Background(), filter)

	if err := svc.DeleteMedia(context.Background(), filter, "m2"); err == nil {
		t.Fatal("expected error")
	}
	snap, _ := svc.MediaSnapshot(filter)
	if len(snap.Items) != 2 {
		t.Errorf("failed mutation must leave the cache untouched, got %v", mediaIDs(snap.Items))
	}
}

func TestUnfavoritePrunesFavoritesList(t *testing.T) {
	client := &fakeClient{t: t}
	client.listMedia = func(filter domain.MediaFilter, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		return mediaPage(nil, "m1", "m2"), nil
	}
	client.setFavorite = func(mediaID string, favorite bool) error { return nil }

	svc := NewLibraryService(client, NewCaches(nil), 0, nil)
	favorites := domain.MediaFilter{Favorite: true}
	svc.LoadMedia(context.Background(), favorites)

	if err := svc.SetFavorite(context.Background(), favorites, "m1", false); err != nil {
		t.Fatalf("SetFavorite: %v", err)
	}
	snap, _ := svc.MediaSnapshot(favorites)
	if len(snap.Items) != 1 || snap.Items[0].ID != "m2" {
		t.Errorf("favorites = %v, want [m2]", mediaIDs(snap.Items))
	}
}

func TestAssignFacePrunesListAndClearsPeople(t *testing.T) {
	client := &fakeClient{t: t}
	client.listOrphan = func(cursor string) (pagecache.CursorPage[*domain.Face], error) {
		return pagecache.CursorPage[*domain.Face]{Items: []*domain.Face{
			{ID: "f1"}, {ID: "f2"},
		}}, nil
	}
	peopleCalls := 0
	client.listPeople = func(cursor string) (pagecache.CursorPage[*domain.Person], error) {
		peopleCalls++
		return pagecache.CursorPage[*domain.Person]{Items: []*domain.Person{{ID: "p1", Name: "Ada"}}}, nil
	}
	client.assignFace = func(faceID, personID string) error { return nil }

	caches := NewCaches(nil)
	svc := NewPeopleService(client, caches, 0, nil)
	svc.LoadOrphanFaces(context.Background())
	svc.LoadPeople(context.Background())

	if err := svc.AssignFace(context.Background(), KeyOrphanFaces, "f1", "p1"); err != nil {
		t.Fatalf("AssignFace: %v", err)
	}

	snap, _ := svc.OrphanFacesSnapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "f2" {
		t.Errorf("orphans = %d items, want only f2", len(snap.Items))
	}

	// People listing was cleared (stale face counts); next load refetches
	if _, ok := svc.PeopleSnapshot(); ok {
		t.Error("people listing should be cleared after assignment")
	}
	svc.LoadPeople(context.Background())
	if peopleCalls != 2 {
		t.Errorf("ListPeople called %d times, want 2", peopleCalls)
	}
}

func TestResolveAllPrunesByGroupID(t *testing.T) {
	client := &fakeClient{t: t}
	client.listGroups = func(cursor string) (pagecache.CursorPage[*domain.DuplicateGroup], error) {
		return pagecache.CursorPage[*domain.DuplicateGroup]{Items: []*domain.DuplicateGroup{
			{GroupID: "g1"}, {GroupID: "g2"}, {GroupID: "g3"},
		}, NextCursor: strptr("c1")}, nil
	}
	client.resolveGroup = func(groupID string, res domain.DuplicateResolution) error {
		if groupID == "g2" {
			return errors.New("boom")
		}
		return nil
	}

	svc := NewDuplicateService(client, NewCaches(nil), 0, nil)
	svc.LoadGroups(context.Background())

	err := svc.ResolveAll(context.Background(), []string{"g1", "g2", "g3"}, domain.ResolutionKeepLargest)
	if err == nil {
		t.Fatal("expected first error to propagate")
	}

	snap, _ := svc.GroupsSnapshot()
	if len(snap.Items) != 1 || snap.Items[0].GroupID != "g2" {
		t.Errorf("expected only failed g2 to remain, got %d items", len(snap.Items))
	}
	if !snap.HasMore {
		t.Error("prune must not touch pagination state")
	}
}

func TestSearchQueryChangeResets(t *testing.T) {
	client := &fakeClient{t: t}
	client.search = func(query, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		return mediaPage(strptr("c1"), query+"-1"), nil
	}

	svc := NewSearchService(client, 0, nil)
	if !svc.SetQuery("cat") {
		t.Fatal("first query should reset")
	}
	gen, query, cursor, ok := svc.Begin()
	if !ok {
		t.Fatal("Begin refused")
	}
	page, err := svc.FetchPage(context.Background(), query, cursor)
	svc.Commit(gen, page, err)
	if len(svc.Results()) != 1 || svc.Results()[0].ID != "cat-1" {
		t.Errorf("results = %v", mediaIDs(svc.Results()))
	}

	// New query discards the old results; the old generation is dead
	if !svc.SetQuery("dog") {
		t.Fatal("changed query should reset")
	}
	if len(svc.Results()) != 0 {
		t.Error("results should be discarded on query change")
	}
	if svc.Commit(gen, mediaPage(nil, "stale"), nil) {
		t.Error("stale commit should be dropped")
	}
	if svc.SetQuery("dog") {
		t.Error("same query should not reset")
	}
}

func TestSearchFetchUsesQueryCapturedAtBegin(t *testing.T) {
	entered := make(chan string, 1)
	release := make(chan struct{})

	client := &fakeClient{t: t}
	client.search = func(query, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		entered <- query
		<-release
		return mediaPage(nil, query+"-1"), nil
	}

	svc := NewSearchService(client, 0, nil)
	svc.SetQuery("cat")
	gen, query, cursor, ok := svc.Begin()
	if !ok {
		t.Fatal("Begin refused")
	}

	type result struct {
		page pagecache.CursorPage[*domain.MediaItem]
		err  error
	}
	done := make(chan result, 1)
	go func() {
		page, err := svc.FetchPage(context.Background(), query, cursor)
		done <- result{page, err}
	}()

	// The query changes on the UI side while the fetch is in flight.
	// The fetch must use the query captured at Begin, and its commit
	// must be dropped as stale.
	fetched := <-entered
	svc.SetQuery("dog")
	close(release)
	res := <-done

	if fetched != "cat" {
		t.Errorf("in-flight fetch used query %q, want cat", fetched)
	}
	if svc.Commit(gen, res.page, res.err) {
		t.Error("commit for the old query should be dropped")
	}
	if len(svc.Results()) != 0 {
		t.Errorf("results = %v, want none", mediaIDs(svc.Results()))
	}
}

func TestConfiguredPageSizeReachesClient(t *testing.T) {
	client := &fakeClient{t: t}
	client.listMedia = func(filter domain.MediaFilter, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		return mediaPage(nil, "m1"), nil
	}
	client.search = func(query, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		return mediaPage(nil, "s1"), nil
	}

	svc := NewLibraryService(client, NewCaches(nil), 25, nil)
	svc.LoadMedia(context.Background(), domain.MediaFilter{})
	if client.lastLimit != 25 {
		t.Errorf("ListMedia limit = %d, want 25", client.lastLimit)
	}

	searchSvc := NewSearchService(client, 25, nil)
	searchSvc.SetQuery("cat")
	_, query, cursor, ok := searchSvc.Begin()
	if !ok {
		t.Fatal("Begin refused")
	}
	if _, err := searchSvc.FetchPage(context.Background(), query, cursor); err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if client.lastLimit != 25 {
		t.Errorf("SearchMedia limit = %d, want 25", client.lastLimit)
	}

	// Unset config falls back to the default
	fallback := NewLibraryService(client, NewCaches(nil), 0, nil)
	fallback.LoadMedia(context.Background(), domain.MediaFilter{})
	if client.lastLimit != defaultPageSize {
		t.Errorf("ListMedia limit = %d, want default %d", client.lastLimit, defaultPageSize)
	}
}

func TestFilterPeople(t *testing.T) {
	svc := NewSearchService(&fakeClient{t: t}, 0, nil)
	people := []*domain.Person{
		{ID: "p1", Name: "Ada Lovelace"},
		{ID: "p2", Name: "Grace Hopper"},
		{ID: "p3"}, // Unnamed cluster
	}

	got := svc.FilterPeople(people, "ada")
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("FilterPeople(ada) = %d results, want just p1", len(got))
	}
	if got := svc.FilterPeople(people, ""); len(got) != 3 {
		t.Errorf("empty term should return all, got %d", len(got))
	}
}

package search

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"testing"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/favorites"
	"github.com/five82/portal/internal/query"
	"github.com/five82/portal/internal/state"
)

type listCall struct {
	filter catalog.Filter
	page   int
}

type fakeFetcher struct {
	mu        sync.Mutex
	lists     []listCall
	batches   [][]int
	listFn    func(ctx context.Context, f catalog.Filter, page int) (catalog.Page, error)
	records   map[int]catalog.Resource
	batchErr  error
}

func (f *fakeFetcher) ListResources(ctx context.Context, filter catalog.Filter, page int) (catalog.Page, error) {
	f.mu.Lock()
	f.lists = append(f.lists, listCall{filter: filter, page: page})
	fn := f.listFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, filter, page)
	}
	return catalog.Page{Results: []catalog.Resource{}}, nil
}

func (f *fakeFetcher) GetResource(ctx context.Context, id int) (catalog.Resource, error) {
	return f.records[id], nil
}

func (f *fakeFetcher) GetResources(ctx context.Context, ids []int) ([]catalog.Resource, error) {
	f.mu.Lock()
	f.batches = append(f.batches, slices.Clone(ids))
	f.mu.Unlock()
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	var out []catalog.Resource
	for _, id := range ids {
		if r, ok := f.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeFetcher) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lists)
}

type fakeFavorites struct {
	set favorites.Set
}

func (f *fakeFavorites) IDs() []int {
	var ids []int
	for id := range f.set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (f *fakeFavorites) Snapshot() favorites.Set {
	out := favorites.Set{}
	for id := range f.set {
		out[id] = true
	}
	return out
}

type memCache struct {
	mu   sync.Mutex
	data map[int]catalog.Resource
}

func (c *memCache) PutResources(_ context.Context, list []catalog.Resource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range list {
		c.data[r.ID] = r
	}
	return nil
}

func (c *memCache) GetResources(_ context.Context, ids []int) (map[int]catalog.Resource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[int]catalog.Resource{}
	for _, id := range ids {
		if r, ok := c.data[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

type fixture struct {
	fetcher *fakeFetcher
	favs    *fakeFavorites
	cache   *memCache
	store   *state.Store
	history *query.History
	orch    *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fetcher: &fakeFetcher{records: map[int]catalog.Resource{}},
		favs:    &fakeFavorites{set: favorites.Set{}},
		cache:   &memCache{data: map[int]catalog.Resource{}},
		store:   &state.Store{},
		history: query.NewHistory(query.Location{Path: "/"}),
	}
	orch, err := New(Options{
		Fetcher:   f.fetcher,
		Favorites: f.favs,
		Cache:     f.cache,
		Store:     f.store,
		History:   f.history,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	f.orch = orch
	return f
}

func pageOf(ids ...int) catalog.Page {
	p := catalog.Page{Info: catalog.Info{Count: len(ids), Pages: 1}}
	for _, id := range ids {
		p.Results = append(p.Results, catalog.Resource{ID: id})
	}
	return p
}

func resultIDs(p catalog.Page) []int {
	out := make([]int, len(p.Results))
	for i, r := range p.Results {
		out[i] = r.ID
	}
	return out
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("New with no fetcher returned nil error")
	}
}

func TestGating_NoFetchBeforeFavoritesLoaded(t *testing.T) {
	f := newFixture(t)

	if req := f.orch.Navigate(query.Decode("status=alive")); req != nil {
		t.Fatalf("Navigate before favorites loaded issued a request")
	}
	if req := f.orch.Update(query.SetPage(2)); req != nil {
		t.Fatalf("Update before favorites loaded issued a request")
	}
	if f.orch.Phase() != state.Idle {
		t.Fatalf("phase = %v, want idle", f.orch.Phase())
	}
	if got := f.store.List().Address; got != "status=alive&page=2" {
		t.Fatalf("address = %q, want status=alive&page=2", got)
	}

	req := f.orch.FavoritesLoaded()
	if req == nil {
		t.Fatalf("FavoritesLoaded issued nothing")
	}
	if f.orch.Phase() != state.Loading {
		t.Fatalf("phase = %v, want loading", f.orch.Phase())
	}
	if !f.orch.Execute(req) {
		t.Fatalf("Execute did not apply the result")
	}
	if f.fetcher.listCount() != 1 {
		t.Fatalf("list calls = %d, want 1", f.fetcher.listCount())
	}
	call := f.fetcher.lists[0]
	if call.filter.Status != "alive" || call.page != 2 {
		t.Fatalf("list call = %#v, want status alive page 2", call)
	}
	if again := f.orch.FavoritesLoaded(); again != nil {
		t.Fatalf("second FavoritesLoaded issued a request")
	}
}

func TestRace_OnlyLatestParametersAreDisplayed(t *testing.T) {
	f := newFixture(t)
	f.fetcher.listFn = func(ctx context.Context, filter catalog.Filter, page int) (catalog.Page, error) {
		// Ignore cancellation so the stale result really arrives.
		if filter.Name == "a" {
			return pageOf(1, 2), nil
		}
		return pageOf(3), nil
	}
	f.orch.Execute(f.orch.FavoritesLoaded())

	reqA := f.orch.Update(query.SetName("a"))
	reqB := f.orch.Update(query.SetName("b"))
	if reqA == nil || reqB == nil {
		t.Fatalf("updates issued nil requests")
	}
	if !reqA.Token.Cancelled() {
		t.Fatalf("issuing B did not cancel A")
	}

	// A arrives first, then B.
	if f.orch.Resolve(reqA.Do()) {
		t.Fatalf("stale result A was applied")
	}
	if f.store.List().Phase != state.Loading {
		t.Fatalf("phase after stale A = %v, want loading", f.store.List().Phase)
	}
	if !f.orch.Resolve(reqB.Do()) {
		t.Fatalf("result B was not applied")
	}
	if got := resultIDs(f.store.List().Page); !slices.Equal(got, []int{3}) {
		t.Fatalf("displayed = %v, want B's [3]", got)
	}

	// B arrives first, then A.
	reqA = f.orch.Update(query.SetName("a"))
	reqB = f.orch.Update(query.SetName("b"))
	resB := reqB.Do()
	resA := reqA.Do()
	f.orch.Resolve(resB)
	if f.orch.Resolve(resA) {
		t.Fatalf("late stale result A was applied")
	}
	if got := resultIDs(f.store.List().Page); !slices.Equal(got, []int{3}) {
		t.Fatalf("displayed = %v, want B's [3]", got)
	}
	if f.store.List().Params.Name != "b" {
		t.Fatalf("params name = %q, want b", f.store.List().Params.Name)
	}
}

func TestScenario_DecodeFetchAndAddress(t *testing.T) {
	f := newFixture(t)
	f.fetcher.listFn = func(ctx context.Context, filter catalog.Filter, page int) (catalog.Page, error) {
		return pageOf(4, 2, 9), nil
	}
	f.orch.Navigate(query.Decode("?status=alive&page=2"))
	if !f.orch.Execute(f.orch.FavoritesLoaded()) {
		t.Fatalf("result not applied")
	}

	snap := f.store.List()
	if snap.Phase != state.Ready {
		t.Fatalf("phase = %v, want ready", snap.Phase)
	}
	if got := resultIDs(snap.Page); !slices.Equal(got, []int{2, 4, 9}) {
		t.Fatalf("results = %v, want sorted by id", got)
	}
	if got := f.history.Current().String(); got != "/?status=alive&page=2" {
		t.Fatalf("address bar = %q, want /?status=alive&page=2", got)
	}
	if f.history.Len() != 1 {
		t.Fatalf("history len = %d, want 1 (replace, not push)", f.history.Len())
	}
	if len(f.cache.data) != 3 {
		t.Fatalf("cache holds %d records, want 3", len(f.cache.data))
	}
}

func TestSortChangeRefetchesAndKeepsPage(t *testing.T) {
	f := newFixture(t)
	f.fetcher.listFn = func(ctx context.Context, filter catalog.Filter, page int) (catalog.Page, error) {
		return pageOf(1, 2, 3), nil
	}
	f.orch.Navigate(query.Decode("page=3"))
	f.orch.Execute(f.orch.FavoritesLoaded())

	req := f.orch.Update(query.SetSort(query.Sort{By: query.SortByID, Order: query.Desc}))
	if req == nil {
		t.Fatalf("sort change issued nothing")
	}
	f.orch.Execute(req)
	snap := f.store.List()
	if snap.Params.Page != 3 {
		t.Fatalf("page = %d, want 3", snap.Params.Page)
	}
	if got := resultIDs(snap.Page); !slices.Equal(got, []int{3, 2, 1}) {
		t.Fatalf("results = %v, want [3 2 1]", got)
	}
	if f.fetcher.listCount() != 2 {
		t.Fatalf("list calls = %d, want 2", f.fetcher.listCount())
	}
}

func TestUnchangedParametersIssueNothing(t *testing.T) {
	f := newFixture(t)
	f.orch.Execute(f.orch.FavoritesLoaded())

	if req := f.orch.Update(query.SetPage(1)); req != nil {
		t.Fatalf("no-op update issued a request")
	}
	if req := f.orch.Navigate(query.Decode("sortBy=id&sortOrder=asc")); req != nil {
		t.Fatalf("equivalent navigate issued a request")
	}
}

func TestOnePublishPerTransition(t *testing.T) {
	f := newFixture(t)
	f.orch.Execute(f.orch.FavoritesLoaded())
	before := f.store.Snapshot().ListVersion

	f.orch.Execute(f.orch.Update(query.SetStatus(query.StatusDead)))
	if got := f.store.Snapshot().ListVersion - before; got != 2 {
		t.Fatalf("publishes = %d, want 2 (loading then ready)", got)
	}
}

func TestNotFoundIsReadyEmpty(t *testing.T) {
	f := newFixture(t)
	f.fetcher.listFn = func(ctx context.Context, filter catalog.Filter, page int) (catalog.Page, error) {
		return catalog.EmptyPage(), nil
	}
	f.orch.Execute(f.orch.FavoritesLoaded())

	snap := f.store.List()
	if snap.Phase != state.Ready || !snap.IsEmpty() || snap.Err != nil {
		t.Fatalf("snapshot = %#v, want ready and empty", snap)
	}
}

func TestServerErrorFailsAndRetryRecovers(t *testing.T) {
	f := newFixture(t)
	fail := true
	f.fetcher.listFn = func(ctx context.Context, filter catalog.Filter, page int) (catalog.Page, error) {
		if fail {
			return catalog.Page{}, &catalog.RemoteError{StatusCode: http.StatusInternalServerError}
		}
		return pageOf(1), nil
	}
	f.orch.Navigate(query.Decode("name=rick"))
	f.orch.Execute(f.orch.FavoritesLoaded())

	snap := f.store.List()
	var re *catalog.RemoteError
	if snap.Phase != state.Failed || !errors.As(snap.Err, &re) || re.StatusCode != 500 {
		t.Fatalf("snapshot = %#v, want failed with RemoteError{500}", snap)
	}

	fail = false
	req := f.orch.Retry()
	if req == nil || req.Params.Name != "rick" {
		t.Fatalf("Retry = %#v, want same params", req)
	}
	f.orch.Execute(req)
	if got := f.store.List(); got.Phase != state.Ready || len(got.Page.Results) != 1 {
		t.Fatalf("after retry = %#v, want ready with 1 result", got)
	}
}

func TestCancelledResultCausesNoTransition(t *testing.T) {
	f := newFixture(t)
	f.fetcher.listFn = func(ctx context.Context, filter catalog.Filter, page int) (catalog.Page, error) {
		return catalog.Page{}, &catalog.CancelledError{Err: context.Canceled}
	}
	req := f.orch.FavoritesLoaded()
	if f.orch.Resolve(req.Do()) {
		t.Fatalf("cancelled result caused a transition")
	}
	if f.orch.Phase() != state.Loading {
		t.Fatalf("phase = %v, want loading", f.orch.Phase())
	}
}

func TestCancelDropsInFlightResult(t *testing.T) {
	f := newFixture(t)
	req := f.orch.FavoritesLoaded()
	f.orch.Cancel()
	if !req.Token.Cancelled() {
		t.Fatalf("Cancel did not cancel the live token")
	}
	if f.orch.Resolve(req.Do()) {
		t.Fatalf("result applied after Cancel")
	}
}

func TestFavoritesMode_ResolvesLocallyWithoutListCalls(t *testing.T) {
	f := newFixture(t)
	f.favs.set = favorites.Set{1: true, 2: true, 3: true, 5: true}
	f.cache.data[1] = catalog.Resource{ID: 1, Name: "Rick Sanchez", Status: "Alive"}
	f.cache.data[2] = catalog.Resource{ID: 2, Name: "Morty Smith", Status: "Alive"}
	f.fetcher.records[3] = catalog.Resource{ID: 3, Name: "Summer Smith", Status: "Alive"}
	f.fetcher.records[5] = catalog.Resource{ID: 5, Name: "Jerry Smith", Status: "Alive"}

	f.orch.Navigate(query.Decode("favorites=true&name=smith&sortBy=name"))
	f.orch.Execute(f.orch.FavoritesLoaded())

	if f.fetcher.listCount() != 0 {
		t.Fatalf("list endpoint called %d times in favorites mode", f.fetcher.listCount())
	}
	if len(f.fetcher.batches) != 1 || !slices.Equal(f.fetcher.batches[0], []int{3, 5}) {
		t.Fatalf("batch lookups = %v, want one call for [3 5]", f.fetcher.batches)
	}
	snap := f.store.List()
	if got := resultIDs(snap.Page); !slices.Equal(got, []int{5, 2, 3}) {
		t.Fatalf("results = %v, want Jerry, Morty, Summer", got)
	}
	if snap.Page.Info.Count != 3 || snap.Page.Info.Pages != 1 {
		t.Fatalf("info = %#v, want count 3 pages 1", snap.Page.Info)
	}

	// Un-favoriting removes the record on the next reconcile, served from cache.
	delete(f.favs.set, 2)
	req := f.orch.FavoritesChanged()
	if req == nil {
		t.Fatalf("FavoritesChanged issued nothing in favorites mode")
	}
	f.orch.Execute(req)
	if got := resultIDs(f.store.List().Page); !slices.Equal(got, []int{5, 3}) {
		t.Fatalf("results after unfavorite = %v, want [5 3]", got)
	}
	if len(f.fetcher.batches) != 1 {
		t.Fatalf("batch lookups = %d, want cache hits only", len(f.fetcher.batches))
	}
}

func TestFavoritesMode_EmptySet(t *testing.T) {
	f := newFixture(t)
	f.orch.Navigate(query.Decode("favorites=true"))
	f.orch.Execute(f.orch.FavoritesLoaded())

	snap := f.store.List()
	if !snap.IsEmpty() || snap.Page.Info.Pages != 0 {
		t.Fatalf("snapshot = %#v, want ready and empty", snap)
	}
	if len(f.fetcher.batches) != 0 {
		t.Fatalf("batch lookups = %v, want none", f.fetcher.batches)
	}
}

func TestFavoritesMode_LookupErrorFails(t *testing.T) {
	f := newFixture(t)
	f.favs.set = favorites.Set{7: true}
	f.fetcher.batchErr = &catalog.RemoteError{StatusCode: http.StatusBadGateway}

	f.orch.Navigate(query.Decode("favorites=true"))
	f.orch.Execute(f.orch.FavoritesLoaded())
	if got := f.store.List(); got.Phase != state.Failed {
		t.Fatalf("phase = %v, want failed", got.Phase)
	}
}

func TestFavoritesChangedOutsideFavoritesMode(t *testing.T) {
	f := newFixture(t)
	f.orch.Execute(f.orch.FavoritesLoaded())
	if req := f.orch.FavoritesChanged(); req != nil {
		t.Fatalf("FavoritesChanged issued a request outside favorites mode")
	}
}

func TestHistoryNotTouchedOnDetailPage(t *testing.T) {
	f := newFixture(t)
	f.orch.Execute(f.orch.FavoritesLoaded())
	f.history.Push(query.DetailLocation(3))

	f.orch.Execute(f.orch.Update(query.SetStatus(query.StatusDead)))
	if got := f.history.Current().String(); got != "/character/3" {
		t.Fatalf("address bar = %q, want detail location kept", got)
	}
}

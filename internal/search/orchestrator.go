// Package search keeps the list view consistent with its search parameters.
//
// The Orchestrator owns the canonical query.Params of the list view. Every
// parameter change cancels the in-flight fetch and issues a new one; results
// of superseded fetches are discarded on arrival, so the published state
// always matches the most recently issued parameters.
package search

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/favorites"
	"github.com/five82/portal/internal/query"
	"github.com/five82/portal/internal/request"
	"github.com/five82/portal/internal/results"
	"github.com/five82/portal/internal/state"
)

// FavoriteSource is the read side of the favorites store.
type FavoriteSource interface {
	IDs() []int
	Snapshot() favorites.Set
}

// Cache stores records seen in fetch results so favorites mode can resolve
// them without a network call.
type Cache interface {
	PutResources(ctx context.Context, list []catalog.Resource) error
	GetResources(ctx context.Context, ids []int) (map[int]catalog.Resource, error)
}

// Options wires an Orchestrator. Fetcher, Favorites and Store are required.
type Options struct {
	Fetcher   catalog.Fetcher
	Favorites FavoriteSource
	Cache     Cache
	Store     *state.Store
	History   *query.History
	Logger    *log.Logger
	// Context bounds every issued request; cancelling it cancels them all.
	Context context.Context
}

// Orchestrator is safe for concurrent use. State changes happen inside its
// methods; the fetches themselves run in Request.Do.
type Orchestrator struct {
	fetcher catalog.Fetcher
	favs    FavoriteSource
	cache   Cache
	store   *state.Store
	history *query.History
	logger  *log.Logger
	slot    *request.Slot

	mu        sync.Mutex
	params    query.Params
	phase     state.Phase
	favsReady bool
}

// New returns an Orchestrator in the Idle phase with default parameters.
// Nothing is fetched until FavoritesLoaded is called.
func New(opts Options) (*Orchestrator, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("search: fetcher is required")
	}
	if opts.Favorites == nil {
		return nil, errors.New("search: favorites source is required")
	}
	if opts.Store == nil {
		return nil, errors.New("search: state store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Orchestrator{
		fetcher: opts.Fetcher,
		favs:    opts.Favorites,
		cache:   opts.Cache,
		store:   opts.Store,
		history: opts.History,
		logger:  logger.With("component", "search"),
		slot:    request.NewSlot(opts.Context),
		params:  query.Defaults(),
		phase:   state.Idle,
	}, nil
}

// Params returns the canonical parameters.
func (o *Orchestrator) Params() query.Params {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.params
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() state.Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Address returns the canonical query string.
func (o *Orchestrator) Address() string {
	return query.Encode(o.Params())
}

// Update applies patch to the current parameters. It returns the fetch to
// run, or nil when the parameters did not change or favorites are not loaded
// yet.
func (o *Orchestrator) Update(patch query.Patch) *Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.setParams(query.Apply(o.params, patch))
}

// Navigate replaces the parameters wholesale, as when the address bar
// changes. Unchanged parameters issue nothing unless no fetch has been
// issued yet.
func (o *Orchestrator) Navigate(p query.Params) *Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.setParams(p.Normalize())
}

func (o *Orchestrator) setParams(next query.Params) *Request {
	changed := !query.Equivalent(o.params, next)
	o.params = next
	if !o.favsReady {
		o.publishIdle()
		return nil
	}
	if !changed && o.phase != state.Idle {
		return nil
	}
	return o.issue("params")
}

// FavoritesLoaded lifts the startup gate and issues the fetch for the
// current parameters. Later calls return nil.
func (o *Orchestrator) FavoritesLoaded() *Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.favsReady {
		return nil
	}
	o.favsReady = true
	return o.issue("favorites loaded")
}

// FavoritesChanged re-reconciles in favorites mode so that toggled records
// enter or leave the view. Outside favorites mode it returns nil.
func (o *Orchestrator) FavoritesChanged() *Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.favsReady || !o.params.Favorites {
		return nil
	}
	return o.issue("favorites changed")
}

// Retry re-issues the fetch for the current parameters.
func (o *Orchestrator) Retry() *Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.favsReady {
		return nil
	}
	return o.issue("retry")
}

// Cancel abandons the in-flight fetch, if any, without a state change.
func (o *Orchestrator) Cancel() {
	if live := o.slot.Live(); live != nil {
		o.logger.Debug("fetch cancelled", "seq", live.Seq, "request_id", live.ID)
	}
	o.slot.Cancel()
}

// Resolve applies res when it belongs to the live request and reports
// whether the state changed. Results of superseded or cancelled requests
// are dropped.
func (o *Orchestrator) Resolve(res Result) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if res.Token == nil {
		return false
	}
	if !o.slot.Current(res.Token) {
		o.logger.Debug("stale result discarded", "seq", res.Token.Seq, "request_id", res.Token.ID)
		return false
	}
	if catalog.IsCancelled(res.Err) {
		o.logger.Debug("cancelled result discarded", "seq", res.Token.Seq, "request_id", res.Token.ID)
		return false
	}
	o.slot.Release(res.Token)

	if res.Err != nil {
		o.phase = state.Failed
		o.logger.Warn("fetch failed", "seq", res.Token.Seq, "request_id", res.Token.ID, "err", res.Err)
		o.publish(state.ListSnapshot{Phase: state.Failed, Err: res.Err, Seq: res.Token.Seq})
		return true
	}

	o.phase = state.Ready
	o.logger.Debug("results published",
		"seq", res.Token.Seq,
		"request_id", res.Token.ID,
		"count", len(res.Page.Results),
		"total", res.Page.Info.Count,
	)
	o.publish(state.ListSnapshot{Phase: state.Ready, Page: res.Page, Seq: res.Token.Seq})
	return true
}

// Execute runs req inline and resolves it. It is the synchronous path used
// outside the UI event loop.
func (o *Orchestrator) Execute(req *Request) bool {
	if req == nil {
		return false
	}
	return o.Resolve(req.Do())
}

func (o *Orchestrator) issue(reason string) *Request {
	if live := o.slot.Live(); live != nil {
		o.logger.Debug("fetch superseded", "seq", live.Seq, "request_id", live.ID)
	}
	tok := o.slot.Issue()
	params := o.params

	var run func(ctx context.Context) (catalog.Page, error)
	if params.Favorites {
		ids := o.favs.IDs()
		set := o.favs.Snapshot()
		run = func(ctx context.Context) (catalog.Page, error) {
			return o.fetchFavorites(ctx, params, ids, set)
		}
	} else {
		run = func(ctx context.Context) (catalog.Page, error) {
			return o.fetchList(ctx, params)
		}
	}

	o.phase = state.Loading
	o.logger.Debug("fetch issued",
		"seq", tok.Seq,
		"request_id", tok.ID,
		"reason", reason,
		"query", query.Encode(params),
	)
	o.publish(state.ListSnapshot{Phase: state.Loading, Seq: tok.Seq})
	return &Request{Token: tok, Params: params, run: run}
}

func (o *Orchestrator) publishIdle() {
	o.publish(state.ListSnapshot{Phase: state.Idle})
}

// publish stamps the snapshot with the current parameters and mirrors them
// into the address bar. Callers hold o.mu.
func (o *Orchestrator) publish(snap state.ListSnapshot) {
	snap.Params = o.params
	snap.Address = query.Encode(o.params)
	snap.UpdatedAt = time.Now()
	if snap.Page.Results == nil {
		snap.Page.Results = []catalog.Resource{}
	}
	o.store.PublishList(snap)

	if o.history != nil && o.history.Current().Path == "/" {
		o.history.Replace(query.ListLocation(o.params))
	}
}

func (o *Orchestrator) fetchList(ctx context.Context, p query.Params) (catalog.Page, error) {
	page, err := o.fetcher.ListResources(ctx, FilterFor(p), p.Page)
	if err != nil {
		return catalog.Page{}, err
	}
	o.remember(ctx, page.Results)
	page.Results = results.Sort(page.Results, p.Sort.By, p.Sort.Order)
	return page, nil
}

func (o *Orchestrator) fetchFavorites(ctx context.Context, p query.Params, ids []int, set favorites.Set) (catalog.Page, error) {
	records, err := o.resolveRecords(ctx, ids)
	if err != nil {
		return catalog.Page{}, err
	}
	list := results.Match(records, FilterFor(p))
	list = results.FilterByFavorites(list, set)
	list = results.Sort(list, p.Sort.By, p.Sort.Order)
	return results.Paginate(list, p.Page, results.PageSize), nil
}

// resolveRecords returns the records for ids in id order, reading the cache
// first and fetching only the misses.
func (o *Orchestrator) resolveRecords(ctx context.Context, ids []int) ([]catalog.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found := map[int]catalog.Resource{}
	if o.cache != nil {
		cached, err := o.cache.GetResources(ctx, ids)
		if err != nil {
			o.logger.Warn("resource cache read failed", "err", err)
		} else {
			found = cached
		}
	}

	var missing []int
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		fetched, err := o.fetcher.GetResources(ctx, missing)
		if err != nil {
			return nil, err
		}
		o.remember(ctx, fetched)
		for _, r := range fetched {
			found[r.ID] = r
		}
	}

	out := make([]catalog.Resource, 0, len(ids))
	for _, id := range ids {
		if r, ok := found[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (o *Orchestrator) remember(ctx context.Context, list []catalog.Resource) {
	if o.cache == nil || len(list) == 0 {
		return
	}
	if err := o.cache.PutResources(ctx, list); err != nil && ctx.Err() == nil {
		o.logger.Warn("resource cache write failed", "err", err)
	}
}

// FilterFor returns the server-side filters of p.
func FilterFor(p query.Params) catalog.Filter {
	return catalog.Filter{
		Name:    p.Name,
		Status:  string(p.Status),
		Gender:  string(p.Gender),
		Species: p.Species,
	}
}

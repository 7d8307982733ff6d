// Package detail loads a single record for the detail view.
//
// It follows the same issue/resolve protocol as the search orchestrator: Load
// cancels any in-flight lookup and returns a *Request; the caller runs
// Request.Do and passes the Result to Resolve, which drops superseded
// results.
package detail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/request"
	"github.com/five82/portal/internal/state"
)

// ValidationError reports an id that cannot name a record. No request is
// made for it.
type ValidationError struct {
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid character id %q", e.Input)
}

// ParseID accepts positive decimal integers.
func ParseID(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	id, err := strconv.Atoi(trimmed)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Input: raw}
	}
	return id, nil
}

// Cache receives fetched records.
type Cache interface {
	PutResources(ctx context.Context, list []catalog.Resource) error
}

// Options wires a Loader. Fetcher and Store are required.
type Options struct {
	Fetcher catalog.Fetcher
	Store   *state.Store
	Cache   Cache
	Logger  *log.Logger
	Context context.Context
}

// Loader is safe for concurrent use.
type Loader struct {
	fetcher catalog.Fetcher
	store   *state.Store
	cache   Cache
	logger  *log.Logger
	slot    *request.Slot

	mu    sync.Mutex
	input string
	id    int
}

// New returns an idle Loader.
func New(opts Options) (*Loader, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("detail: fetcher is required")
	}
	if opts.Store == nil {
		return nil, errors.New("detail: state store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		fetcher: opts.Fetcher,
		store:   opts.Store,
		cache:   opts.Cache,
		logger:  logger.With("component", "detail"),
		slot:    request.NewSlot(opts.Context),
	}, nil
}

// Request is one issued lookup.
type Request struct {
	Token *request.Token
	ID    int

	fetcher catalog.Fetcher
	cache   Cache
	logger  *log.Logger
}

// Result is the outcome of Request.Do.
type Result struct {
	Token    *request.Token
	ID       int
	Resource catalog.Resource
	Err      error
}

// Do performs the lookup. A nil request yields a zero Result.
func (r *Request) Do() Result {
	if r == nil || r.fetcher == nil {
		return Result{}
	}
	ctx := r.Token.Context()
	res, err := r.fetcher.GetResource(ctx, r.ID)
	if err == nil && r.cache != nil {
		if cerr := r.cache.PutResources(ctx, []catalog.Resource{res}); cerr != nil && ctx.Err() == nil && r.logger != nil {
			r.logger.Warn("resource cache write failed", "id", r.ID, "err", cerr)
		}
	}
	return Result{Token: r.Token, ID: r.ID, Resource: res, Err: err}
}

// Load starts loading rawID. Invalid ids fail immediately with a
// *ValidationError and return nil.
func (l *Loader) Load(rawID string) *Request {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.input = rawID
	id, err := ParseID(rawID)
	if err != nil {
		l.slot.Cancel()
		l.id = 0
		l.logger.Debug("invalid id", "input", rawID)
		l.store.PublishDetail(state.DetailSnapshot{Phase: state.Failed, Input: rawID, Err: err})
		return nil
	}
	l.id = id
	return l.issue()
}

// Retry re-issues the last valid lookup. It returns nil when there is none.
func (l *Loader) Retry() *Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.id == 0 {
		return nil
	}
	return l.issue()
}

// Cancel abandons the in-flight lookup, if any.
func (l *Loader) Cancel() {
	l.slot.Cancel()
}

// Resolve applies res when it belongs to the live lookup and reports
// whether the state changed.
func (l *Loader) Resolve(res Result) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if res.Token == nil || !l.slot.Current(res.Token) {
		return false
	}
	if catalog.IsCancelled(res.Err) {
		return false
	}
	l.slot.Release(res.Token)

	snap := state.DetailSnapshot{Input: l.input, ID: res.ID, Seq: res.Token.Seq}
	if res.Err != nil {
		l.logger.Warn("lookup failed", "id", res.ID, "request_id", res.Token.ID, "err", res.Err)
		snap.Phase = state.Failed
		snap.Err = res.Err
	} else {
		snap.Phase = state.Ready
		snap.Resource = res.Resource
	}
	l.store.PublishDetail(snap)
	return true
}

// Execute runs req inline and resolves it.
func (l *Loader) Execute(req *Request) bool {
	if req == nil {
		return false
	}
	return l.Resolve(req.Do())
}

func (l *Loader) issue() *Request {
	tok := l.slot.Issue()
	l.logger.Debug("lookup issued", "id", l.id, "seq", tok.Seq, "request_id", tok.ID)
	l.store.PublishDetail(state.DetailSnapshot{Phase: state.Loading, Input: l.input, ID: l.id, Seq: tok.Seq})
	return &Request{Token: tok, ID: l.id, fetcher: l.fetcher, cache: l.cache, logger: l.logger}
}

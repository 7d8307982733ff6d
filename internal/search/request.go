package search

import (
	"context"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/query"
	"github.com/five82/portal/internal/request"
)

// Request is one issued fetch. Do may run on any goroutine; its Result must
// be handed back to the Orchestrator that issued it.
type Request struct {
	Token  *request.Token
	Params query.Params

	run func(ctx context.Context) (catalog.Page, error)
}

// Result is the outcome of Request.Do. Page is already post-processed.
type Result struct {
	Token  *request.Token
	Params query.Params
	Page   catalog.Page
	Err    error
}

// Do performs the fetch and post-processing. A nil request yields a zero
// Result, which Resolve ignores.
func (r *Request) Do() Result {
	if r == nil || r.run == nil {
		return Result{}
	}
	page, err := r.run(r.Token.Context())
	return Result{Token: r.Token, Params: r.Params, Page: page, Err: err}
}

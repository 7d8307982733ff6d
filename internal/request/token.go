// Package request issues cancellation tokens for in-flight fetches.
//
// A Slot holds at most one live Token. Issuing a new token cancels the
// previous one, so a caller that checks Slot.Current before applying a
// result can never apply a superseded response.
package request

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Token is the handle for one issued request.
type Token struct {
	Seq uint64
	ID  string

	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the context the request must run under.
func (t *Token) Context() context.Context {
	if t == nil {
		return context.Background()
	}
	return t.ctx
}

// Cancel signals the request to stop. It is safe to call more than once.
func (t *Token) Cancel() {
	if t == nil || t.cancel == nil {
		return
	}
	t.cancel()
}

// Cancelled reports whether the token has been cancelled.
func (t *Token) Cancelled() bool {
	return t == nil || t.ctx.Err() != nil
}

// Slot keeps the single live token for one owner (an orchestrator or a
// detail loader).
type Slot struct {
	mu     sync.Mutex
	parent context.Context
	seq    uint64
	live   *Token
}

// NewSlot returns a slot whose tokens derive from parent. A nil parent uses
// context.Background.
func NewSlot(parent context.Context) *Slot {
	if parent == nil {
		parent = context.Background()
	}
	return &Slot{parent: parent}
}

// Issue cancels the live token, if any, and returns a fresh one.
func (s *Slot) Issue() *Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live != nil {
		s.live.cancel()
	}
	s.seq++
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.WithValue(s.parent, ctxKey{}, id))
	s.live = &Token{Seq: s.seq, ID: id, ctx: ctx, cancel: cancel}
	return s.live
}

// Current reports whether t is the live token and has not been cancelled.
func (s *Slot) Current(t *Token) bool {
	if t == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live == t && t.ctx.Err() == nil
}

// Live returns the live token, or nil.
func (s *Slot) Live() *Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Release cancels and forgets t when it is still the live token. The
// request's result has been applied at that point.
func (s *Slot) Release(t *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == t && t != nil {
		t.cancel()
		s.live = nil
	}
}

// Cancel cancels the live token and leaves the slot empty.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live != nil {
		s.live.cancel()
		s.live = nil
	}
}

// IDFromContext returns the request id attached by Slot.Issue.
func IDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

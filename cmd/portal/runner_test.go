package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/five82/portal/internal/app"
	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/detail"
	"github.com/five82/portal/internal/query"
	"github.com/five82/portal/internal/storage"
)

var testRecords = map[int]catalog.Resource{
	1: {ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human", Gender: "Male",
		Location: catalog.Place{Name: "Citadel of Ricks"},
		Episode: []string{
			"https://rickandmortyapi.com/api/episode/1",
			"https://rickandmortyapi.com/api/episode/2",
		},
		Created: "2017-11-04T18:48:46.250Z"},
	2: {ID: 2, Name: "Morty Smith", Status: "Alive", Species: "Human", Gender: "Male"},
	8: {ID: 8, Name: "Adjudicator Rick", Status: "Dead", Species: "Human", Gender: "Male"},
}

type stubFetcher struct {
	mu      sync.Mutex
	filters []catalog.Filter
}

func (f *stubFetcher) ListResources(_ context.Context, filter catalog.Filter, _ int) (catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)

	var out catalog.Page
	for _, id := range []int{1, 2, 8} {
		r := testRecords[id]
		if filter.Status != "" && !strings.EqualFold(r.Status, filter.Status) {
			continue
		}
		out.Results = append(out.Results, r)
	}
	out.Info = catalog.Info{Count: len(out.Results), Pages: 1}
	return out, nil
}

func (f *stubFetcher) GetResource(_ context.Context, id int) (catalog.Resource, error) {
	r, ok := testRecords[id]
	if !ok {
		return catalog.Resource{}, &catalog.RemoteError{StatusCode: 404}
	}
	return r, nil
}

func (f *stubFetcher) GetResources(_ context.Context, ids []int) ([]catalog.Resource, error) {
	var out []catalog.Resource
	for _, id := range ids {
		if r, ok := testRecords[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *stubFetcher) listCalls() []catalog.Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Filter(nil), f.filters...)
}

type fixture struct {
	fetcher *stubFetcher
	output  *bytes.Buffer
	runner  *Runner
	opened  []app.Options
	browsed []app.Options
	runErr  error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "portal.db")

	f := &fixture{fetcher: &stubFetcher{}, output: &bytes.Buffer{}}
	f.runner = NewRunner(RunnerOpts{
		Open: func(ctx context.Context, opts app.Options) (*app.Env, error) {
			f.opened = append(f.opened, opts)
			db, err := storage.Open(dbPath)
			if err != nil {
				return nil, err
			}
			return app.Assemble(ctx, app.Parts{DB: db, Fetcher: f.fetcher}, query.ParseLocation("/"))
		},
		Run: func(_ context.Context, opts app.Options) error {
			f.browsed = append(f.browsed, opts)
			return f.runErr
		},
		Output: f.output,
	})
	return f
}

func (f *fixture) run(t *testing.T, args ...string) error {
	t.Helper()
	f.output.Reset()
	return f.runner.Command().Run(context.Background(), append([]string{"portal"}, args...))
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(RunnerOpts{})
	if r.open == nil || r.run == nil {
		t.Fatal("expected application defaults")
	}
	if r.output == nil {
		t.Fatal("expected default output")
	}
}

func TestEncode(t *testing.T) {
	f := newFixture(t)

	if err := f.run(t, "encode", "?page=2&status=ALIVE&name="); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := f.output.String(); got != "status=alive&page=2\n" {
		t.Fatalf("output = %q", got)
	}
	if len(f.opened) != 0 {
		t.Fatal("encode should not open the environment")
	}
}

func TestListTable(t *testing.T) {
	f := newFixture(t)

	if err := f.run(t, "--config", "custom.toml", "--log-level", "debug", "list", "--query", "status=alive"); err != nil {
		t.Fatalf("list: %v", err)
	}

	out := f.output.String()
	for _, want := range []string{"NAME", "Rick Sanchez", "Morty Smith", "page 1 of 1 · 2 results · /?status=alive"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Adjudicator") {
		t.Fatalf("filtered record listed:\n%s", out)
	}

	calls := f.fetcher.listCalls()
	if len(calls) != 1 || calls[0].Status != "alive" {
		t.Fatalf("unexpected list calls: %+v", calls)
	}

	opts := f.opened[0]
	if opts.ConfigPath != "custom.toml" || opts.LogLevel != "debug" {
		t.Fatalf("global flags not passed: %+v", opts)
	}
	if opts.LogFile != "-" {
		t.Fatalf("one-shot commands should log to stderr, got %q", opts.LogFile)
	}
}

func TestListJSON(t *testing.T) {
	f := newFixture(t)

	if err := f.run(t, "list", "--query", "sortBy=name", "--output", "json"); err != nil {
		t.Fatalf("list: %v", err)
	}

	var got listOutput
	if err := json.Unmarshal(f.output.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, f.output.String())
	}
	if got.Address != "/?sortBy=name" || got.Page != 1 {
		t.Fatalf("unexpected envelope: %+v", got)
	}
	names := make([]string, 0, len(got.Results))
	for _, r := range got.Results {
		names = append(names, r.Name)
	}
	if strings.Join(names, ",") != "Adjudicator Rick,Morty Smith,Rick Sanchez" {
		t.Fatalf("results not sorted by name: %v", names)
	}
}

func TestListYAML(t *testing.T) {
	f := newFixture(t)

	if err := f.run(t, "list", "-o", "yaml"); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := f.output.String()
	for _, want := range []string{"results:", "name: Rick Sanchez", "count: 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListRejectsUnknownFormat(t *testing.T) {
	f := newFixture(t)

	err := f.run(t, "list", "--output", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("expected format error, got %v", err)
	}
	if len(f.opened) != 0 {
		t.Fatal("format should be validated before opening the environment")
	}
}

func TestShow(t *testing.T) {
	f := newFixture(t)

	if err := f.run(t, "show", "1"); err != nil {
		t.Fatalf("show: %v", err)
	}
	out := f.output.String()
	for _, want := range []string{"Rick Sanchez", "Citadel of Ricks", "Episode 1", "2017-11-04"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowJSON(t *testing.T) {
	f := newFixture(t)

	if err := f.run(t, "show", "1", "--output", "json"); err != nil {
		t.Fatalf("show: %v", err)
	}

	var got struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		Favorite  bool   `json:"favorite"`
		FirstSeen int    `json:"first_seen"`
		Episodes  []int  `json:"episodes"`
	}
	if err := json.Unmarshal(f.output.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.ID != 1 || got.Name != "Rick Sanchez" || got.FirstSeen != 1 || len(got.Episodes) != 2 {
		t.Fatalf("unexpected output: %+v", got)
	}
}

func TestShowErrors(t *testing.T) {
	f := newFixture(t)

	err := f.run(t, "show", "abc")
	var invalid *detail.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	err = f.run(t, "show", "99")
	var remote *catalog.RemoteError
	if !errors.As(err, &remote) || remote.StatusCode != 404 {
		t.Fatalf("expected 404 RemoteError, got %v", err)
	}

	if err := f.run(t, "show"); err == nil {
		t.Fatal("expected error without an id")
	}
}

func TestFavoritesToggleAndList(t *testing.T) {
	f := newFixture(t)

	if err := f.run(t, "favorites", "toggle", "2"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := f.output.String(); got != "★ added 2 (1 favorites)\n" {
		t.Fatalf("toggle output = %q", got)
	}

	if err := f.run(t, "favorites", "list"); err != nil {
		t.Fatalf("favorites list: %v", err)
	}
	out := f.output.String()
	if !strings.Contains(out, "Morty Smith") || strings.Contains(out, "Rick Sanchez") {
		t.Fatalf("unexpected favorites listing:\n%s", out)
	}
	if !strings.Contains(out, "/?favorites=true") {
		t.Fatalf("address missing from footer:\n%s", out)
	}
	if n := len(f.fetcher.listCalls()); n != 0 {
		t.Fatalf("favorites mode must not call the list endpoint, got %d calls", n)
	}

	if err := f.run(t, "fav", "toggle", "2"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := f.output.String(); got != "removed 2 (0 favorites)\n" {
		t.Fatalf("toggle output = %q", got)
	}

	if err := f.run(t, "favorites", "list"); err != nil {
		t.Fatalf("favorites list: %v", err)
	}
	if got := f.output.String(); got != "No favorites yet.\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestFavoritesToggleRejectsBadID(t *testing.T) {
	f := newFixture(t)

	err := f.run(t, "favorites", "toggle", "abc")
	var invalid *detail.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBrowse(t *testing.T) {
	f := newFixture(t)

	if err := f.run(t, "--query", "status=dead", "--prefs", "p.toml"); err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(f.browsed) != 1 {
		t.Fatalf("expected the TUI to start once, got %d", len(f.browsed))
	}
	opts := f.browsed[0]
	if opts.Query != "status=dead" || opts.PrefsPath != "p.toml" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.LogFile != "" {
		t.Fatalf("the TUI should use the configured log file, got %q", opts.LogFile)
	}

	f.runErr = errors.New("terminal gone")
	if err := f.run(t); err == nil || !strings.Contains(err.Error(), "terminal gone") {
		t.Fatalf("expected run error, got %v", err)
	}

	if err := f.run(t, "bogus"); err == nil {
		t.Fatal("expected unknown command error")
	}
}

package search

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/your-org/kbeauty-storefront/internal/pkg/logger"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

type fakeSuggester struct {
	mu    sync.Mutex
	calls []string
	delay map[string]time.Duration
	err   error
}

func (f *fakeSuggester) Suggestions(ctx context.Context, query string) (*Suggestions, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	d := f.delay[query]
	f.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &Suggestions{
		Suggestions: []string{query + " serum"},
		Brands:      []string{"COSRX"},
		Categories:  []string{"Soins"},
	}, nil
}

func (f *fakeSuggester) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newService(sg Suggester, mem storage.Storage, delay time.Duration) *Service {
	svc := NewService(sg, NewRecentList(mem, logger.Discard()), []string{"sérum", "COSRX"}, delay, logger.Discard())
	svc.Rehydrate(context.Background())
	return svc
}

func collect(svc *Service) (func() []Panel, func()) {
	var mu sync.Mutex
	var got []Panel
	unsub := svc.Subscribe(func(p Panel) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	})
	return func() []Panel {
		mu.Lock()
		defer mu.Unlock()
		return append([]Panel(nil), got...)
	}, unsub
}

func TestSuggest_ShortQueryShowsRecentAndPopular(t *testing.T) {
	sg := &fakeSuggester{}
	svc := newService(sg, storage.NewMemory(), time.Millisecond)
	_, _ = svc.Submit(context.Background(), "crème")

	panel := svc.Suggest(context.Background(), " s ")

	if len(sg.Calls()) != 0 {
		t.Fatalf("short query must not reach the backend")
	}
	if !reflect.DeepEqual(panel.Recent, []string{"crème"}) {
		t.Fatalf("unexpected recent %v", panel.Recent)
	}
	if !reflect.DeepEqual(panel.Popular, []string{"sérum", "COSRX"}) {
		t.Fatalf("unexpected popular %v", panel.Popular)
	}
}

func TestSuggest_FailureYieldsEmptyGroups(t *testing.T) {
	svc := newService(&fakeSuggester{err: errors.New("boom")}, storage.NewMemory(), time.Millisecond)

	panel := svc.Suggest(context.Background(), "snail")

	if len(panel.Suggestions) != 0 || len(panel.Brands) != 0 || len(panel.Categories) != 0 {
		t.Fatalf("expected empty groups, got %+v", panel)
	}
	if panel.Suggestions == nil {
		t.Fatalf("groups should be empty, not nil")
	}
}

func TestType_DebouncesKeystrokes(t *testing.T) {
	sg := &fakeSuggester{}
	svc := newService(sg, storage.NewMemory(), 40*time.Millisecond)
	panels, unsub := collect(svc)
	defer unsub()

	for _, q := range []string{"s", "sn", "sna", "snai", "snail"} {
		svc.Type(q)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if calls := sg.Calls(); !reflect.DeepEqual(calls, []string{"snail"}) {
		t.Fatalf("expected a single fetch for the final query, got %v", calls)
	}
	got := panels()
	if len(got) != 1 || got[0].Query != "snail" {
		t.Fatalf("unexpected panels %+v", got)
	}
}

func TestType_StaleResponseIsDropped(t *testing.T) {
	sg := &fakeSuggester{delay: map[string]time.Duration{"slow": 200 * time.Millisecond}}
	svc := newService(sg, storage.NewMemory(), 10*time.Millisecond)
	panels, unsub := collect(svc)
	defer unsub()

	svc.Type("slow")
	time.Sleep(40 * time.Millisecond) // fetch for "slow" is now in flight
	svc.Type("fast")
	time.Sleep(300 * time.Millisecond)

	got := panels()
	if len(got) != 1 || got[0].Query != "fast" {
		t.Fatalf("only the newest query should publish, got %+v", got)
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	svc := newService(&fakeSuggester{}, mem, time.Millisecond)

	if _, err := svc.Submit(ctx, "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}

	nav, err := svc.Submit(ctx, " crème solaire ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if nav.Term != "crème solaire" || nav.Path != "/products?search=cr%C3%A8me+solaire" {
		t.Fatalf("unexpected navigation %+v", nav)
	}
}

func TestRecentList_DedupAndCap(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	list := NewRecentList(mem, logger.Discard())
	list.Rehydrate(ctx)

	for _, term := range []string{"a1", "a2", "a3", "a4", "a5", "a2", "a6"} {
		list.Add(ctx, term)
	}

	want := []string{"a6", "a2", "a5", "a4", "a3"}
	if got := list.Terms(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	reloaded := NewRecentList(mem, logger.Discard())
	reloaded.Rehydrate(ctx)
	if got := reloaded.Terms(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected persisted %v, got %v", want, got)
	}
}

func TestRecentList_CorruptStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	_ = mem.Set(ctx, RecentStorageKey, "not json")

	list := NewRecentList(mem, logger.Discard())
	list.Rehydrate(ctx)

	if len(list.Terms()) != 0 {
		t.Fatalf("expected empty list")
	}
}

type unreadable struct{ storage.Storage }

func (unreadable) Get(context.Context, string) (string, error) {
	return "", errors.New("connection reset")
}

func TestRecentList_ReadFailureIsReturned(t *testing.T) {
	list := NewRecentList(unreadable{storage.NewMemory()}, logger.Discard())
	if err := list.Rehydrate(context.Background()); err == nil {
		t.Fatalf("expected the read error")
	}
}

type correctingSuggester struct{}

func (correctingSuggester) Suggestions(context.Context, string) (*Suggestions, error) {
	return &Suggestions{}, nil
}

func (correctingSuggester) DidYouMean(context.Context, string) ([]string, error) {
	return []string{"sérum"}, nil
}

func TestSuggest_NoMatchOffersCorrections(t *testing.T) {
	svc := newService(correctingSuggester{}, storage.NewMemory(), time.Millisecond)

	panel := svc.Suggest(context.Background(), "serym")

	if !reflect.DeepEqual(panel.DidYouMean, []string{"sérum"}) {
		t.Fatalf("expected a correction, got %+v", panel)
	}
}

package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/pkg/observer"
)

// ErrEmptyQuery is returned when a blank term is submitted
var ErrEmptyQuery = errors.New("search term is empty")

// Service turns keystrokes into suggestion panels and submitted terms into
// navigation targets
type Service struct {
	suggester Suggester
	recent    *RecentList
	popular   []string
	debouncer *Debouncer
	logger    logrus.FieldLogger
	panels    observer.Subject[Panel]

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

func NewService(suggester Suggester, recent *RecentList, popular []string, delay time.Duration, logger logrus.FieldLogger) *Service {
	return &Service{
		suggester: suggester,
		recent:    recent,
		popular:   popular,
		debouncer: NewDebouncer(delay),
		logger:    logger.WithField("store", "search"),
	}
}

// Type records a keystroke. The panel for query is published to subscribers
// once no further keystroke arrives within the debounce delay. A keystroke
// also cancels a fetch still in flight for an older query.
func (s *Service) Type(query string) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.debouncer.Trigger(func() {
		ctx, cancel := context.WithCancel(context.Background())

		s.mu.Lock()
		if gen != s.generation {
			s.mu.Unlock()
			cancel()
			return
		}
		s.cancel = cancel
		s.mu.Unlock()

		panel := s.Suggest(ctx, query)

		s.mu.Lock()
		current := gen == s.generation
		if current {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()

		if !current {
			s.logger.WithField("query", query).Debug("Dropping stale suggestions")
			return
		}
		s.panels.Notify(panel)
	})
}

// Suggest resolves the panel for query right away
func (s *Service) Suggest(ctx context.Context, query string) Panel {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return Panel{
			Query:       query,
			Suggestions: []string{},
			Brands:      []string{},
			Categories:  []string{},
			Recent:      s.recent.Terms(),
			Popular:     append([]string(nil), s.popular...),
		}
	}

	panel := Panel{Query: query, Suggestions: []string{}, Brands: []string{}, Categories: []string{}}
	res, err := s.suggester.Suggestions(ctx, query)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.WithError(err).WithField("query", query).Warn("Failed to fetch suggestions")
		}
		return panel
	}
	if res.Suggestions != nil {
		panel.Suggestions = res.Suggestions
	}
	if res.Brands != nil {
		panel.Brands = res.Brands
	}
	if res.Categories != nil {
		panel.Categories = res.Categories
	}

	if corrector, ok := s.suggester.(Corrector); ok && panel.empty() {
		if alt, err := corrector.DidYouMean(ctx, query); err == nil {
			panel.DidYouMean = alt
		}
	}
	return panel
}

// Submit records term as a recent search and returns where it leads.
// Any pending suggestion fetch is abandoned.
func (s *Service) Submit(ctx context.Context, term string) (Navigation, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Navigation{}, ErrEmptyQuery
	}

	s.Close()
	s.recent.Add(ctx, term)
	return navigationFor(term), nil
}

// Rehydrate loads the persisted recent searches
func (s *Service) Rehydrate(ctx context.Context) error {
	return s.recent.Rehydrate(ctx)
}

// Recent returns the recent searches, most recent first
func (s *Service) Recent() []string {
	return s.recent.Terms()
}

func (s *Service) Subscribe(fn func(Panel)) func() {
	return s.panels.Subscribe(fn)
}

// Close cancels the pending keystroke and any fetch in flight
func (s *Service) Close() {
	s.debouncer.Stop()

	s.mu.Lock()
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
}

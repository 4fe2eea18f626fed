// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package recommend

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/tomtom215/plexintel/internal/backend"
	"github.com/tomtom215/plexintel/internal/logging"
	"github.com/tomtom215/plexintel/internal/metrics"
	"github.com/tomtom215/plexintel/internal/models"
)

// Source is the part of the backend the view model reads from and writes to.
type Source interface {
	ListRecommendations(ctx context.Context, q backend.Query) (*models.RecommendationBatch, error)
	WhoAmI(ctx context.Context) (*models.Me, error)
	SubmitFeedback(ctx context.Context, fb models.FeedbackRequest) error
}

// Options configures a ViewModel.
type Options struct {
	// Locale is a BCP 47 tag used for string sorting. Default: en
	Locale string

	// RequireReason makes a reason code mandatory for feedback whenever the
	// batch offers reasons for the chosen direction.
	RequireReason bool

	// DefaultView is the view shown on Mount. Default: all
	DefaultView ViewMode
}

// Row is one visible item together with its feedback state.
type Row struct {
	Item
	Feedback FeedbackRecord `json:"feedback"`
}

// Snapshot is a point-in-time copy of everything the view renders.
type Snapshot struct {
	State           ViewState               `json:"state"`
	Username        string                  `json:"username"`
	LastUpdated     string                  `json:"last_updated,omitempty"`
	IsAdmin         bool                    `json:"is_admin"`
	Loading         bool                    `json:"loading"`
	Error           string                  `json:"error,omitempty"`
	Banner          string                  `json:"banner,omitempty"`
	Total           int                     `json:"total"`
	Rows            []Row                   `json:"rows"`
	FeedbackOptions *models.FeedbackOptions `json:"feedback_options,omitempty"`
}

// ViewModel owns the fetched recommendation batch and the local projection
// over it. All state changes happen under mu; network calls run outside it.
//
// Fetches are scoped by view mode and drill-down. Filter and sort changes
// only reshape the batch already held. A scope change (SelectView,
// SelectRow, BackToSeasons, BackToShows, Refresh) runs:
//
//  1. Apply the change to ViewState under mu and bump seq
//  2. Release mu and request the batch for the new scope
//  3. Re-take mu and drop the result if seq moved on or Close was called
//  4. Otherwise replace the batch, merge feedback_keys with pending writes
//     and clear or record the fetch error
//
// Visible() recomputes the projection on demand:
//
//  1. Keep rows matching every active filter (search, minimum score,
//     category, theme)
//  2. Sort a copy stably by the sort keys, with locale-aware collation for
//     text columns
//  3. Attach each row's feedback record
//
// Feedback writes follow their own optimistic state machine; see
// SubmitFeedback. After Close no method changes state.
type ViewModel struct {
	src           Source
	logger        zerolog.Logger
	locale        language.Tag
	requireReason bool

	mu     sync.Mutex
	closed bool
	seq    uint64 // bumped on every fetch; only the latest fetch applies

	state           ViewState
	items           []Item
	username        string
	lastUpdated     string
	feedbackOptions *models.FeedbackOptions
	isAdmin         bool
	loading         bool
	fetchErr        error

	submitted map[int]struct{}
	pending   map[int]struct{}
	keyErrs   map[int]string
	banner    string
}

// New creates a view model. Nothing is fetched until Mount or Refresh.
func New(src Source, opts Options) (*ViewModel, error) {
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", opts.Locale, err)
	}

	mode := ViewAll
	if opts.DefaultView != "" {
		if mode, err = ParseViewMode(string(opts.DefaultView)); err != nil {
			return nil, err
		}
	}

	return &ViewModel{
		src:           src,
		logger:        logging.WithComponent("recommend"),
		locale:        tag,
		requireReason: opts.RequireReason,
		state:         ViewState{Mode: mode},
		submitted:     make(map[int]struct{}),
		pending:       make(map[int]struct{}),
		keyErrs:       make(map[int]string),
	}, nil
}

// Mount loads the batch and the admin capability concurrently. A failed
// capability lookup leaves IsAdmin false and is not reported.
func (vm *ViewModel) Mount(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return vm.Refresh(ctx)
	})
	g.Go(func() error {
		vm.loadCapabilities(ctx)
		return nil
	})
	return g.Wait()
}

func (vm *ViewModel) loadCapabilities(ctx context.Context) {
	me, err := vm.src.WhoAmI(context.WithoutCancel(ctx))

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	if err != nil {
		vm.logger.Debug().Err(err).Msg("Capability lookup failed, assuming non-admin")
		vm.isAdmin = false
		return
	}
	vm.isAdmin = me.IsAdmin
}

// Refresh refetches the current scope.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	return vm.rescope(ctx, func(*ViewState) bool { return true })
}

// rescope applies change under the lock and, if it reports a change, fetches
// the new scope. Any fetch still in flight is superseded.
func (vm *ViewModel) rescope(ctx context.Context, change func(*ViewState) bool) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}
	if !change(&vm.state) {
		vm.mu.Unlock()
		return nil
	}
	vm.seq++
	seq := vm.seq
	q := vm.state.query()
	vm.loading = true
	vm.mu.Unlock()

	return vm.fetch(ctx, seq, q)
}

func (vm *ViewModel) fetch(ctx context.Context, seq uint64, q backend.Query) error {
	batch, err := vm.src.ListRecommendations(context.WithoutCancel(ctx), q)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		return ErrClosed
	}
	if seq != vm.seq {
		metrics.RecordFetch(q.View, "stale", 0)
		vm.logger.Debug().Str("view", q.View).Msg("Discarding superseded recommendation fetch")
		return nil
	}
	vm.loading = false

	if err != nil {
		vm.items = nil
		vm.fetchErr = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		metrics.RecordFetch(q.View, "failed", 0)
		vm.logger.Warn().Err(err).Str("view", q.View).Msg("Failed to load recommendations")
		return vm.fetchErr
	}

	vm.items = batch.Recommendations
	vm.username = batch.Username
	vm.lastUpdated = ""
	if batch.LastUpdated != nil {
		vm.lastUpdated = *batch.LastUpdated
	}
	vm.feedbackOptions = batch.FeedbackOptions
	vm.fetchErr = nil

	// The server's record replaces ours, but writes still in flight stay marked.
	if batch.FeedbackKeys != nil {
		submitted := make(map[int]struct{}, len(batch.FeedbackKeys)+len(vm.pending))
		for _, key := range batch.FeedbackKeys {
			submitted[key] = struct{}{}
		}
		for key := range vm.pending {
			submitted[key] = struct{}{}
		}
		vm.submitted = submitted
	}

	metrics.RecordFetch(q.View, "applied", len(vm.items))
	vm.logger.Debug().
		Str("view", q.View).
		Int("rows", len(vm.items)).
		Str("username", vm.username).
		Msg("Recommendations loaded")
	return nil
}

// SetSearch sets the free-text filter.
func (vm *ViewModel) SetSearch(text string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.closed {
		vm.state.Filters.SearchText = text
	}
}

// SetMinScore sets the minimum score filter, clamped to 0..100.
func (vm *ViewModel) SetMinScore(percent int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.closed {
		vm.state.Filters.MinScorePercent = clampPercent(percent)
	}
}

// SetCategory restricts rows to one media type. Empty clears the filter.
func (vm *ViewModel) SetCategory(category models.MediaType) error {
	switch category {
	case "", models.MediaTypeMovie, models.MediaTypeShow, models.MediaTypeSeason, models.MediaTypeEpisode:
	default:
		return fmt.Errorf("unknown category %q", category)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.closed {
		vm.state.Filters.Category = category
	}
	return nil
}

// ToggleTheme filters by a theme tag, or clears the filter if that tag is
// already active.
func (vm *ViewModel) ToggleTheme(tag string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	if vm.state.Filters.ThemeTag == tag {
		vm.state.Filters.ThemeTag = ""
		return
	}
	vm.state.Filters.ThemeTag = tag
}

// SetSortSpec replaces the sort spec.
func (vm *ViewModel) SetSortSpec(spec []SortKey) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.closed {
		vm.state.Sort = slices.Clone(spec)
	}
}

// ClickSort applies a column header click. See ApplyClick.
func (vm *ViewModel) ClickSort(col Column, modifier bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.closed {
		vm.state.Sort = ApplyClick(vm.state.Sort, col, modifier)
	}
}

// Visible returns the filtered and sorted rows.
func (vm *ViewModel) Visible() []Row {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.visibleLocked()
}

func (vm *ViewModel) visibleLocked() []Row {
	matched := make([]Item, 0, len(vm.items))
	for i := range vm.items {
		if vm.state.Filters.Match(&vm.items[i]) {
			matched = append(matched, vm.items[i])
		}
	}

	sorted := Sort(matched, vm.state.Sort, vm.locale)
	rows := make([]Row, len(sorted))
	for i := range sorted {
		rows[i] = Row{Item: sorted[i], Feedback: vm.recordLocked(sorted[i].RatingKey)}
	}
	return rows
}

// State returns a copy of the view state.
func (vm *ViewModel) State() ViewState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	s := vm.state
	s.Sort = slices.Clone(vm.state.Sort)
	return s
}

// Username is the user named by the last applied batch.
func (vm *ViewModel) Username() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.username
}

// IsAdmin reports the capability loaded by Mount.
func (vm *ViewModel) IsAdmin() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.isAdmin
}

// Err returns the last fetch failure, or nil if the current batch loaded.
func (vm *ViewModel) Err() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.fetchErr
}

// FeedbackOptions returns the reason codes offered by the last batch.
func (vm *ViewModel) FeedbackOptions() *models.FeedbackOptions {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.feedbackOptions
}

// Snapshot copies the full render state.
func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	s := Snapshot{
		State:           vm.state,
		Username:        vm.username,
		LastUpdated:     vm.lastUpdated,
		IsAdmin:         vm.isAdmin,
		Loading:         vm.loading,
		Banner:          vm.banner,
		Total:           len(vm.items),
		Rows:            vm.visibleLocked(),
		FeedbackOptions: vm.feedbackOptions,
	}
	s.State.Sort = slices.Clone(vm.state.Sort)
	if vm.fetchErr != nil {
		s.Error = vm.fetchErr.Error()
	}
	return s
}

// Close tears the view model down. Responses arriving afterwards are dropped.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.closed = true
}

func (vm *ViewModel) findLocked(key int) *Item {
	for i := range vm.items {
		if vm.items[i].RatingKey == key {
			return &vm.items[i]
		}
	}
	return nil
}

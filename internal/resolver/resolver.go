// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolver selects which providers answer a motif lookup and how
// their results combine. It owns the live source configuration, consults
// the cache for remote providers, absorbs per-source failures into "this
// source contributes nothing", and produces a single canonical result.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/reymondkenney20/rmv-2/internal/cache"
	"github.com/reymondkenney20/rmv-2/internal/provider"
	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// Mode selects which sources a resolution call queries.
type Mode string

const (
	// ModeAuto tries sources in priority order, local before remote, and
	// returns the first non-empty result.
	ModeAuto Mode = "auto"

	// ModeLocal restricts to bundled sources, optionally narrowed to one.
	ModeLocal Mode = "local"

	// ModeWeb restricts to remote API sources, optionally narrowed to one.
	ModeWeb Mode = "web"

	// ModeAll queries every source and unions the results, preserving
	// per-instance attribution. No deduplication across sources.
	ModeAll Mode = "all"

	// ModeUser reads only the active user annotation tool, bypassing the
	// cache entirely.
	ModeUser Mode = "user"
)

// ParseMode validates a mode string against the closed set.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeLocal, ModeWeb, ModeAll, ModeUser:
		return m, nil
	default:
		return "", fmt.Errorf("%q: %w", s, types.ErrInvalidMode)
	}
}

// ModeNames lists the valid mode strings in documentation order.
func ModeNames() []string {
	return []string{
		string(ModeAuto), string(ModeLocal), string(ModeWeb),
		string(ModeAll), string(ModeUser),
	}
}

// SourceConfig is the process-scoped selection state. One SourceConfig is
// live per resolver; resolution calls snapshot it at their start, so a
// concurrent configuration change never bleeds into an in-flight call.
type SourceConfig struct {
	Mode     Mode
	Narrow   string // provider ID, only for ModeLocal/ModeWeb
	UserTool string // set once a user tool is selected
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets a logger for source diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithCallTimeout bounds each provider call made during a fan-out.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.callTimeout = d }
}

// Resolver owns the source configuration and the merge/fallback policy.
type Resolver struct {
	providers []provider.Provider // fixed priority order, local before remote
	byID      map[string]provider.Provider
	cache     *cache.Manager
	userDir   string

	callTimeout time.Duration
	logger      *zap.Logger

	mu         sync.Mutex
	cfg        SourceConfig
	user       *provider.User
	lastSource string
}

// New builds a resolver over providers in priority order (local sources
// first). cacheMgr may be nil to disable caching; userDir is where user
// annotation files live, one subdirectory per tool.
func New(providers []provider.Provider, cacheMgr *cache.Manager, userDir string, opts ...Option) *Resolver {
	r := &Resolver{
		providers:   providers,
		byID:        make(map[string]provider.Provider, len(providers)),
		cache:       cacheMgr,
		userDir:     userDir,
		callTimeout: 30 * time.Second,
		logger:      zap.NewNop(),
		cfg:         SourceConfig{Mode: ModeAuto},
	}
	for _, p := range providers {
		r.byID[p.Info().ID] = p
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetMode validates and activates a source mode. Narrowing names one
// provider and is only meaningful for local and web modes; user mode
// requires that a tool has been selected first. Validation happens before
// any state changes.
func (r *Resolver) SetMode(mode, narrow string) error {
	m, err := ParseMode(mode)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch m {
	case ModeLocal, ModeWeb:
		if narrow != "" {
			p, ok := r.byID[narrow]
			if !ok {
				return fmt.Errorf("unknown source %q: %w", narrow, types.ErrInvalidMode)
			}
			want := provider.KindLocal
			if m == ModeWeb {
				want = provider.KindAPI
			}
			if p.Info().Kind != want {
				return fmt.Errorf("source %q is not a %s source: %w", narrow, m, types.ErrInvalidMode)
			}
		}
	case ModeUser:
		if narrow != "" {
			return fmt.Errorf("user mode takes a tool, not a source narrowing: %w", types.ErrInvalidMode)
		}
		if r.user == nil {
			return fmt.Errorf("user mode requires a selected tool: %w", types.ErrInvalidMode)
		}
	default:
		if narrow != "" {
			return fmt.Errorf("mode %s does not accept narrowing: %w", m, types.ErrInvalidMode)
		}
	}

	r.cfg.Mode = m
	r.cfg.Narrow = narrow
	return nil
}

// SelectUserTool validates and activates an annotation tool. An invalid
// name fails immediately and leaves the configuration untouched.
func (r *Resolver) SelectUserTool(tool string) error {
	u, err := provider.NewUser(r.userDir, tool, r.logger)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = u
	r.cfg.UserTool = u.Tool()
	return nil
}

// Config returns the current source configuration.
func (r *Resolver) Config() SourceConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// LastSource returns the provider(s) that produced the most recent
// resolution, for status display. Empty when nothing was found.
func (r *Resolver) LastSource() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSource
}

// Sources describes every registered provider, plus the user provider when
// a tool is active.
func (r *Resolver) Sources() []provider.Info {
	infos := make([]provider.Info, 0, len(r.providers)+1)
	for _, p := range r.providers {
		infos = append(infos, p.Info())
	}
	r.mu.Lock()
	u := r.user
	r.mu.Unlock()
	if u != nil {
		infos = append(infos, u.Info())
	}
	return infos
}

// ListUserFiles enumerates the structures that have an annotation file for
// the active tool. Discovery only.
func (r *Resolver) ListUserFiles() ([]string, error) {
	r.mu.Lock()
	u := r.user
	r.mu.Unlock()
	if u == nil {
		return nil, fmt.Errorf("no annotation tool selected: %w", types.ErrUnsupportedTool)
	}
	return u.AvailablePDBIDs()
}

// CheckAvailability reports which enumerable (local) sources hold data for
// a structure. Remote sources are omitted; answering for them would cost a
// network round trip.
func (r *Resolver) CheckAvailability(pdbID string) map[string]bool {
	pdbID = types.NormalizePDBID(pdbID)
	out := make(map[string]bool)
	for _, p := range r.providers {
		e, ok := p.(provider.Enumerable)
		if !ok {
			continue
		}
		ids, err := e.AvailablePDBIDs()
		if err != nil {
			out[p.Info().ID] = false
			continue
		}
		found := false
		for _, id := range ids {
			if types.NormalizePDBID(id) == pdbID {
				found = true
				break
			}
		}
		out[p.Info().ID] = found
	}
	return out
}

// Resolve returns the motifs for a structure under the current
// configuration. An empty result is a legitimate outcome, not an error;
// only configuration mistakes surface as errors.
func (r *Resolver) Resolve(ctx context.Context, pdbID string) (types.AnnotationResult, error) {
	return r.resolve(ctx, pdbID, false)
}

// ForceRefresh resolves while bypassing cache reads for the current
// provider(s); fresh remote responses overwrite the cached entries.
func (r *Resolver) ForceRefresh(ctx context.Context, pdbID string) (types.AnnotationResult, error) {
	return r.resolve(ctx, pdbID, true)
}

// snapshot captures the configuration once at the start of a resolution
// call, so a concurrent SetMode or SelectUserTool cannot produce a
// half-updated view mid-call.
type snapshot struct {
	cfg  SourceConfig
	user *provider.User
}

func (r *Resolver) snapshot() snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot{cfg: r.cfg, user: r.user}
}

func (r *Resolver) setLastSource(s string) {
	r.mu.Lock()
	r.lastSource = s
	r.mu.Unlock()
}

func (r *Resolver) resolve(ctx context.Context, pdbID string, skipCache bool) (types.AnnotationResult, error) {
	pdbID = types.NormalizePDBID(pdbID)
	snap := r.snapshot()

	if snap.cfg.Mode == ModeUser {
		return r.resolveUser(ctx, pdbID, snap)
	}

	candidates := r.candidates(snap)
	if snap.cfg.Mode == ModeAll {
		return r.resolveUnion(ctx, pdbID, candidates, skipCache), nil
	}
	return r.resolveFallback(ctx, pdbID, candidates, skipCache), nil
}

// candidates returns the providers a mode queries, in priority order.
func (r *Resolver) candidates(snap snapshot) []provider.Provider {
	switch snap.cfg.Mode {
	case ModeLocal, ModeWeb:
		want := provider.KindLocal
		if snap.cfg.Mode == ModeWeb {
			want = provider.KindAPI
		}
		if snap.cfg.Narrow != "" {
			if p, ok := r.byID[snap.cfg.Narrow]; ok {
				return []provider.Provider{p}
			}
			return nil
		}
		var out []provider.Provider
		for _, p := range r.providers {
			if p.Info().Kind == want {
				out = append(out, p)
			}
		}
		return out
	default: // ModeAuto, ModeAll
		return r.providers
	}
}

// resolveUser delegates solely to the active annotation tool, ignoring
// every other source and the cache.
func (r *Resolver) resolveUser(ctx context.Context, pdbID string, snap snapshot) (types.AnnotationResult, error) {
	if snap.user == nil {
		return types.AnnotationResult{}, fmt.Errorf("user mode with no tool selected: %w", types.ErrUnsupportedTool)
	}

	res, err := snap.user.Motifs(ctx, pdbID)
	if err != nil {
		r.absorb(err, provider.UserID, pdbID)
		r.setLastSource("")
		return emptyResult(provider.UserID), nil
	}
	r.setLastSource(provider.UserID)
	return res, nil
}

// resolveFallback queries candidates sequentially and short-circuits on the
// first non-empty result. Failures and empty results both mean "try the
// next source"; if every source comes up empty the final result is an
// empty mapping, not an error.
func (r *Resolver) resolveFallback(ctx context.Context, pdbID string, candidates []provider.Provider, skipCache bool) types.AnnotationResult {
	for _, p := range candidates {
		id := p.Info().ID
		res, err := r.fetch(ctx, p, pdbID, skipCache)
		if err != nil {
			r.absorb(err, id, pdbID)
			continue
		}
		if !res.IsEmpty() {
			r.setLastSource(id)
			return res
		}
		r.logger.Debug("source has no data", zap.String("source", id), zap.String("pdb_id", pdbID))
	}
	r.setLastSource("")
	return emptyResult("")
}

// resolveUnion queries every candidate concurrently and unions the results
// by motif type, concatenating instance lists. Attribution is preserved on
// each instance; nothing is deduplicated. Joining iterates candidates in
// their fixed order, so identical provider outputs always merge
// identically regardless of completion order.
func (r *Resolver) resolveUnion(ctx context.Context, pdbID string, candidates []provider.Provider, skipCache bool) types.AnnotationResult {
	results := make([]types.AnnotationResult, len(candidates))
	errs := make([]error, len(candidates))

	var wg sync.WaitGroup
	for i, p := range candidates {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
			defer cancel()
			results[i], errs[i] = r.fetch(callCtx, p, pdbID, skipCache)
		}(i, p)
	}
	wg.Wait()

	merged := make(map[string][]types.MotifInstance)
	var used []string
	for i, p := range candidates {
		id := p.Info().ID
		if errs[i] != nil {
			r.absorb(errs[i], id, pdbID)
			continue
		}
		if results[i].IsEmpty() {
			continue
		}
		used = append(used, id)
		for _, mt := range results[i].MotifTypes() {
			merged[mt] = append(merged[mt], results[i].Motifs[mt]...)
		}
	}

	r.setLastSource(strings.Join(used, ","))
	return types.AnnotationResult{
		Motifs:     merged,
		ProviderID: strings.Join(used, ","),
		FetchedAt:  time.Now(),
	}
}

// fetch runs one provider call, going through the cache for remote
// providers. Only non-empty successful responses are cached; a refresh
// overwrites the entry for exactly this provider and structure.
func (r *Resolver) fetch(ctx context.Context, p provider.Provider, pdbID string, skipCache bool) (types.AnnotationResult, error) {
	info := p.Info()
	if info.Kind != provider.KindAPI || r.cache == nil {
		return p.Motifs(ctx, pdbID)
	}

	key := cache.Key(info.ID, pdbID)
	if !skipCache {
		if res, ok := r.cache.Get(key); ok {
			r.logger.Debug("cache hit", zap.String("source", info.ID), zap.String("pdb_id", pdbID))
			return res, nil
		}
	}

	res, err := p.Motifs(ctx, pdbID)
	if err != nil {
		return types.AnnotationResult{}, err
	}
	if !res.IsEmpty() {
		if err := r.cache.Put(key, res); err != nil {
			r.logger.Warn("caching response failed",
				zap.String("source", info.ID), zap.String("pdb_id", pdbID), zap.Error(err))
		}
	}
	return res, nil
}

// absorb folds a provider failure into "contributes nothing", keeping the
// failure classes distinguishable in the log: no data is routine, an
// unreachable or malformed source is worth a warning.
func (r *Resolver) absorb(err error, sourceID, pdbID string) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		r.logger.Debug("source has no data",
			zap.String("source", sourceID), zap.String("pdb_id", pdbID))
	case errors.Is(err, types.ErrMalformedData):
		r.logger.Warn("source returned malformed data",
			zap.String("source", sourceID), zap.String("pdb_id", pdbID), zap.Error(err))
	default:
		r.logger.Warn("source unavailable",
			zap.String("source", sourceID), zap.String("pdb_id", pdbID), zap.Error(err))
	}
}

func emptyResult(providerID string) types.AnnotationResult {
	return types.AnnotationResult{
		Motifs:     map[string][]types.MotifInstance{},
		ProviderID: providerID,
		FetchedAt:  time.Now(),
	}
}

// Package runtime composes the loader, query engine, state trackers, and
// command executor across multiple named skills. Documents are immutable
// once loaded; query results are memoized per (skill, path, filters).
// A Runtime is single-threaded; callers needing concurrency must add
// their own locking.
package runtime

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ifoster01/uasp/pkg/executor"
	"github.com/ifoster01/uasp/pkg/loader"
	"github.com/ifoster01/uasp/pkg/logger"
	"github.com/ifoster01/uasp/pkg/query"
	"github.com/ifoster01/uasp/pkg/state"
)

// SkillNotFoundError reports an operation against a skill name that is
// not currently loaded.
type SkillNotFoundError struct {
	Name string
}

func (e *SkillNotFoundError) Error() string {
	return fmt.Sprintf("skill %q is not loaded", e.Name)
}

// Runtime manages loaded skills and routes queries and executions.
type Runtime struct {
	docs     map[string]*loader.Document
	trackers map[string]*state.Tracker
	cache    map[string]query.Result
	loader   *loader.Loader
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithStrictVersion makes loading fail on fingerprint mismatch.
func WithStrictVersion() Option {
	return func(r *Runtime) {
		r.loader = loader.New(loader.WithStrictVersion())
	}
}

// New creates an empty runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		docs:     map[string]*loader.Document{},
		trackers: map[string]*state.Tracker{},
		cache:    map[string]query.Result{},
		loader:   loader.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadSkill loads a skill file and registers it under its meta.name.
// Reloading a name replaces the document and resets its state tracker.
func (r *Runtime) LoadSkill(ctx context.Context, path string) (string, error) {
	doc, err := r.loader.Load(ctx, path)
	if err != nil {
		return "", err
	}
	return r.register(ctx, doc), nil
}

// LoadSkillString loads a skill from YAML text and registers it.
func (r *Runtime) LoadSkillString(ctx context.Context, content string) (string, error) {
	doc, err := r.loader.LoadString(ctx, content, "<string>")
	if err != nil {
		return "", err
	}
	return r.register(ctx, doc), nil
}

func (r *Runtime) register(ctx context.Context, doc *loader.Document) string {
	name := doc.Name()
	r.docs[name] = doc
	r.trackers[name] = state.NewTracker(doc.Skill)
	logger.G(ctx).WithFields(map[string]interface{}{
		"skill":   name,
		"version": doc.Skill.Meta.Version,
	}).Info("loaded skill")
	return name
}

// UnloadSkill removes a skill and evicts its cached query results.
func (r *Runtime) UnloadSkill(name string) bool {
	if _, ok := r.docs[name]; !ok {
		return false
	}
	delete(r.docs, name)
	delete(r.trackers, name)
	for key := range r.cache {
		if strings.HasPrefix(key, name+":") {
			delete(r.cache, key)
		}
	}
	return true
}

// Skill returns the loaded document for a name.
func (r *Runtime) Skill(name string) (*loader.Document, error) {
	doc, ok := r.docs[name]
	if !ok {
		return nil, &SkillNotFoundError{Name: name}
	}
	return doc, nil
}

// Query resolves a path against a loaded skill. Results are memoized
// unless useCache is false. The cache is never invalidated by state
// changes; documents are immutable once loaded.
func (r *Runtime) Query(name, path string, filters map[string]string, useCache bool) (query.Result, error) {
	doc, ok := r.docs[name]
	if !ok {
		return query.Result{}, &SkillNotFoundError{Name: name}
	}

	key := query.CacheKey(name, path, filters)
	if useCache {
		if cached, hit := r.cache[key]; hit {
			logger.L.WithField("key", key).Debug("query cache hit")
			return cached, nil
		}
	}

	result := query.Query(doc.Value, path, filters, name)
	if useCache {
		r.cache[key] = result
	}
	return result, nil
}

// QueryString resolves a full "skill:path?filters" query string.
func (r *Runtime) QueryString(raw string, useCache bool) (query.Result, error) {
	name, path, filters, err := query.ParseQueryString(raw)
	if err != nil {
		return query.Result{}, err
	}
	return r.Query(name, path, filters, useCache)
}

// Execute runs a command from a loaded skill against its state tracker.
func (r *Runtime) Execute(ctx context.Context, name, command string, args map[string]any, dryRun bool, timeout time.Duration) (executor.Result, error) {
	doc, ok := r.docs[name]
	if !ok {
		return executor.Result{}, &SkillNotFoundError{Name: name}
	}
	exec := executor.New(doc.Skill, r.trackers[name])
	return exec.Execute(ctx, command, args, dryRun, timeout)
}

// State returns the state tracker owned by a loaded skill.
func (r *Runtime) State(name string) (*state.Tracker, error) {
	tracker, ok := r.trackers[name]
	if !ok {
		return nil, &SkillNotFoundError{Name: name}
	}
	return tracker, nil
}

// ListSkills returns the loaded skill names in sorted order.
func (r *Runtime) ListSkills() []string {
	names := make([]string, 0, len(r.docs))
	for name := range r.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearCache drops every memoized query result.
func (r *Runtime) ClearCache() {
	r.cache = map[string]query.Result{}
	logger.L.Debug("query cache cleared")
}

// ResetState invalidates every entity for one skill, or for all loaded
// skills when name is empty.
func (r *Runtime) ResetState(name string) {
	if name != "" {
		if tracker, ok := r.trackers[name]; ok {
			tracker.Reset()
		}
		return
	}
	for _, tracker := range r.trackers {
		tracker.Reset()
	}
}

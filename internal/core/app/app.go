package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"junitmig/internal/core/config"
	"junitmig/internal/core/errors"
	"junitmig/internal/core/ports"
	"junitmig/internal/core/watcher"
	"junitmig/internal/data/state"
	"junitmig/internal/engine/parser"
	"junitmig/internal/engine/resolver"
	"junitmig/internal/engine/rewrite"
	"junitmig/internal/engine/rules"
)

// App wires the parser, resolver and rule driver to the file system. The
// engine is rebuilt on config reload and swapped atomically between runs.
type App struct {
	logger *slog.Logger
	store  ports.StateStore

	mu     sync.RWMutex
	config *config.Config
	engine *engine

	watchMu sync.Mutex
	watcher *watcher.Watcher
}

var _ ports.MigrationService = (*App)(nil)

// engine is everything derived from one configuration.
type engine struct {
	parser   *parser.Parser
	resolver *resolver.Resolver
	driver   *rewrite.Driver
	filter   *watcher.Filter
	rules    []rewrite.Rule
	ruleset  string
	workers  int
}

type Option func(*App)

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithStateStore enables skipping files already processed with the same ruleset.
func WithStateStore(store ports.StateStore) Option {
	return func(a *App) { a.store = store }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}
	a := &App{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}

	eng, err := a.buildEngine(cfg)
	if err != nil {
		return nil, err
	}
	a.config = cfg
	a.engine = eng
	return a, nil
}

func (a *App) buildEngine(cfg *config.Config) (*engine, error) {
	loader, err := parser.NewGrammarLoader(cfg.Scan.Extensions)
	if err != nil {
		return nil, err
	}
	p, err := parser.NewParser(loader)
	if err != nil {
		return nil, err
	}

	catalog := resolver.DefaultCatalog()
	for _, t := range cfg.Catalog.Types {
		catalog.Register(t.Name, t.Members, t.Complete)
	}
	r := resolver.NewResolver(catalog)

	ruleSet, err := rules.Build(cfg.Rules.Enabled)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "build_rules")
	}

	filter, err := watcher.NewFilter(cfg.Scan.ExcludeDirs, cfg.Scan.ExcludeFiles, loader.SupportedExtensions())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern")
	}

	workers := cfg.Scan.Workers
	if workers <= 0 {
		workers = 1
	}

	return &engine{
		parser:   p,
		resolver: r,
		driver:   rewrite.NewDriver(p, r, ruleSet, rewrite.WithLogger(a.logger)),
		filter:   filter,
		rules:    ruleSet,
		ruleset:  rulesetFingerprint(ruleSet, catalog),
		workers:  workers,
	}, nil
}

// rulesetFingerprint changes whenever the enabled rules or the catalog do, so
// the state ledger never skips a file that a different configuration would
// rewrite.
func rulesetFingerprint(ruleSet []rewrite.Rule, catalog *resolver.Catalog) string {
	var b strings.Builder
	for _, rule := range ruleSet {
		b.WriteString(rule.Name())
		b.WriteByte(';')
	}
	for _, name := range catalog.Types() {
		members := catalog.Members(name)
		sort.Strings(members)
		fmt.Fprintf(&b, "%s=%t:%s;", name, catalog.IsComplete(name), strings.Join(members, ","))
	}
	return state.HashContent([]byte(b.String()))
}

func (a *App) current() (*config.Config, *engine) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config, a.engine
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	cfg, _ := a.current()
	return cfg
}

// UpdateConfig rebuilds the engine for cfg. On error the previous one stays active.
func (a *App) UpdateConfig(ctx context.Context, cfg *config.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg == nil {
		return errors.New(errors.CodeValidationError, "config is required")
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	eng, err := a.buildEngine(cfg)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.config = cfg
	a.engine = eng
	a.mu.Unlock()

	a.watchMu.Lock()
	if a.watcher != nil {
		a.watcher.SetDebounce(cfg.Watch.Debounce)
	}
	a.watchMu.Unlock()

	a.logger.Info("configuration reloaded", "rules", strings.Join(cfg.Rules.Enabled, ","))
	return nil
}

// Rules lists every registered rule and whether the active config enables it.
func (a *App) Rules() []ports.RuleInfo {
	_, eng := a.current()
	enabled := make(map[string]bool, len(eng.rules))
	for _, rule := range eng.rules {
		enabled[rule.Name()] = true
	}

	names := rules.Names()
	out := make([]ports.RuleInfo, 0, len(names))
	for _, name := range names {
		rule, err := rules.New(name)
		if err != nil {
			continue
		}
		out = append(out, ports.RuleInfo{
			ID:          name,
			Description: rule.Description(),
			Enabled:     enabled[name],
		})
	}
	return out
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *App) setWatcher(w *watcher.Watcher) {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	a.watcher = w
}

// remember tells an active watcher about content the tool itself wrote.
func (a *App) remember(path string, content []byte) {
	a.watchMu.Lock()
	w := a.watcher
	a.watchMu.Unlock()
	if w == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	w.Remember(path, content)
}

// uniqueScanRoots cleans paths and drops duplicates, keeping the given order.
func uniqueScanRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		normalized := filepath.Clean(p)
		key := normalized
		if abs, err := filepath.Abs(normalized); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		roots = append(roots, normalized)
	}
	return roots
}

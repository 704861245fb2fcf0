// Package pipeline runs the scan, classify, resolve and compose stages over
// a set of files. It is the one routine every front end shares.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/vmunix/plexrename/internal/classify"
	"github.com/vmunix/plexrename/internal/media"
	"github.com/vmunix/plexrename/internal/naming"
	"github.com/vmunix/plexrename/internal/profile"
	"github.com/vmunix/plexrename/pkg/release"
	"golang.org/x/sync/errgroup"
)

// Resolver is the metadata lookup the pipeline needs.
type Resolver interface {
	ResolveMovie(ctx context.Context, d media.Descriptor) media.Result
	ResolveTV(ctx context.Context, d media.Descriptor) (media.Result, *media.Result)
}

// Item is the pipeline output for one file. Error is set when no usable
// target could be composed; such items must not be executed.
type Item struct {
	Plan  media.RenamePlan `json:"plan"`
	Error string           `json:"error,omitempty"`
}

// OK reports whether the item can be executed.
func (i Item) OK() bool { return i.Error == "" }

// Pipeline turns paths into rename plans.
type Pipeline struct {
	resolver Resolver
	composer *naming.Composer
	workers  int
	log      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds concurrent lookups. Values < 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a pipeline.
func New(resolver Resolver, composer *naming.Composer, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver: resolver,
		composer: composer,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	p.log = p.log.With("component", "pipeline")
	return p
}

// Plan classifies, resolves and composes every path. Items come back in
// input order. The only error is context cancellation; per-file problems
// are carried in the items.
func (p *Pipeline) Plan(ctx context.Context, paths []string, hint media.Hint) ([]Item, error) {
	start := time.Now()
	items := make([]Item, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = p.planOne(ctx, path, hint)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	markCollisions(items)
	p.log.Info("planned", "files", len(paths), "duration_ms", time.Since(start).Milliseconds())
	return items, nil
}

func (p *Pipeline) planOne(ctx context.Context, path string, hint media.Hint) Item {
	d := classify.Classify(path, hint)

	var plan media.RenamePlan
	switch d.Kind {
	case media.KindTV:
		show, episode := p.resolver.ResolveTV(ctx, d)
		plan = p.composer.PlanEpisode(d, &show, episode)
	default:
		movie := p.resolver.ResolveMovie(ctx, d)
		plan = p.composer.PlanMovie(d, &movie)
	}

	p.log.Debug("planned file", "path", path, "kind", d.Kind, "target", plan.Target)

	item := Item{Plan: plan}
	if stem(plan.Target) == "" {
		item.Error = fmt.Sprintf("no usable title in %q", d.Filename)
	}
	return item
}

// stem is the target's file name without its extension.
func stem(target string) string {
	base := filepath.Base(target)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// markCollisions flags every item whose target repeats an earlier one.
func markCollisions(items []Item) {
	seen := make(map[string]string, len(items))
	for i := range items {
		if !items[i].OK() {
			continue
		}
		target := items[i].Plan.Target
		if first, ok := seen[target]; ok {
			items[i].Error = fmt.Sprintf("target already claimed by %s", first)
			continue
		}
		seen[target] = items[i].Plan.Source
	}
}

// Plans returns the executable plans of items.
func Plans(items []Item) []media.RenamePlan {
	out := make([]media.RenamePlan, 0, len(items))
	for _, it := range items {
		if it.OK() {
			out = append(out, it.Plan)
		}
	}
	return out
}

// samplePattern matches "sample" as a whole word, as in release sample clips.
var samplePattern = regexp.MustCompile(`(?i)(^|[^a-z0-9])sample([^a-z0-9]|$)`)

// Scan lists video files under root in lexical order. Ignored directories,
// Sample directories and sample clips are skipped. A file root is returned
// as is.
func Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		if !release.IsVideoFile(root) {
			return nil, fmt.Errorf("scan %s: not a video file", root)
		}
		return []string{root}, nil
	}

	var videos []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable subtrees are skipped.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && (profile.IsIgnoredDir(d.Name()) || strings.EqualFold(d.Name(), "sample")) {
				return fs.SkipDir
			}
			return nil
		}
		if !release.IsVideoFile(path) {
			return nil
		}
		if samplePattern.MatchString(d.Name()) {
			return nil
		}
		videos = append(videos, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return videos, nil
}

// ErrNoFiles is returned by ScanAll when nothing matched.
var ErrNoFiles = errors.New("no video files found")

// ScanAll scans each root and concatenates the results.
func ScanAll(roots []string) ([]string, error) {
	var all []string
	for _, r := range roots {
		files, err := Scan(r)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}
	if len(all) == 0 {
		return nil, ErrNoFiles
	}
	return all, nil
}

package treesync

import (
	"context"
	"fmt"

	"github.com/gammazero/toposort"
	"github.com/rs/zerolog"
)

// Pass names used by Sync.
const (
	PassMirror = "mirror"
	PassPrune  = "prune"
)

// Pass is one step of a run.
type Pass struct {
	Name      string
	DependsOn []string
	Run       func(ctx context.Context) error
}

// Pipeline runs passes in dependency order.
type Pipeline struct {
	passes []Pass
	index  map[string]int
	logger zerolog.Logger
}

// NewPipeline creates an empty pipeline.
func NewPipeline(logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		index:  make(map[string]int),
		logger: logger,
	}
}

// Add appends a pass. Names must be unique.
func (p *Pipeline) Add(pass Pass) error {
	if pass.Name == "" {
		return &PipelineError{Pass: "<unnamed>", Reason: "pass needs a name"}
	}
	if _, exists := p.index[pass.Name]; exists {
		return &PipelineError{Pass: pass.Name, Reason: "duplicate pass"}
	}
	p.index[pass.Name] = len(p.passes)
	p.passes = append(p.passes, pass)
	return nil
}

// Resolve returns the passes ordered so that every pass comes after its
// dependencies. Passes outside the dependency graph keep insertion order
// and come last.
func (p *Pipeline) Resolve() ([]Pass, error) {
	edges := make([]toposort.Edge, 0)
	for _, pass := range p.passes {
		for _, dep := range pass.DependsOn {
			if _, ok := p.index[dep]; !ok {
				return nil, &PipelineError{Pass: pass.Name, Reason: "unknown dependency " + dep}
			}
			// Edge is [2]interface{} where element 0 comes before element 1
			edges = append(edges, toposort.Edge{dep, pass.Name})
		}
	}

	p.logger.Debug().
		Int("passes", len(p.passes)).
		Int("dependency_edges", len(edges)).
		Msg("resolving pass order")

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, &PipelineError{Pass: "pipeline", Reason: "circular dependency detected", Cause: err}
	}

	resolved := make([]Pass, 0, len(p.passes))
	added := make(map[string]bool, len(p.passes))
	for _, item := range sorted {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected type in topological sort result: %T", item)
		}
		resolved = append(resolved, p.passes[p.index[name]])
		added[name] = true
	}
	for _, pass := range p.passes {
		if !added[pass.Name] {
			resolved = append(resolved, pass)
		}
	}
	return resolved, nil
}

// Run resolves and runs the passes, stopping at the first failing pass.
// The context is checked before each pass; a running pass is not
// interrupted.
func (p *Pipeline) Run(ctx context.Context) error {
	passes, err := p.Resolve()
	if err != nil {
		return err
	}
	for _, pass := range passes {
		if err := ctx.Err(); err != nil {
			return &PipelineError{Pass: pass.Name, Reason: "not started", Cause: err}
		}
		p.logger.Info().Str("pass", pass.Name).Msg("running pass")
		if err := pass.Run(ctx); err != nil {
			return &PipelineError{Pass: pass.Name, Reason: "failed", Cause: err}
		}
	}
	return nil
}

// Package pipeline runs the full batch: compile the class model into the
// configuration XML and class descriptors, diff the old and new
// configurations, and replay the diff onto the old configuration.
package pipeline

import (
	"context"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/umlconf/am"
	"github.com/teranos/umlconf/compile"
	"github.com/teranos/umlconf/delta"
	"github.com/teranos/umlconf/display"
	"github.com/teranos/umlconf/errors"
	"github.com/teranos/umlconf/load"
	"github.com/teranos/umlconf/logger"
	"github.com/teranos/umlconf/model"
	"github.com/teranos/umlconf/render"
)

// Runner executes pipeline stages for one configuration.
type Runner struct {
	cfg    *am.Config
	logger *zap.SugaredLogger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(cfg *am.Config, log *zap.SugaredLogger) *Runner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Runner{cfg: cfg, logger: log.Named("pipeline")}
}

// Compiled is the output of the model stage.
type Compiled struct {
	Repository *model.Repository
	Tree       *compile.Node
	XML        *etree.Document
	Meta       []render.ClassDescriptor
}

// Delta is the output of the configuration stage.
type Delta struct {
	Changeset *delta.Changeset
	Patched   *delta.Config
}

// Result summarizes a full run.
type Result struct {
	RunID        string      `json:"run_id"`
	Root         string      `json:"root"`
	Classes      int         `json:"classes"`
	Aggregations int         `json:"aggregations"`
	TreeNodes    int         `json:"tree_nodes"`
	Changes      delta.Stats `json:"changes"`
	Outputs      []string    `json:"outputs"`
	DurationMS   int64       `json:"duration_ms"`
}

// CompileModel reads the model at path, compiles it and renders both views.
func (r *Runner) CompileModel(ctx context.Context, path string) (*Compiled, error) {
	log := r.contextLogger(ctx)

	repo, err := load.ModelFile(path, load.ModelOptions{DuplicateClasses: r.cfg.DuplicatePolicy()})
	if err != nil {
		return nil, err
	}
	log.Debugw("Model loaded",
		logger.FieldFile, path,
		logger.FieldClasses, repo.ClassCount(),
		logger.FieldAggregation, repo.AggregationCount())

	if r.cfg.Compile.StrictReferences {
		if err := repo.Validate(); err != nil {
			return nil, errors.Wrapf(err, "model %s", path)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := compile.NewCompiler(r.cfg.CompileOptions(), log).Compile(repo)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}

	opts := render.MetaOptions{}
	if r.cfg.Compile.MetaReachableOnly {
		opts.Reachable = tree
	}

	return &Compiled{
		Repository: repo,
		Tree:       tree,
		XML:        render.XML(tree),
		Meta:       render.Meta(repo, opts),
	}, nil
}

// DiffConfigs reads both configurations, diffs them and applies the diff to
// the old one.
func (r *Runner) DiffConfigs(ctx context.Context, oldPath, newPath string) (*Delta, error) {
	log := r.contextLogger(ctx)

	from, err := load.Config(oldPath)
	if err != nil {
		return nil, err
	}
	to, err := load.Config(newPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs := delta.Diff(from, to)
	stats := cs.Stats()
	log.Debugw("Configurations compared",
		logger.FieldAdditions, stats.Additions,
		logger.FieldDeletions, stats.Deletions,
		logger.FieldUpdates, stats.Updates)

	return &Delta{Changeset: cs, Patched: delta.Apply(from, cs)}, nil
}

// PatchConfig applies the changeset stored at deltaPath to the
// configuration at basePath.
func (r *Runner) PatchConfig(ctx context.Context, basePath, deltaPath string) (*delta.Config, error) {
	base, err := load.Config(basePath)
	if err != nil {
		return nil, err
	}
	cs, err := load.Changeset(deltaPath)
	if err != nil {
		return nil, err
	}

	r.contextLogger(ctx).Debugw("Applying changeset",
		logger.FieldFile, deltaPath,
		logger.FieldCount, len(cs.Additions)+len(cs.Deletions)+len(cs.Updates))
	return delta.Apply(base, cs), nil
}

// WriteCompiled writes the XML document and the class descriptors.
func (r *Runner) WriteCompiled(c *Compiled, xmlPath, metaPath string) error {
	if err := display.WriteXMLFile(xmlPath, c.XML); err != nil {
		return err
	}
	return display.WriteJSONFile(metaPath, c.Meta, r.cfg.Output.JSONIndent)
}

// WriteDelta writes the changeset and the patched configuration.
func (r *Runner) WriteDelta(d *Delta, deltaPath, patchedPath string) error {
	if err := display.WriteJSONFile(deltaPath, d.Changeset, r.cfg.Output.JSONIndent); err != nil {
		return err
	}
	return display.WriteJSONFile(patchedPath, d.Patched, r.cfg.Output.JSONIndent)
}

// Run executes the full batch with the configured paths. Nothing is written
// unless both stages succeed.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logger.WithComponent(logger.WithRunID(ctx, runID), "pipeline")
	log := r.contextLogger(ctx)

	log.Infow("Run started", logger.FieldFile, r.cfg.Input.Model)

	compiled, err := r.CompileModel(ctx, r.cfg.Input.Model)
	if err != nil {
		return nil, err
	}
	d, err := r.DiffConfigs(ctx, r.cfg.Input.OldConfig, r.cfg.Input.NewConfig)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.WriteCompiled(compiled, r.cfg.XMLPath(), r.cfg.MetaPath()); err != nil {
		return nil, err
	}
	if err := r.WriteDelta(d, r.cfg.DeltaPath(), r.cfg.PatchedPath()); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:        runID,
		Root:         compiled.Tree.Name(),
		Classes:      compiled.Repository.ClassCount(),
		Aggregations: compiled.Repository.AggregationCount(),
		TreeNodes:    compiled.Tree.Size(),
		Changes:      d.Changeset.Stats(),
		Outputs:      []string{r.cfg.XMLPath(), r.cfg.MetaPath(), r.cfg.DeltaPath(), r.cfg.PatchedPath()},
		DurationMS:   time.Since(start).Milliseconds(),
	}

	log.Infow("Run finished",
		logger.FieldRoot, result.Root,
		logger.FieldCount, result.TreeNodes,
		logger.FieldDurationMS, result.DurationMS)
	return result, nil
}

func (r *Runner) contextLogger(ctx context.Context) *zap.SugaredLogger {
	if fields := logger.FieldsFromContext(ctx); len(fields) > 0 {
		return r.logger.With(fields...)
	}
	return r.logger
}

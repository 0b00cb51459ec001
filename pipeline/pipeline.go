// Package pipeline runs the full path from an intent to exported documents:
// payload encoding, symbol generation, styling, logo placement, the contrast
// check and export.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ericlevine/qrstyle/contrast"
	"github.com/ericlevine/qrstyle/design"
	"github.com/ericlevine/qrstyle/export"
	"github.com/ericlevine/qrstyle/logo"
	"github.com/ericlevine/qrstyle/payload"
	"github.com/ericlevine/qrstyle/qrcode/encoder"
	"github.com/ericlevine/qrstyle/render"
	"github.com/ericlevine/qrstyle/scene"
)

// Pipeline holds the options shared by every run. It is safe for concurrent
// use.
type Pipeline struct {
	logger     *zap.SugaredLogger
	canvas     float64
	quietZone  int
	renderOpts []render.Option
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCanvasSize sets the scene canvas size.
func WithCanvasSize(size float64) Option {
	return func(p *Pipeline) { p.canvas = size }
}

// WithQuietZone sets the light border in modules.
func WithQuietZone(modules int) Option {
	return func(p *Pipeline) { p.quietZone = modules }
}

// WithRenderOptions adds options passed to render.Render.
func WithRenderOptions(opts ...render.Option) Option {
	return func(p *Pipeline) { p.renderOpts = append(p.renderOpts, opts...) }
}

// New returns a pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:    zap.NewNop().Sugar(),
		canvas:    render.DefaultCanvasSize,
		quietZone: encoder.DefaultQuietZone,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Job is one request.
type Job struct {
	Intent  payload.Intent
	Design  design.Config
	Outputs []export.Request
}

// Result is what a run produced.
type Result struct {
	Payload   string
	Symbol    *encoder.Symbol
	Scene     *scene.Scene
	Warnings  []contrast.Warning
	Artifacts []*export.Artifact
}

// Compose builds the styled scene for intent without exporting it.
func (p *Pipeline) Compose(intent payload.Intent, cfg design.Config) (*Result, error) {
	text, err := payload.Encode(intent)
	if err != nil {
		return nil, err
	}
	return p.ComposeText(text, cfg)
}

// ComposeText builds the styled scene for an already encoded payload.
func (p *Pipeline) ComposeText(text string, cfg design.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sym, err := encoder.Generate(text, cfg.Level, encoder.WithQuietZone(p.quietZone))
	if err != nil {
		return nil, err
	}
	p.logger.Debugw("generated symbol",
		"version", sym.Version, "level", cfg.Level, "mask", sym.Mask, "modules", sym.Dimension())

	opts := append([]render.Option{render.WithCanvasSize(p.canvas)}, p.renderOpts...)
	sc := render.Render(sym, cfg, opts...)
	if cfg.Logo != nil {
		placed, err := logo.Place(sc, *cfg.Logo, cfg.LogoPlacement, cfg.Scale())
		if err != nil {
			return nil, err
		}
		p.logger.Debugw("placed logo",
			"placement", cfg.LogoPlacement, "width", placed.Logo.Bounds.Dx(), "punched", len(placed.Logo.Punched))
		sc = placed
	}

	warnings := contrast.Check(cfg)
	for _, w := range warnings {
		p.logger.Warnw("low contrast", "pair", w.Pair, "ratio", fmt.Sprintf("%.2f", w.Ratio), "minimum", contrast.Threshold)
	}
	return &Result{Payload: text, Symbol: sym, Scene: sc, Warnings: warnings}, nil
}

// Run composes the job and exports every requested output.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Result, error) {
	res, err := p.Compose(job.Intent, job.Design)
	if err != nil {
		return nil, err
	}
	if err := p.Export(ctx, res, job.Outputs); err != nil {
		return nil, err
	}
	return res, nil
}

// Export adds the requested outputs to a composed result.
func (p *Pipeline) Export(ctx context.Context, res *Result, outputs []export.Request) error {
	if len(outputs) == 0 {
		return nil
	}
	start := time.Now()
	arts, err := export.ExportAll(ctx, res.Scene, outputs)
	if err != nil {
		p.logger.Errorw("export failed", "error", err)
		return err
	}
	for i, a := range arts {
		p.logger.Infow("exported", "format", a.Format, "size", outputs[i].Size, "bytes", len(a.Data))
	}
	p.logger.Infow("export finished", "outputs", len(arts), "elapsed", time.Since(start))
	res.Artifacts = append(res.Artifacts, arts...)
	return nil
}

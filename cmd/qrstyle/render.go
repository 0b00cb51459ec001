package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/ericlevine/qrstyle/jobfile"
	"github.com/ericlevine/qrstyle/pipeline"
	"github.com/ericlevine/qrstyle/render"
)

func (a *app) renderCmd() *ffcli.Command {
	var (
		canvas   float64
		border   float64
		parallel int
	)
	fs := a.newFlagSet("render")
	fs.Float64Var(&canvas, "canvas", render.DefaultCanvasSize, "scene canvas size")
	fs.Float64Var(&border, "border", 0.25, "border stroke width in modules; 0 disables it")
	fs.IntVar(&parallel, "parallel", 4, "jobs rendered at once")
	return &ffcli.Command{
		Name:       "render",
		ShortUsage: "qrstyle render [flags] <job.yaml> [job.yaml...]",
		ShortHelp:  "Render job files to PNG, SVG and PDF",
		FlagSet:    fs,
		Options:    envOptions,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			p := pipeline.New(
				pipeline.WithLogger(a.logger),
				pipeline.WithCanvasSize(canvas),
				pipeline.WithRenderOptions(render.WithBorderWidth(border)),
			)
			var mu sync.Mutex // guards stdout
			g, ctx := errgroup.WithContext(ctx)
			g.SetLimit(max(1, parallel))
			for _, path := range args {
				g.Go(func() error {
					written, err := a.renderJob(ctx, p, path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					mu.Lock()
					defer mu.Unlock()
					for _, w := range written {
						fmt.Fprintln(a.stdout, w)
					}
					return nil
				})
			}
			return g.Wait()
		},
	}
}

// renderJob runs one job file and returns a line per written file.
func (a *app) renderJob(ctx context.Context, p *pipeline.Pipeline, path string) ([]string, error) {
	job, err := jobfile.Load(path)
	if err != nil {
		return nil, err
	}
	res, err := p.Run(ctx, job.Job)
	if err != nil {
		return nil, err
	}
	var written []string
	for i, art := range res.Artifacts {
		dst := job.Paths[i]
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(dst, art.Data, 0o644); err != nil {
			return nil, err
		}
		written = append(written, fmt.Sprintf("%s\t%s\t%v\t%d bytes", dst, art.Format, job.Outputs[i].Size, len(art.Data)))
	}
	return written, nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/contrast"
	"github.com/ericlevine/qrstyle/design"
)

var errLowContrast = errors.New("low contrast")

func (a *app) contrastCmd() *ffcli.Command {
	var (
		fg, bg string
		strict bool
	)
	fs := a.newFlagSet("contrast")
	fs.StringVar(&fg, "fg", "", "foreground color, overriding the job's")
	fs.StringVar(&bg, "bg", "", "background color, overriding the job's")
	fs.BoolVar(&strict, "strict", false, "fail when any pair is below the threshold")
	return &ffcli.Command{
		Name:       "contrast",
		ShortUsage: "qrstyle contrast [--fg <color>] [--bg <color>] [--strict] [job.yaml]",
		ShortHelp:  "Check the contrast of a design's colors",
		FlagSet:    fs,
		Options:    envOptions,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) > 1 {
				return flag.ErrHelp
			}
			cfg := design.Default()
			if len(args) == 1 {
				f, err := readJobFile(args[0])
				if err != nil {
					return err
				}
				if cfg, err = f.Config(filepath.Dir(args[0])); err != nil {
					return err
				}
			}
			var err error
			if fg != "" {
				if cfg.Foreground, err = qrstyle.ParseColor(fg); err != nil {
					return err
				}
			}
			if bg != "" {
				if cfg.Background, err = qrstyle.ParseColor(bg); err != nil {
					return err
				}
			}

			back := cfg.Background.Over(qrstyle.White)
			fmt.Fprintf(a.stdout, "foreground/background\t%.2f:1\n", contrast.Ratio(cfg.Foreground.Over(back), back))
			fmt.Fprintf(a.stdout, "pupil/background\t%.2f:1\n", contrast.Ratio(cfg.PupilColor.Over(back), back))
			warnings := contrast.Check(cfg)
			for _, w := range warnings {
				a.logger.Warn(w.String())
			}
			if strict && len(warnings) > 0 {
				return fmt.Errorf("%w: %d pair(s) below %.1f:1", errLowContrast, len(warnings), contrast.Threshold)
			}
			return nil
		},
	}
}

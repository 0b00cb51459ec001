package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/peterbourgon/ff/v3/ffcli"
	"gopkg.in/yaml.v3"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/design"
)

func (a *app) templateCmd() *ffcli.Command {
	return &ffcli.Command{
		Name:       "template",
		ShortUsage: "qrstyle template <save|show> [flags] <file>",
		ShortHelp:  "Save a job's design for reuse, or describe a saved one",
		FlagSet:    a.newFlagSet("template"),
		Subcommands: []*ffcli.Command{
			a.templateSaveCmd(),
			a.templateShowCmd(),
		},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}
}

func (a *app) templateSaveCmd() *ffcli.Command {
	var title, out string
	fs := a.newFlagSet("template save")
	fs.StringVar(&title, "title", "", "template title (default: the job file name)")
	fs.StringVar(&out, "o", "", "output file (required)")
	return &ffcli.Command{
		Name:       "save",
		ShortUsage: "qrstyle template save -o <file> [-title <title>] <job.yaml>",
		ShortHelp:  "Save the design of a job file, including its logo",
		FlagSet:    fs,
		Options:    envOptions,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 || out == "" {
				return flag.ErrHelp
			}
			f, err := readJobFile(args[0])
			if err != nil {
				return err
			}
			cfg, err := f.Config(filepath.Dir(args[0]))
			if err != nil {
				return err
			}
			if title == "" {
				title = filepath.Base(args[0])
			}
			t := design.NewTemplate(title, cfg, time.Now())
			data, err := design.EncodeTemplate(t)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			a.logger.Infow("saved template", "id", t.ID, "path", out, "bytes", len(data))
			fmt.Fprintln(a.stdout, t.ID)
			return nil
		},
	}
}

// templateSummary is the YAML shown for a saved template.
type templateSummary struct {
	ID            string            `yaml:"id"`
	Title         string            `yaml:"title,omitempty"`
	Created       string            `yaml:"created,omitempty"`
	Level         qrstyle.Level     `yaml:"level"`
	Foreground    string            `yaml:"foreground"`
	Background    string            `yaml:"background"`
	PupilColor    string            `yaml:"pupil_color"`
	EyeColors     []string          `yaml:"eye_colors,omitempty"`
	PixelShape    design.PixelShape `yaml:"pixel_shape"`
	EyeShape      design.EyeShape   `yaml:"eye_shape"`
	Accent        string            `yaml:"accent,omitempty"`
	Logo          string            `yaml:"logo,omitempty"`
	LogoPlacement string            `yaml:"logo_placement,omitempty"`
	LogoScale     float64           `yaml:"logo_scale,omitempty"`
}

func summarize(t design.Template) templateSummary {
	cfg := t.Design
	s := templateSummary{
		ID:         t.ID.String(),
		Title:      t.Title,
		Level:      cfg.Level,
		Foreground: cfg.Foreground.Hex(),
		Background: cfg.Background.Hex(),
		PupilColor: cfg.PupilColor.Hex(),
		PixelShape: cfg.PixelShape,
		EyeShape:   cfg.EyeShape,
	}
	if !t.CreatedAt.IsZero() {
		s.Created = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	for i, c := range cfg.EyeColors {
		if c != nil {
			s.EyeColors = append(s.EyeColors, fmt.Sprintf("%d:%s", i, c.Hex()))
		}
	}
	if a := cfg.OffPixelAccent; a != nil {
		s.Accent = fmt.Sprintf("%s %s at %.2f", a.Shape, a.Color.Hex(), cfg.AccentOpacity())
	}
	if l := cfg.Logo; l != nil {
		s.Logo = fmt.Sprintf("%dx%d", l.Width, l.Height)
		s.LogoPlacement = cfg.LogoPlacement.String()
		s.LogoScale = cfg.Scale()
	}
	return s
}

func (a *app) templateShowCmd() *ffcli.Command {
	return &ffcli.Command{
		Name:       "show",
		ShortUsage: "qrstyle template show <file>",
		ShortHelp:  "Describe a saved template",
		FlagSet:    a.newFlagSet("template show"),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			t, err := design.DecodeTemplate(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(summarize(t)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

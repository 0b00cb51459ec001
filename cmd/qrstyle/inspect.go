package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
	"gopkg.in/yaml.v3"

	"github.com/ericlevine/qrstyle/logo"
	"github.com/ericlevine/qrstyle/payload"
	"github.com/ericlevine/qrstyle/qrcode"
)

func (a *app) inspectCmd() *ffcli.Command {
	var text, hybrid bool
	fs := a.newFlagSet("inspect")
	fs.BoolVar(&text, "text", false, "treat the argument as a payload instead of an image file")
	fs.BoolVar(&hybrid, "hybrid", false, "binarize with local thresholds, for unevenly lit images")
	return &ffcli.Command{
		Name:       "inspect",
		ShortUsage: "qrstyle inspect [--hybrid] <image> | qrstyle inspect --text <payload>",
		ShortHelp:  "Decode a rendered symbol and describe its payload",
		FlagSet:    fs,
		Options:    envOptions,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			p := args[0]
			if !text {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				img, err := logo.Decode(data)
				if err != nil {
					return err
				}
				res, err := qrcode.Reader{Hybrid: hybrid, Detect: true}.DecodeImage(img.NRGBA())
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				modes := make([]string, len(res.Modes))
				for i, m := range res.Modes {
					modes[i] = m.String()
				}
				fmt.Fprintf(a.stdout, "version:\t%d\nlevel:\t%s\nmask:\t%d\nmodes:\t%s\ncorrected:\t%d\n",
					res.Version, res.ECLevel.Level(), res.Mask, strings.Join(modes, ","), res.ErrorsCorrected)
				p = res.Text
			}

			kind := payload.KindOf(p)
			fmt.Fprintf(a.stdout, "kind:\t%s\npayload:\t%q\n", kind, p)
			intent, err := payload.ParseStrict(p)
			if err != nil {
				a.logger.Warnw("payload does not match its format", "kind", kind, "error", err)
				intent = payload.PlainText{Text: p}
			}
			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(map[string]any{"fields": intent}); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

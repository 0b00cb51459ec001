package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/jobfile"
	"github.com/ericlevine/qrstyle/payload"
	"github.com/ericlevine/qrstyle/qrcode/encoder"
)

func (a *app) payloadCmd() *ffcli.Command {
	var (
		symbol bool
		level  = qrstyle.LevelMedium
	)
	fs := a.newFlagSet("payload")
	fs.BoolVar(&symbol, "symbol", false, "also draw the plain symbol as text")
	fs.TextVar(&level, "level", qrstyle.LevelMedium, "error correction level for --symbol: low, medium, high or max")
	return &ffcli.Command{
		Name:       "payload",
		ShortUsage: "qrstyle payload [--symbol] <job.yaml | ->",
		ShortHelp:  "Print the encoded payload of a job's intent",
		FlagSet:    fs,
		Options:    envOptions,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			f, err := readJobFile(args[0])
			if err != nil {
				return err
			}
			intent, err := f.Intent.Build()
			if err != nil {
				return err
			}
			text, err := payload.Encode(intent)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, text)
			if !symbol {
				return nil
			}
			sym, err := encoder.Generate(text, level)
			if err != nil {
				return err
			}
			a.logger.Debugw("generated symbol", "version", sym.Version, "mask", sym.Mask)
			fmt.Fprint(a.stdout, sym.String())
			return nil
		},
	}
}

// readJobFile parses a job file, or standard input for "-".
func readJobFile(path string) (*jobfile.File, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		r = fh
	}
	f, err := jobfile.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Command qrstyle encodes, styles, exports and inspects QR codes.
//
// Flags may also be set through QRSTYLE_* environment variables, for
// example QRSTYLE_VERBOSE=true.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "qrstyle: %v\n", err)
		}
		os.Exit(1)
	}
}

var envOptions = []ff.Option{ff.WithEnvVarPrefix("QRSTYLE")}

// app is the state shared by the subcommands.
type app struct {
	stdout, stderr io.Writer
	verbose        bool
	logger         *zap.SugaredLogger
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.command()
	if err := root.Parse(args); err != nil {
		return err
	}
	a.logger = a.newLogger()
	defer a.logger.Sync()
	return root.Run(ctx)
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) command() *ffcli.Command {
	fs := a.newFlagSet("qrstyle")
	fs.BoolVar(&a.verbose, "verbose", false, "log debug details to stderr")
	return &ffcli.Command{
		Name:       "qrstyle",
		ShortUsage: "qrstyle [--verbose] <subcommand> [flags] [args...]",
		ShortHelp:  "Encode, style, export and inspect QR codes",
		FlagSet:    fs,
		Options:    envOptions,
		Subcommands: []*ffcli.Command{
			a.payloadCmd(),
			a.renderCmd(),
			a.templateCmd(),
			a.contrastCmd(),
			a.inspectCmd(),
		},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}
}

// newLogger writes human-readable logs to stderr: warnings and above by
// default, everything with --verbose.
func (a *app) newLogger() *zap.SugaredLogger {
	level := zap.WarnLevel
	if a.verbose {
		level = zap.DebugLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(a.stderr), level)
	return zap.New(core).Sugar()
}

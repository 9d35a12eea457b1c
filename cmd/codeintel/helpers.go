package main

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/pkg/codeerr"
	"github.com/codegraph/codeintel/pkg/envelope"
	"github.com/codegraph/codeintel/pkg/outputmgr"
)

func outputManager(c *cli.Context) *outputmgr.Manager {
	format := outputmgr.ParseFormat(c.String("format"))
	colored := !c.Bool("no-color") && format == outputmgr.FormatText

	stdout := io.Writer(os.Stdout)
	if out := c.String("output"); out != "" {
		f, err := os.Create(out)
		if err == nil {
			stdout = f
			colored = false
		}
	}
	return outputmgr.New(format, stdout, os.Stderr, colored)
}

// asCodeErr adapts a plain error into a *codeerr.Error for envelope.Fail,
// defaulting to Internal when the error isn't already typed.
func asCodeErr(err error) *codeerr.Error {
	if ce, ok := codeerr.As(err); ok {
		return ce
	}
	return codeerr.Wrap(codeerr.Internal, err, "command failed")
}

// emitAndExit renders env and terminates the process with its exit code,
// matching the teacher's os.Exit(1)-on-error pattern from cmd/omen/main.go.
func emitAndExit(mgr *outputmgr.Manager, env envelope.Envelope) {
	code := mgr.Emit(env)
	os.Exit(code)
}

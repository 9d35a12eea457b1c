package main

import (
	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/pkg/envelope"
	"github.com/codegraph/codeintel/pkg/metastore"
)

func callersCmd() *cli.Command {
	return &cli.Command{
		Name:      "callers",
		Usage:     "List every caller of a function or method",
		ArgsUsage: "<name>",
		Action:    runCallers,
	}
}

func runCallers(c *cli.Context) error {
	name := c.Args().First()
	mgr := outputManager(c)

	store, err := metastore.Load(metaPath(c))
	if err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntitySearchResult, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
		return nil
	}

	callers := store.Callers(name)
	if len(callers) == 0 {
		emitAndExit(mgr, envelope.New(envelope.EntitySearchResult, envelope.Empty()).
			WithGuidance("no callers found for "+name))
		return nil
	}

	items := make([]any, 0, len(callers))
	for _, n := range callers {
		items = append(items, n)
	}
	emitAndExit(mgr, envelope.New(envelope.EntitySearchResult, envelope.Items(items)))
	return nil
}

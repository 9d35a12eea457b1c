package main

import (
	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/pkg/envelope"
	"github.com/codegraph/codeintel/pkg/metastore"
)

func calleesCmd() *cli.Command {
	return &cli.Command{
		Name:      "callees",
		Usage:     "List everything a function or method calls",
		ArgsUsage: "<name>",
		Action:    runCallees,
	}
}

func runCallees(c *cli.Context) error {
	name := c.Args().First()
	mgr := outputManager(c)

	store, err := metastore.Load(metaPath(c))
	if err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntitySearchResult, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
		return nil
	}

	callees := store.Callees(name)
	if len(callees) == 0 {
		emitAndExit(mgr, envelope.New(envelope.EntitySearchResult, envelope.Empty()).
			WithGuidance("no callees found for "+name))
		return nil
	}

	items := make([]any, 0, len(callees))
	for _, n := range callees {
		items = append(items, n)
	}
	emitAndExit(mgr, envelope.New(envelope.EntitySearchResult, envelope.Items(items)))
	return nil
}

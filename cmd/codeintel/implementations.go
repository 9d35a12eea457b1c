package main

import (
	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/pkg/envelope"
	"github.com/codegraph/codeintel/pkg/metastore"
)

func implementationsCmd() *cli.Command {
	return &cli.Command{
		Name:      "implementations",
		Usage:     "List every type implementing an interface or trait",
		ArgsUsage: "<name>",
		Action:    runImplementations,
	}
}

func runImplementations(c *cli.Context) error {
	name := c.Args().First()
	mgr := outputManager(c)

	store, err := metastore.Load(metaPath(c))
	if err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntityInterface, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
		return nil
	}

	impls := store.Implementations(name)
	if len(impls) == 0 {
		emitAndExit(mgr, envelope.New(envelope.EntityInterface, envelope.Empty()).
			WithGuidance("no implementations found for "+name))
		return nil
	}

	items := make([]any, 0, len(impls))
	for _, n := range impls {
		items = append(items, n)
	}
	emitAndExit(mgr, envelope.New(envelope.EntityInterface, envelope.Items(items)))
	return nil
}

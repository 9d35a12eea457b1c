package main

import (
	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/pkg/envelope"
	"github.com/codegraph/codeintel/pkg/metastore"
)

func impactCmd() *cli.Command {
	return &cli.Command{
		Name:      "impact",
		Usage:     "Show everything transitively affected by a change to a symbol",
		ArgsUsage: "<name>",
		Action:    runImpact,
	}
}

func runImpact(c *cli.Context) error {
	name := c.Args().First()
	mgr := outputManager(c)

	store, err := metastore.Load(metaPath(c))
	if err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntityImpact, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
		return nil
	}

	affected := store.Impact(name)
	if len(affected) == 0 {
		emitAndExit(mgr, envelope.New(envelope.EntityImpact, envelope.Empty()).
			WithGuidance("nothing depends on "+name))
		return nil
	}

	items := make([]any, 0, len(affected))
	for _, n := range affected {
		items = append(items, n)
	}
	emitAndExit(mgr, envelope.New(envelope.EntityImpact, envelope.Items(items)).
		WithMetadata(envelope.Metadata{Query: name}))
	return nil
}

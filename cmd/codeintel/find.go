package main

import (
	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/pkg/candidates"
	"github.com/codegraph/codeintel/pkg/envelope"
	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/metastore"
	"github.com/codegraph/codeintel/pkg/symbol"
)

func findCmd() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Find a symbol by name",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Usage: "Narrow matches to a symbol kind (Function, Struct, Interface, ...)"},
		},
		Action: runFind,
	}
}

func runFind(c *cli.Context) error {
	name := c.Args().First()
	mgr := outputManager(c)

	store, err := metastore.Load(metaPath(c))
	if err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntitySymbol, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
		return nil
	}

	matches := store.ByName(name)
	if kind := c.String("kind"); kind != "" {
		matches = filterByKind(store, matches, kind)
	}
	if len(matches) == 0 {
		env := envelope.New(envelope.EntitySymbol, envelope.Empty()).
			WithGuidance("no symbol named " + name)
		emitAndExit(mgr, env)
		return nil
	}

	items := make([]any, 0, len(matches))
	for _, sym := range matches {
		items = append(items, sym)
	}
	emitAndExit(mgr, envelope.New(envelope.EntitySymbol, envelope.Items(items)))
	return nil
}

// filterByKind narrows matches to the named SymbolKind via the roaring-
// bitmap posting lists candidates.Index maintains, rather than comparing
// Kind fields in a loop, so a query-time filter exercises the same
// narrowing path a cache-backed candidate set would use.
func filterByKind(store *metastore.Store, matches []symbol.Symbol, kind string) []symbol.Symbol {
	idx := candidates.New()
	for _, sym := range store.Symbols {
		idx.Add(sym, langparser.LangUnknown)
	}

	candidateIDs := make([]uint32, len(matches))
	for i, sym := range matches {
		candidateIDs[i] = uint32(sym.Id)
	}

	want := ids.ParseSymbolKind(kind)
	allowed := make(map[ids.SymbolId]bool)
	for _, id := range idx.Narrow(candidateIDs, candidates.Filter{Kind: want, KindSet: true}) {
		allowed[ids.NewSymbolId(id)] = true
	}

	var out []symbol.Symbol
	for _, sym := range matches {
		if allowed[sym.Id] {
			out = append(out, sym)
		}
	}
	return out
}

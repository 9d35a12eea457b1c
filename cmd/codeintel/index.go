package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/internal/indexer"
	"github.com/codegraph/codeintel/internal/progress"
	"github.com/codegraph/codeintel/pkg/envelope"
	"github.com/codegraph/codeintel/pkg/metastore"
	"github.com/codegraph/codeintel/pkg/resolution"
)

func indexCmd() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Walk a source tree and build the symbol cache",
		ArgsUsage: "<path>",
		Action:    runIndex,
	}
}

func runIndex(c *cli.Context) error {
	root := "."
	if c.Args().Len() > 0 {
		root = c.Args().First()
	}

	mgr := outputManager(c)
	tracker := progress.NewSpinner("Indexing " + root)

	ix := indexer.New().
		WithProgress(tracker).
		WithMaxWorkers(cfg.Index.MaxWorkers).
		WithSymbolBudget(cfg.Index.PerFileSymbolID)
	result, err := ix.Index(context.Background(), root)
	tracker.FinishSuccess()
	if err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntityIndexInfo, asCodeErr(err)))
		return nil
	}

	if mkErr := os.MkdirAll(stateDir(c), 0o755); mkErr != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntityIndexInfo, asCodeErr(mkErr)))
		return nil
	}

	if writeErr := indexer.BuildCache(cachePath(c), result); writeErr != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntityIndexInfo, asCodeErr(writeErr)))
		return nil
	}

	store := metastore.New()
	for _, f := range result.Files {
		store.AddFile(f.FileId, f.Path)
	}
	store.AddSymbols(result.Symbols)
	store.AddRelationships(result.Calls, result.Implements, result.Extends)
	if err := metastore.Save(metaPath(c), store); err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntityIndexInfo, asCodeErr(err)))
		return nil
	}

	if doc, rerr := indexer.DiscoverResolution(root); rerr == nil {
		if saveErr := resolution.Save(resolvePath(c), doc); saveErr != nil {
			mgr.Info("resolution: " + saveErr.Error())
		}
	}

	status := envelope.StatusSuccess
	if len(result.Errors) > 0 {
		status = envelope.StatusPartialSuccess
	}
	summary := map[string]any{
		"files_indexed": len(result.Files),
		"symbols_found": len(result.Symbols),
		"errors":        len(result.Errors),
	}
	env := envelope.New(envelope.EntityIndexInfo, envelope.Single(summary)).WithStatus(status)
	if len(result.Errors) > 0 {
		env = env.WithGuidance(fmt.Sprintf("%d files failed to parse; see --format json for details", len(result.Errors)))
	}
	emitAndExit(mgr, env)
	return nil
}

package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/pkg/audit"
	"github.com/codegraph/codeintel/pkg/codeerr"
	"github.com/codegraph/codeintel/pkg/envelope"
	"github.com/codegraph/codeintel/pkg/lang"
	"github.com/codegraph/codeintel/pkg/langparser"
)

func auditCmd() *cli.Command {
	return &cli.Command{
		Name:      "audit",
		Usage:     "Report grammar node coverage for a language's extractor against a sample file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lang", Usage: "Language to audit (overrides extension detection)"},
		},
		Action: runAudit,
	}
}

func runAudit(c *cli.Context) error {
	path := c.Args().First()
	mgr := outputManager(c)

	if path == "" {
		emitAndExit(mgr, envelope.Fail(envelope.EntityIndexInfo,
			codeerr.New(codeerr.InvalidInput, "audit requires a file argument")))
		return nil
	}

	l := langparser.DetectLanguage(path)
	if lf := c.String("lang"); lf != "" {
		l = langparser.ParseLanguage(lf)
	}
	if l == langparser.LangUnknown {
		emitAndExit(mgr, envelope.Fail(envelope.EntityIndexInfo,
			codeerr.New(codeerr.InvalidInput, "could not determine language for "+path)))
		return nil
	}

	parser, err := lang.ForLanguage(l)
	if err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntityIndexInfo, asCodeErr(err)))
		return nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntityIndexInfo, codeerr.Wrap(codeerr.IO, err, "audit: read "+path)))
		return nil
	}

	report, err := audit.Run(l, source, parser)
	if err != nil {
		emitAndExit(mgr, envelope.Fail(envelope.EntityIndexInfo, codeerr.Wrap(codeerr.Internal, err, "audit: run")))
		return nil
	}

	summary := map[string]any{
		"language":         report.Language,
		"grammar_total":    report.GrammarTotal,
		"handled_curated":  report.HandledCurated,
		"curated_total":    report.CuratedTotal,
		"coverage_percent": report.CoveragePercent,
		"gaps":             report.Gaps,
		"no_grammar":       report.NoGrammar,
		"rendered":         audit.Render(report),
	}
	emitAndExit(mgr, envelope.New(envelope.EntityIndexInfo, envelope.Single(summary)))
	return nil
}

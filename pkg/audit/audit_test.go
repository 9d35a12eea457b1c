package audit_test

import (
	"strings"
	"testing"

	"github.com/codegraph/codeintel/pkg/audit"
	"github.com/codegraph/codeintel/pkg/lang/golang"
	"github.com/codegraph/codeintel/pkg/lang/kotlin"
	"github.com/codegraph/codeintel/pkg/langparser"
)

const goSample = `package sample

import "fmt"

type Widget struct {
	Name string
}

func (w *Widget) Greet() string {
	return fmt.Sprintf("hi %s", w.Name)
}

func NewWidget(name string) *Widget {
	return &Widget{Name: name}
}
`

func TestRunReportsGrammarCoverageForGo(t *testing.T) {
	report, err := audit.Run(langparser.LangGo, []byte(goSample), golang.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.NoGrammar {
		t.Error("Go has a bound grammar; NoGrammar should be false")
	}
	if report.GrammarTotal == 0 {
		t.Error("expected at least one discovered grammar node kind")
	}
	if report.CuratedTotal == 0 {
		t.Fatal("expected a non-empty curated list for Go")
	}
	if report.CoveragePercent < 0 || report.CoveragePercent > 100 {
		t.Errorf("coverage percent out of range: %v", report.CoveragePercent)
	}
}

func TestRunDegradesWithoutGrammar(t *testing.T) {
	report, err := audit.Run(langparser.LangKotlin, []byte("fun main() {}"), kotlin.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.NoGrammar {
		t.Error("Kotlin has no bound grammar; NoGrammar should be true")
	}
	if report.GrammarTotal != 0 {
		t.Errorf("GrammarTotal = %d, want 0 when NoGrammar", report.GrammarTotal)
	}
}

func TestRenderIncludesSummaryAndGaps(t *testing.T) {
	report, err := audit.Run(langparser.LangGo, []byte(goSample), golang.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := audit.Render(report)
	if !strings.Contains(out, "Coverage audit:") {
		t.Errorf("render missing header: %q", out)
	}
	if !strings.Contains(out, "curated coverage:") {
		t.Errorf("render missing coverage line: %q", out)
	}
}

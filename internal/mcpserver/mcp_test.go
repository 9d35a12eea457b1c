package mcpserver

import (
	"strings"
	"testing"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/metastore"
	"github.com/codegraph/codeintel/pkg/symbol"
)

func TestServerCreation(t *testing.T) {
	server := NewServer("1.0.0-test", t.TempDir())
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.server == nil {
		t.Fatal("NewServer().server is nil")
	}
}

func TestServerCreationDefaults(t *testing.T) {
	server := NewServer("", "")
	if server.stateDir != ".codeintel" {
		t.Errorf("stateDir = %q, want .codeintel", server.stateDir)
	}
}

func TestToolDescriptionsNonEmpty(t *testing.T) {
	descriptions := map[string]func() string{
		"find_symbol":           describeFindSymbol,
		"find_callers":          describeFindCallers,
		"find_callees":          describeFindCallees,
		"find_implementations":  describeFindImplementations,
		"impact_of":             describeImpactOf,
		"audit_coverage":        describeAuditCoverage,
	}

	for name, fn := range descriptions {
		t.Run(name, func(t *testing.T) {
			desc := fn()
			if desc == "" {
				t.Errorf("%s description is empty", name)
			}
			if !strings.Contains(desc, "USE WHEN:") {
				t.Errorf("%s description missing USE WHEN section", name)
			}
		})
	}
}

func TestGenerateManifest(t *testing.T) {
	raw, err := GenerateManifest("1.2.3")
	if err != nil {
		t.Fatalf("GenerateManifest() error = %v", err)
	}
	if !strings.Contains(string(raw), "find_symbol") {
		t.Error("manifest should list find_symbol tool")
	}
	if !strings.Contains(string(raw), "1.2.3") {
		t.Error("manifest should embed the version")
	}
}

func TestLoadStoreMissing(t *testing.T) {
	s := &Server{stateDir: t.TempDir()}
	if _, err := s.loadStore(); err == nil {
		t.Error("loadStore() on an empty state dir should error")
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := &Server{stateDir: dir}

	store := metastore.New()
	store.AddSymbols([]symbol.Symbol{{Id: ids.NewSymbolId(1), Name: "Widget"}})
	if err := metastore.Save(s.metaPath(), store); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := s.loadStore()
	if err != nil {
		t.Fatalf("loadStore() error = %v", err)
	}
	if len(loaded.ByName("Widget")) != 1 {
		t.Error("expected one symbol named Widget after round trip")
	}
}

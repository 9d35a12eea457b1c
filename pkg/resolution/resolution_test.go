package resolution

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddConfigFileRecordsGlobOwnersAndRules(t *testing.T) {
	doc := New()
	doc.AddConfigFile(
		ConfigFileRef{Path: "web/tsconfig.json", ContentSha: "abc123"},
		[]string{"web/**"},
		Rules{BaseURL: "./src", Paths: map[string][]string{"@app/*": {"src/*"}}},
	)

	owner, ok := doc.OwnerFor("web/**")
	if !ok || owner != "web/tsconfig.json" {
		t.Fatalf("OwnerFor() = %q, %v", owner, ok)
	}
	rules := doc.EffectiveByFile["web/tsconfig.json"]
	if rules.BaseURL != "./src" {
		t.Errorf("base url = %q", rules.BaseURL)
	}
}

func TestAddConfigFileReplacesExistingEntry(t *testing.T) {
	doc := New()
	ref := ConfigFileRef{Path: "tsconfig.json", ContentSha: "v1"}
	doc.AddConfigFile(ref, []string{"**"}, Rules{BaseURL: "./a"})

	ref2 := ConfigFileRef{Path: "tsconfig.json", ContentSha: "v2"}
	doc.AddConfigFile(ref2, []string{"**"}, Rules{BaseURL: "./b"})

	if len(doc.ConfigFiles) != 1 {
		t.Fatalf("got %d config files, want 1 (replace not append)", len(doc.ConfigFiles))
	}
	if doc.ConfigFiles[0].ContentSha != "v2" {
		t.Errorf("content sha = %q, want v2", doc.ConfigFiles[0].ContentSha)
	}
	if doc.EffectiveByFile["tsconfig.json"].BaseURL != "./b" {
		t.Errorf("rules not updated on replace")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolution.json")

	doc := New()
	doc.AddConfigFile(
		ConfigFileRef{Path: "tsconfig.json", ContentSha: "deadbeef"},
		[]string{"**"},
		Rules{BaseURL: ".", Paths: map[string][]string{"@/*": {"./*"}}},
	)

	if err := Save(path, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.ConfigFiles) != 1 || loaded.ConfigFiles[0].Path != "tsconfig.json" {
		t.Fatalf("loaded document mismatch: %+v", loaded.ConfigFiles)
	}
	if loaded.EffectiveByFile["tsconfig.json"].BaseURL != "." {
		t.Errorf("base url = %q, want .", loaded.EffectiveByFile["tsconfig.json"].BaseURL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error loading a missing file")
	}
}

func TestLoadRejectsInvalidSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"version": "not-an-integer"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected schema validation to reject a malformed document")
	}
}

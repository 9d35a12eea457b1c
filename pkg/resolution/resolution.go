// Package resolution persists project-relative module resolution rules
// (path aliases, base URLs) discovered from per-language config files like
// tsconfig.json, as a single JSON document validated against an embedded
// schema before every write.
package resolution

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/codegraph/codeintel/pkg/codeerr"
)

const schemaVersion = 1

// ConfigFileRef pins a config file to the content hash it was read at, so
// a reload can detect staleness without re-parsing unchanged files.
type ConfigFileRef struct {
	Path        string `json:"config_file_path"`
	ContentSha  string `json:"content_sha"`
}

// Rules are a single config file's effective resolution settings.
type Rules struct {
	BaseURL string            `json:"base_url,omitempty"`
	Paths   map[string][]string `json:"paths,omitempty"`
}

// Document is the on-disk resolution persistence document.
type Document struct {
	Version      int                      `json:"version"`
	ConfigFiles  []ConfigFileRef          `json:"config_files"`
	GlobOwners   map[string]string        `json:"glob_owners"`
	EffectiveByFile map[string]Rules      `json:"effective_rules"`
}

// New returns an empty document at the current schema version.
func New() *Document {
	return &Document{
		Version:         schemaVersion,
		GlobOwners:      make(map[string]string),
		EffectiveByFile: make(map[string]Rules),
	}
}

// AddConfigFile records (or replaces) a config file's content hash and the
// glob patterns it governs, along with its effective rules.
func (d *Document) AddConfigFile(ref ConfigFileRef, globs []string, rules Rules) {
	replaced := false
	for i, existing := range d.ConfigFiles {
		if existing.Path == ref.Path {
			d.ConfigFiles[i] = ref
			replaced = true
			break
		}
	}
	if !replaced {
		d.ConfigFiles = append(d.ConfigFiles, ref)
	}
	for _, g := range globs {
		d.GlobOwners[g] = ref.Path
	}
	d.EffectiveByFile[ref.Path] = rules
}

// OwnerFor returns the config file governing a glob pattern, if any.
func (d *Document) OwnerFor(glob string) (string, bool) {
	owner, ok := d.GlobOwners[glob]
	return owner, ok
}

// Load reads and validates a resolution document from path.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, codeerr.Wrap(codeerr.IO, err, "resolution: read "+path)
	}
	if err := validate(raw); err != nil {
		return nil, codeerr.Wrap(codeerr.CacheFormat, err, "resolution: schema validation failed")
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, codeerr.Wrap(codeerr.CacheFormat, err, "resolution: decode")
	}
	return &doc, nil
}

// Save validates and atomically writes the document to path (temp file in
// the same directory, then rename).
func Save(path string, doc *Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return codeerr.Wrap(codeerr.Internal, err, "resolution: encode")
	}
	if err := validate(raw); err != nil {
		return codeerr.Wrap(codeerr.Internal, err, "resolution: document fails its own schema")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".resolution-*.tmp")
	if err != nil {
		return codeerr.Wrap(codeerr.IO, err, "resolution: create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return codeerr.Wrap(codeerr.IO, err, "resolution: write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return codeerr.Wrap(codeerr.IO, err, "resolution: close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return codeerr.Wrap(codeerr.IO, err, "resolution: rename into place")
	}
	return nil
}

func validate(raw []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	var inst any
	if err := json.Unmarshal(raw, &inst); err != nil {
		return err
	}
	return sch.Validate(inst)
}

var cachedSchema *jsonschema.Schema

func compiledSchema() (*jsonschema.Schema, error) {
	if cachedSchema != nil {
		return cachedSchema, nil
	}
	c := jsonschema.NewCompiler()
	var doc any
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return nil, err
	}
	if err := c.AddResource("resolution.schema.json", doc); err != nil {
		return nil, err
	}
	sch, err := c.Compile("resolution.schema.json")
	if err != nil {
		return nil, err
	}
	cachedSchema = sch
	return sch, nil
}

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "config_files", "glob_owners", "effective_rules"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "config_files": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["config_file_path", "content_sha"],
        "properties": {
          "config_file_path": {"type": "string"},
          "content_sha": {"type": "string"}
        }
      }
    },
    "glob_owners": {"type": "object", "additionalProperties": {"type": "string"}},
    "effective_rules": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "base_url": {"type": "string"},
          "paths": {"type": "object"}
        }
      }
    }
  }
}`

package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/codegraph/codeintel/pkg/resolution"
)

// tsconfigCompilerOptions is the subset of tsconfig.json this reads.
type tsconfigFile struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// DiscoverResolution walks root for tsconfig.json files and records each
// one's path-alias rules as the glob owner for its containing directory.
// Other languages resolve imports structurally (package/module paths) and
// have no comparable alias config to record.
func DiscoverResolution(root string) (*resolution.Document, error) {
	doc := resolution.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "tsconfig.json" {
			return nil
		}

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		var tc tsconfigFile
		if jsonErr := json.Unmarshal(raw, &tc); jsonErr != nil {
			return nil
		}
		if tc.CompilerOptions.BaseURL == "" && len(tc.CompilerOptions.Paths) == 0 {
			return nil
		}

		sum := sha256.Sum256(raw)
		glob := filepath.Join(filepath.Dir(path), "**")
		doc.AddConfigFile(
			resolution.ConfigFileRef{Path: path, ContentSha: hex.EncodeToString(sum[:])},
			[]string{glob},
			resolution.Rules{BaseURL: tc.CompilerOptions.BaseURL, Paths: tc.CompilerOptions.Paths},
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

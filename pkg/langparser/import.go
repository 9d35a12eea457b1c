package langparser

import "github.com/codegraph/codeintel/pkg/ids"

// Import is a single import/use/require statement found in a source file.
type Import struct {
	Path       string
	Alias      string
	HasAlias   bool
	FileId     ids.FileId
	IsGlob     bool
	IsTypeOnly bool
}

// NewImport builds an import with no alias, not a glob, not type-only.
func NewImport(path string, fileID ids.FileId) Import {
	return Import{Path: path, FileId: fileID}
}

func (i Import) WithAlias(alias string) Import {
	i.Alias = alias
	i.HasAlias = true
	return i
}

func (i Import) AsGlob() Import {
	i.IsGlob = true
	return i
}

func (i Import) AsTypeOnly() Import {
	i.IsTypeOnly = true
	return i
}

// EffectiveName returns the alias if present, otherwise the last path
// segment (split on "/" then "."), which is what a bare reference to the
// import would resolve to in source.
func (i Import) EffectiveName() string {
	if i.HasAlias {
		return i.Alias
	}
	return lastSegment(i.Path)
}

func lastSegment(path string) string {
	cut := len(path)
	for idx := len(path) - 1; idx >= 0; idx-- {
		if path[idx] == '/' || path[idx] == '.' {
			return path[idx+1 : cut]
		}
	}
	return path
}

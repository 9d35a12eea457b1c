// Package lang wires every concrete per-language extractor behind the
// shared langparser.LanguageParser contract, so callers look one up by
// detected Language without importing each grammar package directly.
package lang

import (
	"fmt"

	"github.com/codegraph/codeintel/pkg/lang/clang"
	"github.com/codegraph/codeintel/pkg/lang/cpp"
	"github.com/codegraph/codeintel/pkg/lang/csharp"
	"github.com/codegraph/codeintel/pkg/lang/gdscript"
	"github.com/codegraph/codeintel/pkg/lang/golang"
	"github.com/codegraph/codeintel/pkg/lang/kotlin"
	"github.com/codegraph/codeintel/pkg/lang/php"
	"github.com/codegraph/codeintel/pkg/lang/rust"
	"github.com/codegraph/codeintel/pkg/lang/typescript"
	"github.com/codegraph/codeintel/pkg/langparser"
)

// ForLanguage returns a fresh LanguageParser for the given language, or an
// error if no extractor is registered for it.
func ForLanguage(l langparser.Language) (langparser.LanguageParser, error) {
	switch l {
	case langparser.LangGo:
		return golang.New(), nil
	case langparser.LangRust:
		return rust.New(), nil
	case langparser.LangC:
		return clang.New(), nil
	case langparser.LangCPP:
		return cpp.New(), nil
	case langparser.LangCSharp:
		return csharp.New(), nil
	case langparser.LangTypeScript:
		return typescript.New(), nil
	case langparser.LangTSX:
		return typescript.NewTSX(), nil
	case langparser.LangJavaScript:
		return typescript.NewJavaScript(), nil
	case langparser.LangPHP:
		return php.New(), nil
	case langparser.LangKotlin:
		return kotlin.New(), nil
	case langparser.LangGDScript:
		return gdscript.New(), nil
	default:
		return nil, fmt.Errorf("lang: no extractor registered for %s", l)
	}
}

// ForFile detects the language from the path's extension and returns its
// extractor.
func ForFile(path string) (langparser.LanguageParser, error) {
	l := langparser.DetectLanguage(path)
	if l == langparser.LangUnknown {
		return nil, fmt.Errorf("lang: unrecognized file extension for %q", path)
	}
	return ForLanguage(l)
}

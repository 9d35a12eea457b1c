// Package langparser defines the uniform per-language parser contract
// (LanguageParser), the structured MethodCall and Import records, and the
// relationship tuple types every extractor in pkg/lang/* produces.
package langparser

import (
	"path/filepath"
	"strings"
)

// Language identifies a supported source language / grammar variant.
type Language int

const (
	LangUnknown Language = iota
	LangGo
	LangRust
	LangC
	LangCPP
	LangCSharp
	LangTypeScript
	LangTSX
	LangJavaScript
	LangPHP
	LangKotlin
	LangGDScript
)

func (l Language) String() string {
	switch l {
	case LangGo:
		return "go"
	case LangRust:
		return "rust"
	case LangC:
		return "c"
	case LangCPP:
		return "cpp"
	case LangCSharp:
		return "csharp"
	case LangTypeScript:
		return "typescript"
	case LangTSX:
		return "tsx"
	case LangJavaScript:
		return "javascript"
	case LangPHP:
		return "php"
	case LangKotlin:
		return "kotlin"
	case LangGDScript:
		return "gdscript"
	default:
		return "unknown"
	}
}

// DetectLanguage maps a file extension to a Language.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return LangGo
	case ".rs":
		return LangRust
	case ".c", ".h":
		return LangC
	case ".cpp", ".cc", ".cxx", ".hpp", ".hxx":
		return LangCPP
	case ".cs":
		return LangCSharp
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".tsx":
		return LangTSX
	case ".js", ".jsx", ".mjs", ".cjs":
		return LangJavaScript
	case ".php":
		return LangPHP
	case ".kt", ".kts":
		return LangKotlin
	case ".gd":
		return LangGDScript
	default:
		return LangUnknown
	}
}

// ParseLanguage maps a language name (as printed by String) back to a
// Language, for CLI flags that name a language explicitly rather than
// relying on extension detection.
func ParseLanguage(name string) Language {
	switch strings.ToLower(name) {
	case "go":
		return LangGo
	case "rust":
		return LangRust
	case "c":
		return LangC
	case "cpp", "c++":
		return LangCPP
	case "csharp", "c#":
		return LangCSharp
	case "typescript", "ts":
		return LangTypeScript
	case "tsx":
		return LangTSX
	case "javascript", "js":
		return LangJavaScript
	case "php":
		return LangPHP
	case "kotlin", "kt":
		return LangKotlin
	case "gdscript", "gd":
		return LangGDScript
	default:
		return LangUnknown
	}
}

// SupportedLanguages lists every language the engine has an extractor for.
func SupportedLanguages() []Language {
	return []Language{
		LangGo, LangRust, LangC, LangCPP, LangCSharp,
		LangTypeScript, LangTSX, LangJavaScript, LangPHP,
		LangKotlin, LangGDScript,
	}
}

// ScriptScopeSentinel returns the language-defined sentinel caller used for
// calls that occur outside any function.
func ScriptScopeSentinel(l Language) string {
	switch l {
	case LangGDScript:
		return "<script>"
	case LangKotlin:
		return "<file>"
	default:
		return "<module>"
	}
}

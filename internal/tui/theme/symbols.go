package theme

import (
	"os"
	"strings"
)

// EnvASCII forces the ASCII symbol set when truthy.
const EnvASCII = "YAMORI_ASCII"

// SymbolSet holds all UI symbols, allowing runtime switching between
// Unicode and ASCII fallback sets.
type SymbolSet struct {
	Pass     string
	Fail     string
	Timeout  string
	Build    string
	Error    string
	Pending  string
	Running  string
	Cursor   string
	Release  string
	Debug    string
	ArrowR   string
	Bullet   string
	Ellipsis string
}

var (
	SymbolPass     string
	SymbolFail     string
	SymbolTimeout  string
	SymbolBuild    string
	SymbolError    string
	SymbolPending  string
	SymbolRunning  string
	SymbolCursor   string
	SymbolRelease  string
	SymbolDebug    string
	SymbolArrowR   string
	SymbolBullet   string
	SymbolEllipsis string
)

var unicodeSymbols = SymbolSet{
	Pass:     "\u2713", // ✓
	Fail:     "\u2717", // ✗
	Timeout:  "\u23F1", // ⏱
	Build:    "\u2692", // ⚒
	Error:    "\u26A0", // ⚠
	Pending:  "\u25CB", // ○
	Running:  "\u25CF", // ●
	Cursor:   "\u25B6", // ▶
	Release:  "\u25C6", // ◆
	Debug:    "\u25C7", // ◇
	ArrowR:   "\u2192", // →
	Bullet:   "\u2022", // •
	Ellipsis: "\u2026", // …
}

var asciiSymbols = SymbolSet{
	Pass:     "[PASS]",
	Fail:     "[FAIL]",
	Timeout:  "[TIME]",
	Build:    "[BLD]",
	Error:    "[ERR]",
	Pending:  "[ ]",
	Running:  "[..]",
	Cursor:   ">",
	Release:  "[R]",
	Debug:    "[D]",
	ArrowR:   "->",
	Bullet:   "*",
	Ellipsis: "...",
}

// DetectUnicodeSupport checks whether the terminal likely supports Unicode.
// YAMORI_ASCII wins over locale detection.
func DetectUnicodeSupport() bool {
	if v := os.Getenv(EnvASCII); v == "1" || strings.EqualFold(v, "true") {
		return false
	}

	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		val := strings.ToLower(os.Getenv(key))
		if strings.Contains(val, "utf-8") || strings.Contains(val, "utf8") {
			return true
		}
	}

	return true
}

// InitSymbols sets the package-level Symbol* variables. forceASCII selects
// the ASCII set regardless of terminal capabilities.
func InitSymbols(forceASCII bool) {
	set := unicodeSymbols
	if forceASCII || !DetectUnicodeSupport() {
		set = asciiSymbols
	}

	SymbolPass = set.Pass
	SymbolFail = set.Fail
	SymbolTimeout = set.Timeout
	SymbolBuild = set.Build
	SymbolError = set.Error
	SymbolPending = set.Pending
	SymbolRunning = set.Running
	SymbolCursor = set.Cursor
	SymbolRelease = set.Release
	SymbolDebug = set.Debug
	SymbolArrowR = set.ArrowR
	SymbolBullet = set.Bullet
	SymbolEllipsis = set.Ellipsis
}

func init() {
	InitSymbols(false)
}

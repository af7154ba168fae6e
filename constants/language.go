package constants

// Language codes produced by the language identifier.
const (
	LangEnglish = "en"
	LangHindi   = "hi" // representative of the northern-script group
	LangTelugu  = "te" // representative of the southern-script group
	LangUnknown = "unknown"
)

// southernScripts collapse to LangTelugu.
var southernScripts = map[string]struct{}{
	"te": {}, "kn": {}, "ml": {}, "ta": {},
}

// northernScripts collapse to LangHindi.
var northernScripts = map[string]struct{}{
	"hi": {}, "mr": {}, "bn": {}, "pa": {}, "gu": {},
}

// CanonicalLanguage maps a detected ISO 639-1 code to its translation bucket.
// Codes outside both groups are returned unchanged.
func CanonicalLanguage(code string) string {
	if _, ok := southernScripts[code]; ok {
		return LangTelugu
	}
	if _, ok := northernScripts[code]; ok {
		return LangHindi
	}
	return code
}

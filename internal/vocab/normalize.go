package vocab

import "strings"

// Normalizer transforms a raw term before it is indexed or looked up.
// The same (or a compatible) normalizer must be used at build time and at
// resolution time.
type Normalizer func(string) string

// NormalizeDefault trims and lowercases.
func NormalizeDefault(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ComposeNormalizers applies the given normalizers left to right.
func ComposeNormalizers(fns ...Normalizer) Normalizer {
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}
}

// StripUICC folds bare AJCC edition labels into the combined AJCC/UICC form
// used by the vocabulary.
func StripUICC(code string) string {
	return strings.ReplaceAll(strings.ToLower(code), "ajcc", "ajcc/uicc")
}

// MakeStage folds roman-numeral stage suffixes to arabic and drops NOS.
func MakeStage(val string) string {
	val = strings.ToLower(val)
	// order matters: -iii before -ii before -i
	replacements := [][2]string{
		{"-iii", "-3"},
		{"-iv", "-4"},
		{"-ii", "-2"},
		{"-i", "-1"},
		{"nos", ""},
	}
	for _, r := range replacements {
		val = strings.ReplaceAll(val, r[0], r[1])
	}
	return val
}

// SiteToNOS completes an ICD-O topography code to its NOS form: codes with
// no subsite gain ".9", and the occasional code with a third decimal digit
// is truncated to two.
func SiteToNOS(icdoTopog string) string {
	if !strings.Contains(icdoTopog, ".") {
		return icdoTopog + ".9"
	}
	parts := strings.Split(icdoTopog, ".")
	last := parts[len(parts)-1]
	if len(last) > 2 {
		return strings.Join(parts[:len(parts)-1], "") + "." + last[:2]
	}
	return icdoTopog
}

// normalizersByName lets YAML spec overlays reference normalizers.
var normalizersByName = map[string]Normalizer{
	"default":     NormalizeDefault,
	"strip_uicc":  StripUICC,
	"stage":       MakeStage,
	"site_to_nos": SiteToNOS,
}

// NormalizerByName resolves a named normalizer, defaulting to
// NormalizeDefault for unknown names.
func NormalizerByName(name string) (Normalizer, bool) {
	n, ok := normalizersByName[name]
	if !ok {
		return NormalizeDefault, false
	}
	return n, true
}

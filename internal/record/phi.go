package record

import "regexp"

// phiPatterns flag text that probably carries protected health information.
var phiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(MRN|medical record)\b`),
	regexp.MustCompile(`(?i)\bDOB\b`),
	regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`),
	regexp.MustCompile(`(?i)\broom\s?#?\d+\b`),
	regexp.MustCompile(`(?i)\bbed\s?#?\d+\b`),
}

// PHILikely reports whether text matches any PHI pattern. It only warns:
// callers still store the text unchanged.
func PHILikely(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range phiPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

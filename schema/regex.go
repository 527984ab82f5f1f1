package schema

import (
	"regexp"
	"strconv"
)

var (
	lookaroundTokens = []string{"(?=", "(?!", "(?<=", "(?<!"}
	quantifierRe     = regexp.MustCompile(`\{(\d+),(\d+)\}`)
)

// checkPattern scans a string pattern for regex constructs the provider's
// engine does not implement, then attempts a compile. The scan runs first
// because the unsupported constructs are also invalid RE2 syntax; compiling
// them would just duplicate the finding with a less useful message.
func checkPattern(pattern, path string, ctx *validationContext) {
	unsupported := false

	for _, tok := range lookaroundTokens {
		if containsToken(pattern, tok) {
			ctx.errorf("Pattern at %s uses lookahead/lookbehind assertions, which are not supported", path)
			unsupported = true
			break
		}
	}
	if hasEscapedClass(pattern, isBackrefDigit) {
		ctx.errorf("Pattern at %s uses numeric backreferences, which are not supported", path)
		unsupported = true
	}
	if hasEscapedClass(pattern, isWordBoundary) {
		ctx.errorf("Pattern at %s uses word-boundary anchors, which are not supported", path)
		unsupported = true
	}

	if !unsupported {
		if _, err := regexp.Compile(pattern); err != nil {
			ctx.errorf("Invalid pattern at %s: %v", path, err)
		}
	}

	for _, m := range quantifierRe.FindAllStringSubmatch(pattern, -1) {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if hi-lo > ctx.limits.MaxQuantifierSpan {
			ctx.warnf("Bounded quantifier {%d,%d} at %s spans %d repetitions: the pattern may be slow to compile",
				lo, hi, path, hi-lo)
		}
	}
}

// containsToken reports whether tok occurs in pattern outside of an escape.
func containsToken(pattern, tok string) bool {
	for i := 0; i+len(tok) <= len(pattern); i++ {
		if pattern[i] == '\\' {
			i++
			continue
		}
		if pattern[i:i+len(tok)] == tok {
			return true
		}
	}
	return false
}

// hasEscapedClass reports whether the pattern contains a backslash escape
// whose escaped byte satisfies match. A literal backslash escape is skipped
// whole so "\\b" is not misread as a word boundary.
func hasEscapedClass(pattern string, match func(byte) bool) bool {
	for i := 0; i+1 < len(pattern); i++ {
		if pattern[i] != '\\' {
			continue
		}
		if match(pattern[i+1]) {
			return true
		}
		i++
	}
	return false
}

func isBackrefDigit(b byte) bool {
	return b >= '1' && b <= '9'
}

func isWordBoundary(b byte) bool {
	return b == 'b' || b == 'B'
}

// formatNumber renders a float the way it appeared in the source JSON:
// integers without a decimal point.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

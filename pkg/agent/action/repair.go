package action

import (
	"regexp"
	"strings"
)

// RepairFunc is a pure string transformation applied to broken JSON.
// Fixes are ordered and each one must be safe to run on already-fixed input.
type RepairFunc func(string) string

// TargetedFixes is the ordered repair chain used when both the exact parse and
// the automated repair pass fail. Order matters: quote escaping runs first so
// later regexes see well-delimited strings.
var TargetedFixes = []RepairFunc{
	FixUnescapedQuotes,
	StripComments,
	StripTrailingCommas,
	QuoteBareKeys,
	InsertMissingCommas,
	SingleToDoubleQuotes,
	PythonLiteralsToJSON,
	CollapseRepeatedCommas,
	CloseDanglingQuotes,
}

// ApplyTargetedFixes runs the full repair chain over the input.
func ApplyTargetedFixes(s string) string {
	for _, fix := range TargetedFixes {
		s = fix(s)
	}
	return s
}

// FixUnescapedQuotes escapes double quotes that appear inside string literals.
// It scans with an in-string flag and peeks at the next few non-whitespace
// characters to decide whether a quote terminates the string (followed by
// ',', ']', '}', a newline, or a key-value pattern) or is embedded content.
func FixUnescapedQuotes(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if ch == '"' && (i == 0 || runes[i-1] != '\\') {
			if !inString {
				inString = true
				b.WriteRune(ch)
				continue
			}

			// Peek ahead to decide whether this quote really closes the string.
			end := i + 10
			if end > len(runes) {
				end = len(runes)
			}
			next := strings.TrimLeft(string(runes[i+1:end]), " \t")
			if next == "" ||
				strings.HasPrefix(next, ",") ||
				strings.HasPrefix(next, "]") ||
				strings.HasPrefix(next, "}") ||
				strings.HasPrefix(next, "\n") ||
				strings.HasPrefix(next, ":\"") ||
				strings.HasPrefix(next, ": ") {
				inString = false
				b.WriteRune(ch)
			} else {
				b.WriteString(`\"`)
			}
			continue
		}

		b.WriteRune(ch)
	}

	return b.String()
}

var (
	lineCommentRe    = regexp.MustCompile(`(?m)\s*//.*$`)
	blockCommentRe   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingCommaRe  = regexp.MustCompile(`,(\s*[\]}])`)
	bareKeyRe        = regexp.MustCompile(`\n\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)
	missingCommaArrRe = regexp.MustCompile(`"\s+(["\[{])`)
	missingCommaObjRe = regexp.MustCompile(`"\s+"([a-zA-Z_])`)
	singleQuoteKeyRe = regexp.MustCompile(`'([^']*)':`)
	singleQuoteValRe = regexp.MustCompile(`:\s*'([^']*)'`)
	pyTrueRe         = regexp.MustCompile(`\bTrue\b`)
	pyFalseRe        = regexp.MustCompile(`\bFalse\b`)
	pyNoneRe         = regexp.MustCompile(`\bNone\b`)
	repeatedCommaRe  = regexp.MustCompile(`,\s*,+`)
)

// StripComments removes // line comments and /* */ block comments.
func StripComments(s string) string {
	s = lineCommentRe.ReplaceAllString(s, "")
	return blockCommentRe.ReplaceAllString(s, "")
}

// StripTrailingCommas removes commas directly before a closing bracket or brace.
func StripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// QuoteBareKeys wraps unquoted object keys at the start of a line in quotes.
func QuoteBareKeys(s string) string {
	return bareKeyRe.ReplaceAllString(s, "\n    \"$1\":")
}

// InsertMissingCommas adds commas between adjacent string/array/object tokens.
func InsertMissingCommas(s string) string {
	s = missingCommaArrRe.ReplaceAllString(s, `", $1`)
	return missingCommaObjRe.ReplaceAllString(s, `", "$1`)
}

// SingleToDoubleQuotes converts single-quoted keys and values to double quotes.
func SingleToDoubleQuotes(s string) string {
	s = singleQuoteKeyRe.ReplaceAllString(s, `"$1":`)
	return singleQuoteValRe.ReplaceAllString(s, `: "$1"`)
}

// PythonLiteralsToJSON maps True/False/None to their JSON equivalents.
func PythonLiteralsToJSON(s string) string {
	s = pyTrueRe.ReplaceAllString(s, "true")
	s = pyFalseRe.ReplaceAllString(s, "false")
	return pyNoneRe.ReplaceAllString(s, "null")
}

// CollapseRepeatedCommas reduces runs of consecutive commas to one.
func CollapseRepeatedCommas(s string) string {
	return repeatedCommaRe.ReplaceAllString(s, ",")
}

// CloseDanglingQuotes conservatively appends a closing quote to lines that open
// a string literal but never close it. Only plain value lines are touched; any
// line containing a key-value colon is left alone.
func CloseDanglingQuotes(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if len(stripped) > 1 &&
			strings.HasPrefix(stripped, `"`) &&
			!strings.HasSuffix(stripped, `"`) &&
			!strings.HasSuffix(stripped, `",`) &&
			!strings.HasSuffix(stripped, `"]`) &&
			!strings.HasSuffix(stripped, `"}`) &&
			!strings.Contains(stripped, ":") {
			lines[i] = strings.TrimRight(line, " \t") + `"`
		}
	}
	return strings.Join(lines, "\n")
}

package writer

// maxNameRetries bounds how many failed reflections trigger another search
// round before the pipeline salvages whatever results it has.
const maxNameRetries = 3

// Next names the node the pipeline routes to after reflection.
type Next int

const (
	// NextNameParser proceeds to name extraction, either because reflection
	// passed or because further retries are pointless.
	NextNameParser Next = iota
	// NextSearch re-runs the web search with the query reflection suggested.
	NextSearch
	// NextQueryGenerator generates a fresh query before searching again.
	NextQueryGenerator
)

// NextAfterReflection routes the pipeline after the reflection stage.
// Errors and exhausted retries both fall through to name parsing: partial
// results still beat producing nothing.
func NextAfterReflection(s *State) Next {
	if s.Err != nil {
		return NextNameParser
	}
	if s.Reflection.Passed {
		return NextNameParser
	}
	if s.RetryCount >= maxNameRetries {
		return NextNameParser
	}
	if s.Reflection.Suggestion != "" {
		// Reflection supplied a replacement query; skip the generator.
		return NextSearch
	}
	return NextQueryGenerator
}

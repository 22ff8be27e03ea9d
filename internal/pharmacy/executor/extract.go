package executor

import "regexp"

// Extractor pulls the JSON payload out of free-form model text.
type Extractor interface {
	Extract(text string) ([]byte, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(text string) ([]byte, error)

// Extract calls f(text).
func (f ExtractorFunc) Extract(text string) ([]byte, error) {
	return f(text)
}

var greedyObject = regexp.MustCompile(`(?s)\{.*\}`)

// GreedyBraceExtractor returns everything from the first '{' to the last '}'.
// Unrelated braces in surrounding prose break it; that is accepted.
type GreedyBraceExtractor struct{}

// Extract implements Extractor.
func (GreedyBraceExtractor) Extract(text string) ([]byte, error) {
	match := greedyObject.FindString(text)
	if match == "" {
		return nil, unparseable()
	}
	return []byte(match), nil
}

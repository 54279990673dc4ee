package extract

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// markerField is a key known to be present in well-formed receipt
// extractions. Candidate spans that contain it are preferred over spans
// latching onto stray prose braces.
const markerField = "merchant_name"

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

var errNoObject = errors.New("no JSON object found in completion")

// maxSpanCandidates bounds how many alternative start braces are tried when
// the outermost span fails to parse.
const maxSpanCandidates = 8

// ExtractJSON locates and strictly parses a JSON object embedded in an
// arbitrary completion text. A fenced code block is tried first, then the
// outermost brace pair, then spans starting at later braces that still
// contain the marker field. Failure returns a MalformedExtractionError
// carrying the offending substring; this layer never retries.
func ExtractJSON(text string) (map[string]interface{}, error) {
	candidates := candidateSpans(text)
	if len(candidates) == 0 {
		return nil, NewMalformedExtractionError(errNoObject, text)
	}

	var firstErr error
	for _, candidate := range candidates {
		parsed, err := strictParse(candidate)
		if err == nil {
			return parsed, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, NewMalformedExtractionError(firstErr, candidates[0])
}

func strictParse(s string) (map[string]interface{}, error) {
	var parsed map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func candidateSpans(text string) []string {
	var spans []string

	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		if span := outerSpan(m[1]); span != "" {
			spans = append(spans, span)
		}
	}

	outer := outerSpan(text)
	if outer == "" {
		return spans
	}
	spans = append(spans, outer)

	// Later start braces, kept only when the remaining span still contains
	// the marker field.
	last := strings.LastIndexByte(text, '}')
	start := strings.IndexByte(text, '{')
	for n := 0; n < maxSpanCandidates; n++ {
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start = start + 1 + next
		if start > last {
			break
		}
		if span := text[start : last+1]; strings.Contains(span, markerField) {
			spans = append(spans, span)
		}
	}
	return spans
}

// outerSpan returns the first '{' through the last '}' of text.
func outerSpan(text string) string {
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first < 0 || last < first {
		return ""
	}
	return text[first : last+1]
}

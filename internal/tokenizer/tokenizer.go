package tokenizer

import (
	"regexp"
	"strings"

	"github.com/gcbaptista/go-tuple-search/model"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// acronymRegex handles cases like "HTTPRequest" -> "HTTP Request"
var acronymRegex = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)

// camelCaseRegex handles cases like "theOffice" -> "the Office" or "myAPI" -> "my API"
var camelCaseRegex = regexp.MustCompile(`([a-z0-9])([A-Z])`)

const mailtoScheme = "mailto:"

// Tokenize converts a string into a slice of tokens.
// It splits camel/PascalCase, lowercases the string, and splits by non-alphanumeric characters.
func Tokenize(text string) []string {
	// 1. Split camelCase/PascalCase
	processedText := acronymRegex.ReplaceAllString(text, "$1 $2")
	processedText = camelCaseRegex.ReplaceAllString(processedText, "$1 $2")

	// 2. Lowercase
	lowerText := strings.ToLower(processedText)

	// 3. Split by non-alphanumeric characters
	split := nonAlphanumericRegex.Split(lowerText, -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" { // Filter out empty strings
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// TokenizeCell returns the tokens of one cell in position order.
//
// Literal cells go through Tokenize. URI cells ("<...>") produce the whole
// lowercased URI as their first token followed by its Tokenize parts, so a
// URI can be matched exactly or by its components. With stripMailto, a
// "mailto:" scheme is removed before tokenizing.
func TokenizeCell(cell string, stripMailto bool) []string {
	if !model.IsURICell(cell) {
		return Tokenize(cell)
	}

	uri := strings.TrimSpace(cell[1 : len(cell)-1])
	if stripMailto && len(uri) >= len(mailtoScheme) && strings.EqualFold(uri[:len(mailtoScheme)], mailtoScheme) {
		uri = uri[len(mailtoScheme):]
	}
	if uri == "" {
		return []string{}
	}

	parts := Tokenize(uri)
	tokens := make([]string, 0, len(parts)+1)
	tokens = append(tokens, strings.ToLower(uri))
	for _, p := range parts {
		// A single-part URI is already covered by the whole token.
		if len(parts) == 1 && p == tokens[0] {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}

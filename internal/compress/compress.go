// Package compress shortens over-length bullets by removing qualifiers and
// filler without touching verbs, numbers, subjects, or claims. It is a
// last-few-lines remedy, never a first-resort allocation strategy.
package compress

import (
	"regexp"
	"strings"
)

// MinLength is the rune count below which compression refuses to run;
// shorter bullets have nothing safe to remove.
const MinLength = 80

// Filler adverbs and qualifiers that can be dropped without altering any
// factual claim. Verbs, numbers, and nouns never appear here.
var fillerWordPattern = regexp.MustCompile(`(?i)\b(successfully|effectively|efficiently|seamlessly|proactively|diligently|really|truly|very|extremely|highly|incredibly|essentially|basically|actually|ultimately|overall|in general)\b ?`)

// Wordy phrases with strict drop-in replacements that preserve meaning.
var phraseRewrites = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bin order to\b`), "to"},
	{regexp.MustCompile(`(?i)\bas well as\b`), "and"},
	{regexp.MustCompile(`(?i)\bin addition to\b`), "beyond"},
	{regexp.MustCompile(`(?i)\bon a regular basis\b`), "regularly"},
	{regexp.MustCompile(`(?i)\bin a timely manner\b`), "promptly"},
	{regexp.MustCompile(`(?i)\ba wide range of\b`), "many"},
	{regexp.MustCompile(`(?i)\ba variety of\b`), "varied"},
}

var multiSpacePattern = regexp.MustCompile(`  +`)
var spaceBeforePunctPattern = regexp.MustCompile(` ([,.;:])`)

// Compress returns a shorter variant of the bullet text, targeting roughly a
// 20-25% character reduction. Inputs below MinLength are returned unchanged,
// as is any input the rewrites cannot actually shorten. The result is never
// longer than the input.
func Compress(text string) string {
	if len([]rune(text)) < MinLength {
		return text
	}

	result := text
	for _, rewrite := range phraseRewrites {
		result = rewrite.pattern.ReplaceAllString(result, rewrite.replacement)
	}
	result = fillerWordPattern.ReplaceAllString(result, "")

	result = multiSpacePattern.ReplaceAllString(result, " ")
	result = spaceBeforePunctPattern.ReplaceAllString(result, "$1")
	result = strings.TrimSpace(result)

	if len([]rune(result)) >= len([]rune(text)) {
		return text
	}

	return result
}

// Applied reports whether Compress produced a distinct variant for the input.
func Applied(original, compressed string) bool {
	return compressed != original
}

// SharedTokenRatio returns the fraction of the original's word tokens still
// present in the compressed text. Quality reviews use it to spot-check that
// compression preserved verbs, numbers, and subjects.
func SharedTokenRatio(original, compressed string) float64 {
	originalTokens := strings.Fields(strings.ToLower(original))
	if len(originalTokens) == 0 {
		return 1.0
	}

	compressedSet := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(compressed)) {
		compressedSet[strings.Trim(tok, ".,;:")] = true
	}

	shared := 0
	for _, tok := range originalTokens {
		if compressedSet[strings.Trim(tok, ".,;:")] {
			shared++
		}
	}

	return float64(shared) / float64(len(originalTokens))
}

// Package estimate converts textual units into estimated line counts.
// Every estimate uses the shared wrap width from configuration so the
// allocator and simulator see a consistent cost model.
package estimate

import "math"

// bulletChromeLines is the fixed overhead of a bullet: marker plus indent.
const bulletChromeLines = 1

// BulletCost estimates the line cost of a bullet: one chrome line plus the
// wrapped text lines. Empty text costs 0 lines; the allocator treats such
// bullets as never worth selecting.
func BulletCost(text string, charsPerLine int) int {
	length := len([]rune(text))
	if length == 0 {
		return 0
	}
	return bulletChromeLines + wrappedLines(length, charsPerLine)
}

// HeaderCost returns the configured header height. Role headers may take a
// second line when location and dates wrap; engagement headers normally fit
// on one.
func HeaderCost(configuredLines int) int {
	if configuredLines < 1 {
		return 1
	}
	return configuredLines
}

// BlockCost estimates a block section (summary, skills) from its character
// count divided by the average per-line capacity of that section style.
func BlockCost(text string, blockCharsPerLine int) int {
	length := len([]rune(text))
	if length == 0 {
		return 0
	}
	return wrappedLines(length, blockCharsPerLine)
}

// wrappedLines returns ceil(length / charsPerLine). A length exactly divisible
// by the wrap width fills its last line rather than spilling onto a new one.
func wrappedLines(length, charsPerLine int) int {
	if charsPerLine <= 0 {
		return length
	}
	return int(math.Ceil(float64(length) / float64(charsPerLine)))
}

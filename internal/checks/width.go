package checks

// titleWidthLimit is the estimated pixel budget for a title before search
// result listings truncate it.
const titleWidthLimit = 550

// charWidths holds approximate rendered widths in pixels for common
// characters at the font size search result titles are displayed at.
// Characters not in the table fall back to the table average.
var charWidths = map[rune]float64{
	' ': 5, '!': 5, '"': 6, '&': 12, '\'': 3, '(': 6, ')': 6,
	',': 5, '-': 6, '.': 5, '/': 5, ':': 5, ';': 5, '?': 9, '@': 18,

	'0': 10, '1': 10, '2': 10, '3': 10, '4': 10,
	'5': 10, '6': 10, '7': 10, '8': 10, '9': 10,

	'A': 12, 'B': 12, 'C': 13, 'D': 13, 'E': 12, 'F': 11, 'G': 14,
	'H': 13, 'I': 5, 'J': 9, 'K': 12, 'L': 10, 'M': 15, 'N': 13,
	'O': 14, 'P': 12, 'Q': 14, 'R': 13, 'S': 12, 'T': 11, 'U': 13,
	'V': 12, 'W': 17, 'X': 12, 'Y': 12, 'Z': 11,

	'a': 10, 'b': 10, 'c': 9, 'd': 10, 'e': 10, 'f': 5, 'g': 10,
	'h': 10, 'i': 4, 'j': 4, 'k': 9, 'l': 4, 'm': 15, 'n': 10,
	'o': 10, 'p': 10, 'q': 10, 'r': 6, 's': 9, 't': 5, 'u': 10,
	'v': 9, 'w': 13, 'x': 9, 'y': 9, 'z': 9,
}

// averageCharWidth is the fallback width for characters missing from the
// table, computed once from the table itself.
var averageCharWidth = func() float64 {
	var sum float64
	for _, w := range charWidths {
		sum += w
	}
	return sum / float64(len(charWidths))
}()

// estimateTextWidth estimates the rendered pixel width of text using the
// per-character width table.
func estimateTextWidth(text string) float64 {
	var width float64
	for _, r := range text {
		if w, ok := charWidths[r]; ok {
			width += w
			continue
		}
		width += averageCharWidth
	}
	return width
}

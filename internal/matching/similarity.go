package matching

import "github.com/texttheater/golang-levenshtein/levenshtein"

// similarityRatio is a normalized Levenshtein similarity over runes: 1.0 for
// identical strings, 0.0 for completely different ones.
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	return 1.0 - float64(distance)/float64(longest)
}

// partialRatio is the best similarityRatio of the shorter string against any
// equal-length window of the longer one. It scores substring-style matches
// highly: an abbreviated payer name embedded in a longer registered name.
func partialRatio(a, b string) float64 {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0.0
	}
	if len(shorter) == len(longer) {
		return similarityRatio(string(shorter), string(longer))
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := longer[i : i+len(shorter)]
		if ratio := similarityRatio(string(shorter), string(window)); ratio > best {
			best = ratio
			if best == 1.0 {
				break
			}
		}
	}
	return best
}

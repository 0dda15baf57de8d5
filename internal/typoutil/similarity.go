package typoutil

// similarityEpsilon absorbs float rounding when turning a similarity
// threshold into a whole number of allowed edits.
const similarityEpsilon = 1e-9

// Similarity scores a candidate term against a query term whose first
// prefixLength runes must match exactly.
//
// Only the parts after the shared prefix are compared:
//
//	similarity = 1 - distance / (prefixLength + min(len(text), len(target)))
//
// so a longer shared prefix makes the same number of edits cheaper. When one
// side is empty after the prefix, the other side's length counts as the
// distance relative to the prefix alone. ok is false when the candidate does
// not carry the prefix or when the distance exceeds what minSimilarity allows;
// callers then treat the candidate as rejected without looking at the score.
func Similarity(term, candidate string, prefixLength int, minSimilarity float64, transpositions bool) (similarity float64, ok bool) {
	termRunes := []rune(term)
	candidateRunes := []rune(candidate)

	prefix := prefixLength
	if prefix > len(termRunes) {
		prefix = len(termRunes)
	}
	if prefix < 0 {
		prefix = 0
	}
	if len(candidateRunes) < prefix {
		return 0, false
	}
	for i := 0; i < prefix; i++ {
		if termRunes[i] != candidateRunes[i] {
			return 0, false
		}
	}

	text := termRunes[prefix:]
	target := candidateRunes[prefix:]
	n, m := len(text), len(target)

	if n == 0 {
		if prefix == 0 {
			return 0, true
		}
		return 1 - float64(m)/float64(prefix), true
	}
	if m == 0 {
		if prefix == 0 {
			return 0, true
		}
		return 1 - float64(n)/float64(prefix), true
	}

	shorter := n
	if m < shorter {
		shorter = m
	}
	maxDistance := int((1-minSimilarity)*float64(shorter+prefix) + similarityEpsilon)

	distance := editDistanceWithLimit(text, target, maxDistance, transpositions)
	if distance > maxDistance {
		return 0, false
	}
	return 1 - float64(distance)/float64(prefix+shorter), true
}

// Accepts reports whether a candidate with the given similarity passes the
// threshold. Identical terms always pass, including at minSimilarity 1.
func Accepts(term, candidate string, similarity, minSimilarity float64) bool {
	if term == candidate {
		return true
	}
	return similarity > minSimilarity
}

// Boost maps an accepted similarity onto (0, 1].
func Boost(similarity, minSimilarity float64) float64 {
	if minSimilarity >= 1 {
		return 1
	}
	boost := (similarity - minSimilarity) / (1 - minSimilarity)
	if boost > 1 {
		return 1
	}
	return boost
}

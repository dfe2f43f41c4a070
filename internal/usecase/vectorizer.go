package usecase

import "math"

// Character n-gram bounds for the vector space. Product names are
// compound, abbreviation-heavy, and inconsistently spaced; character
// n-grams tolerate small spelling and spacing differences that whole
// word tokenization would miss.
const (
	minNGram = 3
	maxNGram = 6
)

// VectorSpace is a TF-IDF model over character n-grams, fitted once
// per matching batch (or per brand partition) from every name that
// participates as a query or candidate in that batch.
type VectorSpace struct {
	idf     map[string]float64
	numDocs int
}

// charNGrams emits every n-gram of length 3 through 6 over the runes
// of s, including n-grams that span word boundaries. A non-empty
// string shorter than the minimum length contributes itself as a
// single feature so degenerate corpora still vectorize.
func charNGrams(s string) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) < minNGram {
		return []string{s}
	}

	var grams []string
	for n := minNGram; n <= maxNGram; n++ {
		for i := 0; i+n <= len(runes); i++ {
			grams = append(grams, string(runes[i:i+n]))
		}
	}
	return grams
}

// NewVectorSpace fits a vector space from a corpus of normalized
// names. Duplicate documents are collapsed before document-frequency
// counting, mirroring a fit over the unique name set.
func NewVectorSpace(corpus []string) *VectorSpace {
	seen := make(map[string]bool, len(corpus))
	docFreq := make(map[string]int)

	for _, doc := range corpus {
		if seen[doc] {
			continue
		}
		seen[doc] = true

		unique := make(map[string]bool)
		for _, gram := range charNGrams(doc) {
			unique[gram] = true
		}
		for gram := range unique {
			docFreq[gram]++
		}
	}

	numDocs := len(seen)
	idf := make(map[string]float64, len(docFreq))
	for gram, df := range docFreq {
		// Smoothed idf keeps every term positive even when it appears
		// in all documents.
		idf[gram] = math.Log(float64(1+numDocs)/float64(1+df)) + 1
	}

	return &VectorSpace{idf: idf, numDocs: numDocs}
}

// Vectorize transforms a name into its L2-normalized TF-IDF vector.
// N-grams unseen at fit time are ignored. An empty or fully-unseen
// name yields an empty vector, which scores 0 against everything.
func (vs *VectorSpace) Vectorize(s string) map[string]float64 {
	termFreq := make(map[string]int)
	for _, gram := range charNGrams(s) {
		if _, known := vs.idf[gram]; known {
			termFreq[gram]++
		}
	}

	vector := make(map[string]float64, len(termFreq))
	var norm float64
	for gram, freq := range termFreq {
		w := float64(freq) * vs.idf[gram]
		vector[gram] = w
		norm += w * w
	}
	if norm == 0 {
		return vector
	}

	norm = math.Sqrt(norm)
	for gram := range vector {
		vector[gram] /= norm
	}
	return vector
}

// Score computes the cosine similarity of one query against every
// candidate, in candidate order. Scores are in [0,1]; identical
// non-empty strings score exactly 1.
func (vs *VectorSpace) Score(query string, candidates []string) []float64 {
	queryVec := vs.Vectorize(query)

	scores := make([]float64, len(candidates))
	for i, candidate := range candidates {
		if candidate == query && candidate != "" {
			scores[i] = 1.0
			continue
		}
		scores[i] = dot(queryVec, vs.Vectorize(candidate))
	}
	return scores
}

// dot is the cosine similarity of two L2-normalized sparse vectors,
// clamped into [0,1] against floating-point drift.
func dot(a, b map[string]float64) float64 {
	// Iterate the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}

	var sum float64
	for term, av := range a {
		if bv, ok := b[term]; ok {
			sum += av * bv
		}
	}

	if sum < 0 {
		return 0
	}
	if sum > 1 {
		return 1
	}
	return sum
}

package release

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence buckets a title similarity score.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // < 0.70
	ConfidenceLow                           // >= 0.70
	ConfidenceMedium                        // >= 0.85
	ConfidenceHigh                          // >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// ConfidenceFor maps a similarity score onto a confidence bucket.
func ConfidenceFor(score float64) MatchConfidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// MatchResult is the best candidate found by MatchTitle.
type MatchResult struct {
	Title      string
	Score      float64
	Confidence MatchConfidence
}

// Similarity scores how close a filename title is to a catalog title, in [0,1].
// Both sides are normalized first. Jaro-Winkler favors shared prefixes, which
// suits titles; sequel numbers that disagree ("Rocky 2" vs "Rocky 3") are penalized.
func Similarity(parsed, candidate string) float64 {
	a := NormalizeTitle(parsed)
	b := NormalizeTitle(candidate)
	if a == "" || b == "" {
		return 0
	}
	score := float64(edlib.JaroWinklerSimilarity(a, b))
	return adjustScoreForNumbers(score, numberRegex.FindAllString(a, -1), numberRegex.FindAllString(b, -1))
}

// MatchTitle returns the candidate most similar to parsed. When no candidate
// reaches the low-confidence threshold the returned Title is empty.
func MatchTitle(parsed string, candidates []string) MatchResult {
	var best MatchResult
	for _, candidate := range candidates {
		if score := Similarity(parsed, candidate); score > best.Score {
			best.Title = candidate
			best.Score = score
		}
	}
	best.Confidence = ConfidenceFor(best.Score)
	if best.Confidence == ConfidenceNone {
		best.Title = ""
	}
	return best
}

func adjustScoreForNumbers(score float64, parsedNums, candidateNums []string) float64 {
	if len(parsedNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}

	candidateSet := make(map[string]bool, len(candidateNums))
	for _, n := range candidateNums {
		candidateSet[n] = true
	}
	for _, n := range parsedNums {
		if candidateSet[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}

package journal

import "strings"

// Sentiment is the coarse mood classification attached to a finalized entry.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Score maps a sentiment onto -1, 0 or +1. Unknown values score 0.
func (s Sentiment) Score() float64 {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

var positiveWords = map[string]struct{}{
	"happy": {}, "joy": {}, "love": {}, "excited": {}, "grateful": {},
	"peaceful": {}, "content": {}, "amazing": {}, "wonderful": {},
}

var negativeWords = map[string]struct{}{
	"sad": {}, "angry": {}, "frustrated": {}, "worried": {}, "anxious": {},
	"terrible": {}, "awful": {}, "hate": {}, "depressed": {},
}

// Classify is a keyword counter over whitespace-separated tokens. Tokens must match
// exactly, so punctuation attached to a word ("happy!") does not count.
func Classify(text string) Sentiment {
	var pos, neg int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, ok := positiveWords[word]; ok {
			pos++
		}
		if _, ok := negativeWords[word]; ok {
			neg++
		}
	}

	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Package generator derives candidate compositions from a video title: it analyses the
// title, picks a style table and emits six RenderSpecs in a fixed order. Everything in
// this package is pure; the same input always yields equal output.
package generator

import (
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentiment values.
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// Analysis is the result of Analyze.
type Analysis struct {
	WordCount      int      `json:"wordCount"`
	HasQuestion    bool     `json:"hasQuestion"`
	HasExclamation bool     `json:"hasExclamation"`
	HasNumbers     bool     `json:"hasNumbers"`
	Keywords       []string `json:"keywords"`
	Sentiment      string   `json:"sentiment"`
	Category       string   `json:"category"`
	// Length 按字符（rune）计数。
	Length int `json:"length"`
}

var stopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does",
	"did", "will", "would", "could", "should", "may", "might", "must", "can", "this", "that",
	"these", "those",
}

var positiveWords = []string{
	"amazing", "awesome", "great", "best", "perfect", "excellent", "fantastic", "incredible",
	"ultimate", "pro", "master", "epic", "insane", "crazy", "mind-blowing",
}

var negativeWords = []string{
	"worst", "terrible", "awful", "bad", "horrible", "disaster", "fail", "wrong", "mistake",
	"problem",
}

type lexicon struct {
	category string
	words    []string
}

// lexicons 的声明顺序决定平局时的胜者。
var lexicons = []lexicon{
	{"gaming", []string{"game", "gaming", "play", "player", "gameplay", "review", "fps", "rpg", "strategy", "indie", "steam", "pc", "console", "xbox", "playstation", "nintendo"}},
	{"tech", []string{"tech", "technology", "computer", "software", "hardware", "app", "phone", "iphone", "android", "review", "unboxing", "comparison", "vs", "specs", "performance"}},
	{"tutorial", []string{"how", "tutorial", "guide", "learn", "course", "lesson", "step", "easy", "beginner", "advanced", "tips", "tricks", "hacks", "diy"}},
	{"vlog", []string{"vlog", "day", "life", "daily", "routine", "travel", "food", "lifestyle", "personal", "story", "experience", "journey"}},
	{"news", []string{"news", "breaking", "update", "latest", "report", "analysis", "politics", "world", "economy", "business", "market"}},
}

// DefaultCategory is reported when no lexicon matches.
const DefaultCategory = "tech"

// Analyze inspects title. An empty title yields one word, no keywords, neutral
// sentiment and the default category.
func Analyze(title string) Analysis {
	lower := cases.Lower(language.Und).String(title)
	return Analysis{
		WordCount:      len(strings.Split(title, " ")),
		HasQuestion:    strings.Contains(title, "?"),
		HasExclamation: strings.Contains(title, "!"),
		HasNumbers:     strings.ContainsAny(title, "0123456789"),
		Keywords:       keywords(lower),
		Sentiment:      sentiment(lower),
		Category:       category(lower),
		Length:         utf8.RuneCountInString(title),
	}
}

func keywords(lower string) []string {
	out := []string{}
	for _, w := range strings.Split(lower, " ") {
		if utf8.RuneCountInString(w) > 2 && !slices.Contains(stopWords, w) {
			out = append(out, w)
		}
	}
	return out
}

// matches counts the words that occur anywhere in lower, as substrings.
func matches(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

func sentiment(lower string) string {
	pos, neg := matches(lower, positiveWords), matches(lower, negativeWords)
	switch {
	case pos > neg:
		return Positive
	case neg > pos:
		return Negative
	default:
		return Neutral
	}
}

func category(lower string) string {
	best, score := DefaultCategory, 0
	for _, lx := range lexicons {
		if n := matches(lower, lx.words); n > score {
			best, score = lx.category, n
		}
	}
	return best
}

// Package ranking turns the unordered word statistics returned by the model
// into the ordered summary served to clients.
package ranking

import (
	"cmp"
	"slices"

	"github.com/spacesedan/wordlens/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TopWordsLimit is the number of content words reported as top words.
const TopWordsLimit = 5

// DefaultLocale is used when no locale is configured or it cannot be parsed.
const DefaultLocale = "en"

// Ranking is the word-derived part of an analysis summary.
type Ranking struct {
	TotalWords   int
	TopWords     []models.WordStat
	NonStopwords []models.WordStat
	Stopwords    []models.WordStat
}

// Ranker orders words by count, breaking ties with the collation rules of
// its locale.
type Ranker struct {
	tag language.Tag
}

// New returns a Ranker for the given BCP 47 locale. Unparseable locales fall
// back to DefaultLocale.
func New(locale string) Ranker {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Make(DefaultLocale)
	}
	return Ranker{tag: tag}
}

// Rank ranks words with the default locale.
func Rank(words []models.WordStat) Ranking {
	return New(DefaultLocale).Rank(words)
}

// Rank computes the total word count over all input entries, splits them by
// stopword flag and sorts each partition independently. The input slice is
// left untouched.
func (r Ranker) Rank(words []models.WordStat) Ranking {
	result := Ranking{
		TopWords:     []models.WordStat{},
		NonStopwords: []models.WordStat{},
		Stopwords:    []models.WordStat{},
	}

	for _, w := range words {
		result.TotalWords += w.Count
		if w.IsStopWord {
			result.Stopwords = append(result.Stopwords, w)
		} else {
			result.NonStopwords = append(result.NonStopwords, w)
		}
	}

	// collate.Collator keeps internal buffers, so each call gets its own.
	col := collate.New(r.tag)
	byRank := func(a, b models.WordStat) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := col.CompareString(a.Word, b.Word); c != 0 {
			return c
		}
		// Distinct words can collate equal (e.g. soft hyphens, decomposed
		// accents); fall back to bytes so only identical words tie.
		return cmp.Compare(a.Word, b.Word)
	}
	slices.SortStableFunc(result.NonStopwords, byRank)
	slices.SortStableFunc(result.Stopwords, byRank)

	n := min(TopWordsLimit, len(result.NonStopwords))
	result.TopWords = append(result.TopWords, result.NonStopwords[:n]...)

	return result
}

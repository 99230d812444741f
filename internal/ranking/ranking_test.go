package ranking

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/spacesedan/wordlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ws(word string, count int, stop bool) models.WordStat {
	return models.WordStat{Word: word, Count: count, IsStopWord: stop}
}

func TestRankEmptyInput(t *testing.T) {
	for _, in := range [][]models.WordStat{nil, {}} {
		got := Rank(in)
		assert.Equal(t, 0, got.TotalWords)
		assert.NotNil(t, got.TopWords)
		assert.NotNil(t, got.NonStopwords)
		assert.NotNil(t, got.Stopwords)
		assert.Empty(t, got.TopWords)
		assert.Empty(t, got.NonStopwords)
		assert.Empty(t, got.Stopwords)
	}
}

func TestRankTieBrokenAlphabetically(t *testing.T) {
	got := Rank([]models.WordStat{
		ws("the", 5, true),
		ws("dog", 3, false),
		ws("cat", 3, false),
	})

	assert.Equal(t, 11, got.TotalWords)
	assert.Equal(t, []models.WordStat{ws("cat", 3, false), ws("dog", 3, false)}, got.NonStopwords)
	assert.Equal(t, []models.WordStat{ws("the", 5, true)}, got.Stopwords)
	assert.Equal(t, got.NonStopwords, got.TopWords)
}

func TestRankCountDescending(t *testing.T) {
	got := Rank([]models.WordStat{
		ws("alpha", 1, false),
		ws("beta", 7, false),
		ws("gamma", 3, false),
		ws("a", 2, true),
		ws("of", 9, true),
	})

	assert.Equal(t, []models.WordStat{
		ws("beta", 7, false),
		ws("gamma", 3, false),
		ws("alpha", 1, false),
	}, got.NonStopwords)
	assert.Equal(t, []models.WordStat{ws("of", 9, true), ws("a", 2, true)}, got.Stopwords)
	assert.Equal(t, 22, got.TotalWords)
}

func TestRankFewerThanFiveNonStopwords(t *testing.T) {
	got := Rank([]models.WordStat{ws("a", 1, false), ws("b", 1, false)})

	require.Len(t, got.TopWords, 2)
	assert.Equal(t, []models.WordStat{ws("a", 1, false), ws("b", 1, false)}, got.TopWords)
}

func TestRankTopWordsCappedAtFive(t *testing.T) {
	var in []models.WordStat
	for i := 0; i < 8; i++ {
		in = append(in, ws(fmt.Sprintf("w%d", i), i+1, false))
	}

	got := Rank(in)

	require.Len(t, got.TopWords, TopWordsLimit)
	assert.Equal(t, got.NonStopwords[:TopWordsLimit], got.TopWords)
	assert.Equal(t, "w7", got.TopWords[0].Word)
}

func TestRankOnlyStopwords(t *testing.T) {
	got := Rank([]models.WordStat{ws("the", 4, true), ws("and", 4, true)})

	assert.Equal(t, 8, got.TotalWords)
	assert.Empty(t, got.TopWords)
	assert.Empty(t, got.NonStopwords)
	assert.Equal(t, []models.WordStat{ws("and", 4, true), ws("the", 4, true)}, got.Stopwords)
}

func TestRankLocaleAwareTieBreak(t *testing.T) {
	got := Rank([]models.WordStat{
		ws("cherry", 2, false),
		ws("Banana", 2, false),
		ws("apple", 2, false),
		ws("éclair", 2, false),
		ws("zebra", 2, false),
	})

	words := make([]string, 0, len(got.NonStopwords))
	for _, w := range got.NonStopwords {
		words = append(words, w.Word)
	}
	// Byte order would put "Banana" first and "éclair" last.
	assert.Equal(t, []string{"apple", "Banana", "cherry", "éclair", "zebra"}, words)
}

func TestRankCollationEqualWordsHaveFixedOrder(t *testing.T) {
	pairs := [][2]string{
		{"ab", "a\u00adb"},
		{"ab", "a\u200bb"},
		{"\u00c5", "A\u030a"},
	}
	for _, p := range pairs {
		forward := Rank([]models.WordStat{ws(p[0], 1, false), ws(p[1], 1, false)})
		backward := Rank([]models.WordStat{ws(p[1], 1, false), ws(p[0], 1, false)})
		assert.Equal(t, forward.NonStopwords, backward.NonStopwords, "%q vs %q", p[0], p[1])
	}
}

func TestRankDuplicatesKeepInputOrder(t *testing.T) {
	first := models.WordStat{Word: "echo", Count: 2}
	second := models.WordStat{Word: "echo", Count: 2}
	in := []models.WordStat{ws("zulu", 5, false), first, second}

	got := Rank(in)

	require.Len(t, got.NonStopwords, 3)
	assert.Equal(t, 9, got.TotalWords)
	assert.Equal(t, "zulu", got.NonStopwords[0].Word)
	assert.Equal(t, "echo", got.NonStopwords[1].Word)
	assert.Equal(t, "echo", got.NonStopwords[2].Word)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []models.WordStat{ws("b", 1, false), ws("a", 2, false), ws("the", 3, true)}
	snapshot := append([]models.WordStat(nil), in...)

	_ = Rank(in)

	assert.Equal(t, snapshot, in)
}

func TestNewFallsBackOnBadLocale(t *testing.T) {
	r := New("not a locale!!")
	got := r.Rank([]models.WordStat{ws("b", 1, false), ws("a", 1, false)})
	assert.Equal(t, "a", got.NonStopwords[0].Word)
}

// Invariants over random bags: totals, partitioning, ordering and prefix.
func TestRankInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	vocab := []string{"the", "a", "river", "River", "stone", "and", "light", "über", "zero", "ox"}

	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(15)
		in := make([]models.WordStat, 0, n)
		sum := 0
		stops := 0
		for i := 0; i < n; i++ {
			w := ws(vocab[rng.Intn(len(vocab))], rng.Intn(6)+1, rng.Intn(3) == 0)
			in = append(in, w)
			sum += w.Count
			if w.IsStopWord {
				stops++
			}
		}

		got := Rank(in)

		require.Equal(t, sum, got.TotalWords)
		require.Len(t, got.Stopwords, stops)
		require.Len(t, got.NonStopwords, n-stops)
		require.ElementsMatch(t, in, append(append([]models.WordStat{}, got.NonStopwords...), got.Stopwords...))

		for _, w := range got.Stopwords {
			require.True(t, w.IsStopWord)
		}
		for _, w := range got.NonStopwords {
			require.False(t, w.IsStopWord)
		}
		for i := 1; i < len(got.NonStopwords); i++ {
			require.GreaterOrEqual(t, got.NonStopwords[i-1].Count, got.NonStopwords[i].Count)
		}
		for i := 1; i < len(got.Stopwords); i++ {
			require.GreaterOrEqual(t, got.Stopwords[i-1].Count, got.Stopwords[i].Count)
		}

		require.LessOrEqual(t, len(got.TopWords), TopWordsLimit)
		require.Equal(t, got.NonStopwords[:len(got.TopWords)], got.TopWords)
		if len(got.NonStopwords) >= TopWordsLimit {
			require.Len(t, got.TopWords, TopWordsLimit)
		}
	}
}

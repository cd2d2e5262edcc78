package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyText(t *testing.T) {
	s := New()

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitShortText(t *testing.T) {
	s := New()
	text := "A short front page notice."

	candidates := s.Split(text)
	require.Len(t, candidates, 1)
	assert.Equal(t, 0, candidates[0].Index)
	assert.Equal(t, text, candidates[0].Text)
	assert.Equal(t, HashText(text), candidates[0].Hash)
}

func TestSplitExactWindow(t *testing.T) {
	s := New()
	text := strings.Repeat("a", 800)

	candidates := s.Split(text)
	require.Len(t, candidates, 1)
	assert.Len(t, candidates[0].Text, 800)
}

func TestSplitWithOverlap(t *testing.T) {
	s := New()
	text := strings.Repeat("x", 900)

	candidates := s.Split(text)
	require.Len(t, candidates, 2)

	// First window covers runes [0,800), second starts at 700
	assert.Equal(t, 0, candidates[0].Index)
	assert.Len(t, candidates[0].Text, 800)
	assert.Equal(t, 1, candidates[1].Index)
	assert.Len(t, candidates[1].Text, 200)
}

func TestSplitOverlapContent(t *testing.T) {
	s := NewWithPolicy(10, 3, "test_10_3")

	// 15 runes, step 7: windows [0,10) and [7,15)
	text := "abcdefghijklmno"
	candidates := s.Split(text)
	require.Len(t, candidates, 2)
	assert.Equal(t, "abcdefghij", candidates[0].Text)
	assert.Equal(t, "hijklmno", candidates[1].Text)
}

func TestSplitIsDeterministic(t *testing.T) {
	s := New()
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50)

	first := s.Split(text)
	second := s.Split(text)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}

func TestSplitMultibyteRunes(t *testing.T) {
	s := NewWithPolicy(5, 1, "test_5_1")

	// Windows are rune counts, not byte counts
	text := "äöüßé日本語テキスト"
	candidates := s.Split(text)
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		assert.LessOrEqual(t, len([]rune(c.Text)), 5)
	}

	var rebuilt []rune
	for i, c := range candidates {
		runes := []rune(c.Text)
		if i > 0 {
			runes = runes[1:] // drop the overlap rune
		}
		rebuilt = append(rebuilt, runes...)
	}
	assert.Equal(t, text, string(rebuilt))
}

func TestNewWithPolicyClamping(t *testing.T) {
	// Degenerate policies are clamped to something workable
	s := NewWithPolicy(0, -5, "weird")
	candidates := s.Split(strings.Repeat("y", 100))
	require.Len(t, candidates, 1)

	s = NewWithPolicy(10, 50, "overlap_too_big")
	candidates = s.Split(strings.Repeat("y", 30))
	require.NotEmpty(t, candidates)
	assert.Len(t, []rune(candidates[0].Text), 10)
}

func TestHashIgnoresWhitespaceLayout(t *testing.T) {
	a := HashText("liberty  and\nunion,\t now and forever")
	b := HashText("liberty and union, now and forever")
	c := HashText("liberty and union now and forever")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a\t b \n c  "))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "word", Normalize("word"))
}

func TestVersion(t *testing.T) {
	assert.Equal(t, DefaultVersion, New().Version())
	assert.Equal(t, "custom_v1", NewWithPolicy(100, 10, "custom_v1").Version())
}

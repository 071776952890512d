package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "johnsmith", NormalizeName("  John \t Smith\n"))
}

func TestMatchName(t *testing.T) {
	matchers := []string{NormalizeName("Smith"), ""}
	require.True(t, MatchName("John SMITH", matchers))
	require.False(t, MatchName("Mark Jones", matchers))
	require.False(t, MatchName("Mark Jones", nil))
}

func TestSimilarName(t *testing.T) {
	require.True(t, SimilarName("Jon Smith", "John Smith", 0.9))
	require.False(t, SimilarName("Mark Jones", "John Smith", 0.9))
	require.False(t, SimilarName("", "John Smith", 0.1))
}

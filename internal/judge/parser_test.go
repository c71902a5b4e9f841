package judge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVerdictStrictJSON(t *testing.T) {
	v, err := ParseVerdict(`{"reasoning":"x","score":3}`)
	require.NoError(t, err)
	require.Equal(t, 3, v.Score)
	require.Equal(t, "x", v.Reasoning)
}

func TestParseVerdictFencedJSON(t *testing.T) {
	v, err := ParseVerdict("```json\n{\"reasoning\":\"y\",\"score\":4}\n```")
	require.NoError(t, err)
	require.Equal(t, 4, v.Score)
	require.Equal(t, "y", v.Reasoning)
}

func TestParseVerdictTextPattern(t *testing.T) {
	v, err := ParseVerdict("Reasoning: ok\nScore: 2")
	require.NoError(t, err)
	require.Equal(t, 2, v.Score)
	require.Equal(t, "ok", v.Reasoning)
}

func TestParseVerdictOutOfRangeScoreFails(t *testing.T) {
	_, err := ParseVerdict("Score: 10")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseVerdictEmptyFails(t *testing.T) {
	_, err := ParseVerdict("")
	require.Error(t, err)
}

func TestParseVerdictNeverSucceedsOutsideOneToFour(t *testing.T) {
	for _, text := range []string{
		`{"reasoning":"x","score":0}`,
		`{"reasoning":"x","score":5}`,
		`{"reasoning":"x","score":2.5}`,
		"Score: 0",
		"Score: 5",
	} {
		_, err := ParseVerdict(text)
		require.Error(t, err, "text=%q", text)
	}
}

func TestParseVerdictAcceptsAlternateFieldNames(t *testing.T) {
	v, err := ParseVerdict(`{"evaluation":"good job","rating":3}`)
	require.NoError(t, err)
	require.Equal(t, 3, v.Score)
	require.Equal(t, "good job", v.Reasoning)
}

func TestParseVerdictEmptyReasoningFails(t *testing.T) {
	_, err := ParseVerdict(`{"reasoning":"","score":3}`)
	require.Error(t, err)
}

func TestParseVerdictExtractsJSONFromSurroundingProse(t *testing.T) {
	v, err := ParseVerdict(`Sure thing, here is my verdict: {"reasoning":"solid answer","score":4} hope that helps`)
	require.NoError(t, err)
	require.Equal(t, 4, v.Score)
}

func TestParseVerdictTruncatesLongReasoning(t *testing.T) {
	long := make([]byte, 3000)
	for i := range long {
		long[i] = 'a'
	}
	v, err := ParseVerdict(`{"reasoning":"` + string(long) + `","score":1}`)
	require.NoError(t, err)
	require.Len(t, v.Reasoning, maxReasoningLen)
}

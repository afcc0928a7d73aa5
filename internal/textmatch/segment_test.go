package textmatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentEmpty(t *testing.T) {
	assert.Empty(t, Segment(""))
	assert.Empty(t, Segment("   \n\t "))
}

func TestSegmentNoBoundaries(t *testing.T) {
	got := Segment("태초에 하나님이 천지를 창조하시니라")
	require.Len(t, got, 1)
	assert.Equal(t, "태초에 하나님이 천지를 창조하시니라", got[0])
}

func TestSegmentClauseMarkers(t *testing.T) {
	// "너희는" opens the second clause; the marker stays with its segment.
	got := Segment("나는 포도나무요 너희는 가지라")
	require.Len(t, got, 2)
	assert.Equal(t, "나는 포도나무요", got[0])
	assert.Equal(t, "너희는 가지라", got[1])
}

func TestSegmentSentencePunctuation(t *testing.T) {
	got := Segment("하나님이 세상을 이처럼 사랑하사, 독생자를 주셨으니. 영생을 얻게 하려 하심이라")
	require.Len(t, got, 3)
	assert.Equal(t, "하나님이 세상을 이처럼 사랑하사", got[0])
	assert.Equal(t, "독생자를 주셨으니", got[1])
	assert.Equal(t, "영생을 얻게 하려 하심이라", got[2])
}

func TestSegmentLeadingMarkerDoesNotSplit(t *testing.T) {
	// A marker at the start of a clause must not create an empty segment.
	got := Segment("그러나 여호와께서 함께 하셨더라")
	require.Len(t, got, 1)
	assert.Equal(t, "그러나 여호와께서 함께 하셨더라", got[0])
}

func TestSegmentRoundTrip(t *testing.T) {
	text := "나는 선한 목자라, 선한 목자는 양들을 위하여 목숨을 버리거니와"
	got := Segment(text)
	require.NotEmpty(t, got)

	joined := strings.Join(got, " ")
	// Separators are dropped, so compare normalized forms.
	assert.Equal(t, Normalize(text), Normalize(joined))
}

func TestSegmentNonEmptyAlwaysYieldsSegments(t *testing.T) {
	inputs := []string{"a", "한", "hello world", "끝.", "...," /* punctuation only */}
	for _, in := range inputs {
		got := Segment(in)
		if Normalize(in) == "" {
			continue
		}
		assert.NotEmpty(t, got, "Segment(%q)", in)
	}
}

package conversation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What is X?", "what-is-x"},
		{"  Steel   strength, & grain size! ", "steel-strength-grain-size"},
		{"already-dashed -- words", "already-dashed-words"},
		{"???", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
	assert.LessOrEqual(t, len(Slugify(strings.Repeat("long words ", 20))), 50)
}

func TestNewID_FallbackForEmptySlug(t *testing.T) {
	id := newID("???")
	assert.True(t, strings.HasPrefix(id, "conversation-"))
	assert.Len(t, id, len("conversation-")+6)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "short question", Title("  short\n question "))

	long := strings.Repeat("é", 80)
	title := Title(long)
	assert.Equal(t, MaxTitleLength, utf8.RuneCountInString(title))
	assert.True(t, strings.HasSuffix(title, "..."))
}

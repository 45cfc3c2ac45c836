package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookName(t *testing.T) {
	assert.Equal(t, "Genesis", BookName(1))
	assert.Equal(t, "Malachi", BookName(39))
	assert.Equal(t, "Matthew", BookName(40))
	assert.Equal(t, "Revelation", BookName(66))

	// Unknown ids get a placeholder, never an empty string
	assert.Equal(t, "Book 99", BookName(99))
}

func TestBookNumber_RoundTrip(t *testing.T) {
	for b := FirstBook; b <= LastBook; b++ {
		num, ok := BookNumber(BookName(b))
		require.True(t, ok, "book %d", b)
		assert.Equal(t, b, num)
	}

	_, ok := BookNumber("Gospel of Thomas")
	assert.False(t, ok)
}

func TestTestamentOf(t *testing.T) {
	assert.Equal(t, OldTestament, TestamentOf(1))
	assert.Equal(t, OldTestament, TestamentOf(39))
	assert.Equal(t, NewTestament, TestamentOf(40))
	assert.Equal(t, NewTestament, TestamentOf(66))
}

func TestParseTestament(t *testing.T) {
	got, ok := ParseTestament("NT")
	require.True(t, ok)
	assert.Equal(t, NewTestament, got)

	got, ok = ParseTestament("OT")
	require.True(t, ok)
	assert.Equal(t, OldTestament, got)

	_, ok = ParseTestament("nt")
	assert.False(t, ok)
	_, ok = ParseTestament("")
	assert.False(t, ok)
}

func TestTestamentBooks(t *testing.T) {
	ot := OldTestament.Books()
	nt := NewTestament.Books()

	require.Len(t, ot, 39)
	require.Len(t, nt, 27)
	assert.Equal(t, 1, ot[0])
	assert.Equal(t, 39, ot[len(ot)-1])
	assert.Equal(t, 40, nt[0])
	assert.Equal(t, 66, nt[len(nt)-1])

	assert.True(t, NewTestament.Contains(43))
	assert.False(t, NewTestament.Contains(19))
}

func TestRef(t *testing.T) {
	assert.Equal(t, "John 1:1", Ref(43, 1, 1))
	assert.Equal(t, "John 3", ChapterRef(43, 3))
}

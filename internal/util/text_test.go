package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	assert.Equal(t, "coping-with-pcos-1700000000000", Slugify("Coping, With PCOS!", now))
	assert.Equal(t, "hello-world-1700000000000", Slugify("  Hello   World  ", now))
	assert.Equal(t, "post-1700000000000", Slugify("!!!", now))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("  short  ", 150))

	long := strings.Repeat("a", 200)
	got := Excerpt(long, 150)
	assert.Len(t, got, 150)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("just a few words"))
	assert.Equal(t, 1, ReadingTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadingTime(strings.Repeat("word ", 201)))
}

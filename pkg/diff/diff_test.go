package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedIdenticalInputs(t *testing.T) {
	content := []byte("{\n  \"name\": \"zlib\"\n}\n")
	assert.Empty(t, Unified(content, content, "a", "b"))
}

func TestUnifiedShowsChange(t *testing.T) {
	want := []byte("{\n  \"name\": \"zlib\",\n  \"version\": \"1.0\"\n}\n")
	got := []byte("{\"name\": \"zlib\", \"version\": \"1.0\"}\n")

	out := Unified(want, got, "expected", "ports/zlib/vcpkg.json")
	assert.Contains(t, out, "--- expected")
	assert.Contains(t, out, "+++ ports/zlib/vcpkg.json")
	assert.Contains(t, out, "-")
	assert.Contains(t, out, "+")
}

func TestUnifiedTruncatesLongDiffs(t *testing.T) {
	want := []byte(strings.Repeat("a\n", 500))
	got := []byte(strings.Repeat("b\n", 500))

	out := Unified(want, got, "a", "b")
	assert.True(t, strings.HasSuffix(out, "...\n"))
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), 205)
}

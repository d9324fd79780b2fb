// Package diff renders unified diffs for formatting diagnostics.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Manifest diffs are small; anything past this is noise.
const maxLines = 200

// Unified compares want against got and renders a unified-style diff with
// the given labels. Returns an empty string when the inputs are identical.
func Unified(want, got []byte, wantLabel, gotLabel string) string {
	if bytes.Equal(want, got) {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(want), string(got), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", wantLabel)
	fmt.Fprintf(&buf, "+++ %s\n", gotLabel)

	emitted := 0
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			prefix = " "
		}
		for _, line := range splitLines(d.Text) {
			if emitted == maxLines {
				buf.WriteString("...\n")
				return buf.String()
			}
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
			emitted++
		}
	}
	return buf.String()
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

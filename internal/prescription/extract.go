// Package prescription turns recognised prescription text into medicine lines.
package prescription

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// linePattern accepts "<name> <quantity>" where the name is letters, spaces and hyphens.
// \p{Zs} covers the non-ASCII spaces OCR output carries, such as U+00A0.
var linePattern = regexp.MustCompile(`^([a-zA-Z\s\p{Zs}-]+)[\s\p{Zs}]+(\d+)$`)

type Line struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// Extract returns the lines of text that match linePattern with a positive
// quantity. Anything else is skipped.
func Extract(text string) []Line {
	out := []Line{}
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			logrus.WithFields(logrus.Fields{"line": i + 1, "text": line}).Debug("prescription line skipped")
			continue
		}
		name := strings.Join(strings.Fields(m[1]), " ")
		qty, err := strconv.ParseInt(m[2], 10, 64)
		if name == "" || err != nil || qty <= 0 {
			continue
		}
		out = append(out, Line{Name: name, Quantity: qty})
	}
	return out
}

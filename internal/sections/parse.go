// Package sections turns the raw text of an email analysis into display
// sections. Titles are wrapped in a pair of "**" markers and list lines
// start with a "•" glyph; anything else is prose.
package sections

import (
	"strings"

	"github.com/nhle/taskpane/internal/model"
)

const (
	// TitleMarker wraps a section title on both sides.
	TitleMarker = "**"

	// BulletGlyph starts a list line.
	BulletGlyph = "•"
)

// Parse splits raw into sections in their original order. It never fails:
// text with no title markers, or with an unpaired marker, comes back as a
// single untitled section. Whitespace-only input yields no sections.
func Parse(raw string) []model.DisplaySection {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, TitleMarker)

	// An even number of parts means an odd number of markers.
	if len(parts) == 1 || len(parts)%2 == 0 {
		return []model.DisplaySection{buildSection("", raw)}
	}

	var out []model.DisplaySection

	// parts[0] is text before the first title; after that titles sit at
	// odd indexes and each is followed by its body.
	if strings.TrimSpace(parts[0]) != "" {
		out = append(out, buildSection("", parts[0]))
	}

	for i := 1; i < len(parts); i += 2 {
		title := normalizeTitle(parts[i])
		body := parts[i+1]
		if title == "" {
			if strings.TrimSpace(body) == "" {
				continue
			}
			if len(out) > 0 {
				mergeInto(&out[len(out)-1], body)
				continue
			}
			title, body = firstLineTitle(body)
		}
		out = append(out, buildSection(title, body))
	}

	return out
}

// mergeInto appends the lines of body to sec. A blank title pair
// continues the section before it.
func mergeInto(sec *model.DisplaySection, body string) {
	extra := buildSection(sec.Title, body)
	sec.Items = append(sec.Items, extra.Items...)
	sec.Paragraphs = append(sec.Paragraphs, extra.Paragraphs...)
	sec.IsList = len(sec.Items) > 0
}

// firstLineTitle promotes the first non-blank line of body to a title.
func firstLineTitle(body string) (string, string) {
	body = strings.TrimLeft(body, " \t\r\n")
	first, rest, _ := strings.Cut(body, "\n")
	first = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(first), BulletGlyph))
	return normalizeTitle(first), rest
}

// normalizeTitle folds a title that spans lines into one line.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// buildSection sorts body lines into list items and paragraphs.
func buildSection(title, body string) model.DisplaySection {
	sec := model.DisplaySection{Title: title}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, BulletGlyph) {
			sec.Items = append(sec.Items, strings.TrimSpace(strings.TrimPrefix(line, BulletGlyph)))
			continue
		}
		sec.Paragraphs = append(sec.Paragraphs, line)
	}

	sec.IsList = len(sec.Items) > 0
	return sec
}

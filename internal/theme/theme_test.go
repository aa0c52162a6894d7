package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/taskpane/internal/sections"
)

func TestSectionTitleStyle(t *testing.T) {
	assert.Equal(t, ColorGreen, SectionTitleStyle(sections.Classify("Required Actions")).GetForeground())
	assert.Equal(t, ColorBlue, SectionTitleStyle(sections.CategoryContext).GetForeground())
	assert.Equal(t, ColorWhite, SectionTitleStyle(sections.Classify("Misc")).GetForeground())
}

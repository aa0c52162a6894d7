package sections

import "strings"

// Category groups section titles for presentation only. Parse never
// consults it.
type Category string

const (
	CategoryContext     Category = "context"
	CategoryKeyPoints   Category = "key points"
	CategoryFigures     Category = "figures"
	CategoryActions     Category = "actions"
	CategoryAttachments Category = "attachments"
	CategoryDefault     Category = "default"
)

// categoryOrder is checked first to last; the first keyword found in the
// title wins.
var categoryOrder = []Category{
	CategoryContext,
	CategoryKeyPoints,
	CategoryFigures,
	CategoryActions,
	CategoryAttachments,
}

// Classify maps a section title to a Category by case-insensitive
// substring match.
func Classify(title string) Category {
	lower := strings.ToLower(title)
	for _, c := range categoryOrder {
		if strings.Contains(lower, string(c)) {
			return c
		}
	}
	return CategoryDefault
}

// Package sanitize holds the bluemonday policies applied to user-supplied
// text before it is persisted. Services call it on every inbound free-text
// field; handlers and storage never sanitize on their own.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var (
	// strict drops every tag and attribute.
	strict = bluemonday.StrictPolicy()

	// ugc keeps a small safe formatting subset: paragraphs, emphasis,
	// links, lists.
	ugc = bluemonday.UGCPolicy()
)

// Text reduces input to plain text. Applied to single-line fields: user and
// organizer names, event names, venues, cities.
func Text(input string) string {
	return strict.Sanitize(input)
}

// HTML keeps safe formatting while stripping scripts, event handlers and
// style attributes. Applied to event descriptions, review comments and
// organizer bios.
func HTML(input string) string {
	return ugc.Sanitize(input)
}

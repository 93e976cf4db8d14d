package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// policyEntities reverts the escapes the strict policy adds to plain text.
// &lt; and &gt; stay escaped so no tag can come back out.
var policyEntities = strings.NewReplacer("&amp;", "&", "&#34;", `"`, "&#39;", "'")

// CleanText strips every HTML tag from free text and trims it. Entities are
// decoded before sanitizing so encoded markup is stripped too.
func CleanText(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(policyEntities.Replace(strictPolicy.Sanitize(html.UnescapeString(s))))
}

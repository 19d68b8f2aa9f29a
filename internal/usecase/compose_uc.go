package usecase

import "strings"

// MessagePayload carries the optional parts of an outgoing notification.
type MessagePayload struct {
	Title   string
	Message string
	Code    string
	URL     string
}

// codeNormalizer expands the literal two-character sequence `\n` into a real
// newline and folds curly/smart double quotes into plain ones, so shell
// escaped payloads render as their authors intended.
var codeNormalizer = strings.NewReplacer(
	`\n`, "\n",
	"“", `"`,
	"”", `"`,
	"„", `"`,
)

// ComposeMessage joins the present parts with single newlines: bold title,
// body, fenced code block, then the URL on its own line. Absent parts emit
// nothing, including their separator.
func ComposeMessage(p MessagePayload) string {
	parts := make([]string, 0, 4)
	if p.Title != "" {
		parts = append(parts, "*"+p.Title+"*")
	}
	if p.Message != "" {
		parts = append(parts, p.Message)
	}
	if p.Code != "" {
		parts = append(parts, "```\n"+codeNormalizer.Replace(p.Code)+"\n```")
	}
	if p.URL != "" {
		parts = append(parts, p.URL)
	}
	return strings.Join(parts, "\n")
}

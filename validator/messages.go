package validator

import "strings"

// Reason identifies why a validator returned false.
type Reason string

const (
	NoRecordFound Reason = "noRecordFound"
	RecordFound   Reason = "recordFound"
)

// ValuePlaceholder is replaced with the rendered candidate in templates.
const ValuePlaceholder = "%value%"

var defaultTemplates = map[Reason]string{
	NoRecordFound: "No record found matching %value%",
	RecordFound:   "A record matching %value% was found",
}

// DefaultMessageTemplates returns a copy of the built-in templates.
func DefaultMessageTemplates() map[Reason]string {
	return copyMessages(defaultTemplates)
}

func mergeTemplates(overrides map[Reason]string) map[Reason]string {
	out := copyMessages(defaultTemplates)
	for reason, tpl := range overrides {
		if tpl != "" {
			out[reason] = tpl
		}
	}
	return out
}

func renderMessage(template string, c Candidate) string {
	return strings.ReplaceAll(template, ValuePlaceholder, c.String())
}

func copyMessages(in map[Reason]string) map[Reason]string {
	out := make(map[Reason]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package agent

import "strings"

// SystemPrompt renders the role configuration as the model's system
// instruction, in labeled sections.
func SystemPrompt(r Role) string {
	var b strings.Builder
	b.WriteString("[ROLE]\n")
	b.WriteString(r.Title)
	b.WriteString("\n\n[GOAL]\n")
	b.WriteString(r.Goal)
	b.WriteString("\n\n[BACKSTORY]\n")
	b.WriteString(r.Backstory)
	b.WriteString("\n\n[LANGUAGE]\n")
	b.WriteString(OutputLanguage)
	b.WriteString("\n")
	return b.String()
}

// TaskPrompt renders the task instruction plus its upstream context.
func TaskPrompt(t Task) string {
	var b strings.Builder
	b.WriteString("[TASK]\n")
	b.WriteString(t.Description)
	b.WriteString("\n")
	if len(t.Context) > 0 {
		b.WriteString("\n[CONTEXT]\n")
		for i, c := range t.Context {
			if i > 0 {
				b.WriteString("\n---\n")
			}
			b.WriteString(c)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n[EXPECTED_OUTPUT]\n")
	b.WriteString(t.ExpectedOutput)
	b.WriteString("\n")
	return b.String()
}

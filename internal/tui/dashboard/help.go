package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

const defaultHelpWidth = 72

func helpMarkdown(k KeyMap) string {
	var b strings.Builder
	b.WriteString("# yamori\n\n")
	b.WriteString("Runs every declared test, compares its output with the expected value and keeps a short history of past runs.\n\n")
	b.WriteString("## Keys\n\n| Key | Action |\n|---|---|\n")
	for _, binding := range k.helpRows() {
		h := binding.Help()
		fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
	}
	b.WriteString("\n## Statuses\n\n")
	b.WriteString("- **PASS** output matched\n")
	b.WriteString("- **FAIL** output differed, see the Diff tab\n")
	b.WriteString("- **TIMEOUT** killed after its timeout\n")
	b.WriteString("- **BUILD** a pre-build command failed\n")
	b.WriteString("- **ERROR** the command could not be run\n")
	b.WriteString("\n## Build mode\n\n")
	b.WriteString("`b` switches between debug and release for the next run. `R` runs once in release mode. ")
	b.WriteString("Tests with their own build section keep it.\n")
	return b.String()
}

// renderHelp renders the help markdown for the current width, caching the result.
func (m *Model) renderHelp() string {
	width := m.width - 8
	if width < 20 {
		width = defaultHelpWidth
	}
	if m.helpCache != "" && m.helpCacheWidth == width {
		return m.helpCache
	}

	md := helpMarkdown(m.keys)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.log.Warn("help renderer unavailable", "error", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		m.log.Warn("help render failed", "error", err)
		return md
	}
	m.helpCache = out
	m.helpCacheWidth = width
	return out
}

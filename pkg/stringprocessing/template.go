package stringprocessing

import (
	"strconv"
	"strings"
)

const (
	blockOpen  = "{{#if "
	blockElse  = "{{else}}"
	blockClose = "{{/if}}"
	tagClose   = "}}"
)

// ExpandConditionals evaluates `{{#if name}}then{{else}}otherwise{{/if}}`
// blocks against vars. The else branch is optional. A block whose condition
// is not in vars is left untouched, and an unterminated block is emitted
// verbatim together with the rest of the input. Blocks do not nest.
func ExpandConditionals(template string, vars map[string]string) string {
	if !strings.Contains(template, blockOpen) {
		return template
	}

	var b strings.Builder
	rest := template
	for {
		start := strings.Index(rest, blockOpen)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		block := rest[start:]

		nameEnd := strings.Index(block, tagClose)
		if nameEnd < 0 {
			b.WriteString(block)
			break
		}
		body := block[nameEnd+len(tagClose):]
		end := strings.Index(body, blockClose)
		if end < 0 {
			b.WriteString(block)
			break
		}
		consumed := nameEnd + len(tagClose) + end + len(blockClose)

		name := strings.TrimSpace(block[len(blockOpen):nameEnd])
		value, known := vars[name]
		if !known {
			b.WriteString(block[:consumed])
			rest = block[consumed:]
			continue
		}

		then, otherwise := body[:end], ""
		if i := strings.Index(then, blockElse); i >= 0 {
			then, otherwise = then[:i], then[i+len(blockElse):]
		}
		if IsFalsy(value) {
			b.WriteString(otherwise)
		} else {
			b.WriteString(then)
		}
		rest = block[consumed:]
	}
	return b.String()
}

// ExpandReleaseTemplate expands `{{#if release}}` and `{{#if build.release}}`
// blocks for the given build mode.
func ExpandReleaseTemplate(template string, release bool) string {
	v := strconv.FormatBool(release)
	return ExpandConditionals(template, map[string]string{
		"release":       v,
		"build.release": v,
	})
}

// ExpandReleaseTemplates applies ExpandReleaseTemplate to each element and
// returns a new slice.
func ExpandReleaseTemplates(templates []string, release bool) []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = ExpandReleaseTemplate(t, release)
	}
	return out
}

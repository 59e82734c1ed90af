package server

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/hlasm-lsp/analysis"
	"github.com/lookbusy1344/hlasm-lsp/lsp"
)

// completionItems builds the candidate set, prefix-filtered case-insensitively:
// the fixed instruction set, catalogued macros, bare registers, and — when the
// document has been analysed — declared registers and labels.
func (h *Handler) completionItems(prefix string, st *analysis.State) []lsp.CompletionItem {
	upper := strings.ToUpper(prefix)
	match := func(label string) bool {
		return upper == "" || strings.HasPrefix(strings.ToUpper(label), upper)
	}

	var items []lsp.CompletionItem

	for _, op := range analysis.Instructions {
		if match(op) {
			items = append(items, lsp.CompletionItem{
				Label:  op,
				Kind:   lsp.CompletionKindKeyword,
				Detail: "HLASM instruction",
			})
		}
	}

	if h.catalog != nil {
		for _, m := range h.catalog.Macros() {
			if !match(m.Name) {
				continue
			}
			detail := m.Description
			if detail == "" {
				detail = "Macro"
			}
			items = append(items, lsp.CompletionItem{
				Label:  m.Name,
				Kind:   lsp.CompletionKindFunction,
				Detail: detail,
			})
		}
	}

	for n := 0; n < 16; n++ {
		label := fmt.Sprintf("R%d", n)
		if match(label) {
			items = append(items, lsp.CompletionItem{
				Label:  label,
				Kind:   lsp.CompletionKindVariable,
				Detail: fmt.Sprintf("Register %d", n),
			})
		}
	}

	if st != nil {
		for _, name := range sortedKeys(st.Regs) {
			if !match(name) {
				continue
			}
			reg := st.Regs[name]
			items = append(items, lsp.CompletionItem{
				Label:  name,
				Kind:   lsp.CompletionKindVariable,
				Detail: fmt.Sprintf("R%d (%s)", reg.Number, reg.Type),
			})
		}
		for _, name := range sortedKeys(st.Labels) {
			if !match(name) {
				continue
			}
			items = append(items, lsp.CompletionItem{
				Label:  name,
				Kind:   lsp.CompletionKindValue,
				Detail: fmt.Sprintf("Label (line %d)", st.Labels[name]+1),
			})
		}
	}

	return items
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// prefixAt returns the partial word immediately before the cursor
func prefixAt(text string, line, char int) string {
	s, ok := documentLine(text, line)
	if !ok {
		return ""
	}
	if char > len(s) {
		char = len(s)
	}
	start := char
	for start > 0 && isWordChar(s[start-1]) {
		start--
	}
	return s[start:char]
}

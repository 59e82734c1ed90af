package server

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/hlasm-lsp/analysis"
	"github.com/lookbusy1344/hlasm-lsp/catalog"
)

// registerRoles is the conventional role of each general register, shown when
// hovering a bare R0-R15
var registerRoles = [16]string{
	"Work register / parameter passing",
	"Parameter pointer / work register",
	"Work register",
	"Work register",
	"Work register",
	"Work register",
	"Work register",
	"Work register",
	"Work register",
	"Work register",
	"Work register",
	"Work register",
	"Base register (conventional)",
	"Save area pointer",
	"Return address",
	"Entry point / return code",
}

// hoverMarkdown resolves the word under the cursor, in precedence order:
// EQUREG symbol, bare register, catalogued macro, control-block field.
// An empty result means no hover.
func (h *Handler) hoverMarkdown(word string, st *analysis.State) string {
	upper := strings.ToUpper(word)

	if st != nil {
		if reg, ok := st.Regs[upper]; ok {
			return fmt.Sprintf("## %s (EQUREG)\n\nRegister R%d, type: %s\n",
				reg.Name, reg.Number, reg.Type)
		}
	}

	if n, ok := analysis.RegisterNumber(word); ok {
		return fmt.Sprintf("## Register R%d\n\n```\nR%d — %s\n```\n",
			n, n, registerRoles[n])
	}

	if h.catalog != nil {
		if m, ok := h.catalog.Macro(upper); ok {
			return macroMarkdown(m)
		}
		if f, ok := h.catalog.Field(upper); ok {
			return fieldMarkdown(f)
		}
	}

	return ""
}

func macroMarkdown(m catalog.Macro) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", m.Name)
	if m.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", m.Description)
	}
	if len(m.Parameters) > 0 {
		b.WriteString("\n**Parameters:**\n")
		for _, p := range m.Parameters {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	if m.Category != "" {
		fmt.Fprintf(&b, "\n*Category: %s*\n", m.Category)
	}
	if m.Source != "" {
		fmt.Fprintf(&b, "\n*Source: %s*\n", m.Source)
	}
	return b.String()
}

func fieldMarkdown(f catalog.Field) string {
	var b strings.Builder
	if f.ControlBlock != "" {
		fmt.Fprintf(&b, "## %s (%s)\n", f.Name, f.ControlBlock)
	} else {
		fmt.Fprintf(&b, "## %s\n", f.Name)
	}
	if f.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", f.Description)
	}

	type row struct{ name, value string }
	rows := []row{
		{"Control Block", f.ControlBlock},
		{"Field Type", f.FieldType},
		{"Storage Type", f.StorageType},
		{"Length", lengthString(f.Length)},
		{"Parent", f.Parent},
	}
	wrote := false
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		if !wrote {
			b.WriteString("\n| Property | Value |\n|---|---|\n")
			wrote = true
		}
		fmt.Fprintf(&b, "| %s | %s |\n", r.name, r.value)
	}
	return b.String()
}

func lengthString(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

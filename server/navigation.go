package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lookbusy1344/hlasm-lsp/analysis"
	"github.com/lookbusy1344/hlasm-lsp/lsp"
	"github.com/lookbusy1344/hlasm-lsp/parser"
)

func isWordChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') ||
		(ch >= '0' && ch <= '9') || ch == '@' || ch == '#' || ch == '$' || ch == '_'
}

// documentLine selects one line of the document, CR stripped
func documentLine(text string, line int) (string, bool) {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[line], "\r"), true
}

// wordAt returns the identifier under the cursor, or "" when the position
// falls outside the line or on a non-identifier character
func wordAt(text string, line, char int) string {
	s, ok := documentLine(text, line)
	if !ok {
		return ""
	}
	if char < 0 || char >= len(s) || !isWordChar(s[char]) {
		return ""
	}
	start := char
	for start > 0 && isWordChar(s[start-1]) {
		start--
	}
	end := char
	for end < len(s) && isWordChar(s[end]) {
		end++
	}
	return s[start:end]
}

// findDefinition resolves the word at the position: labels first, then EQUREG
// register declarations, then catalogued macro source files
func (h *Handler) findDefinition(uri string, pos lsp.Position) *lsp.Location {
	text, ok := h.documents[uri]
	if !ok {
		return nil
	}
	word := wordAt(text, pos.Line, pos.Character)
	if word == "" {
		return nil
	}
	upper := strings.ToUpper(word)
	st := h.states[uri]

	if st != nil {
		if line, ok := st.Labels[upper]; ok {
			return &lsp.Location{URI: uri, Range: lineRange(line, len(word))}
		}
		if reg, ok := st.Regs[upper]; ok {
			// An EQUREG statement carries the register name as its label, so
			// this finds the declaration line
			for _, stmt := range st.Stmts {
				if strings.ToUpper(stmt.Label) == reg.Name {
					return &lsp.Location{URI: uri, Range: lineRange(stmt.Line, len(reg.Name))}
				}
			}
		}
	}

	if h.catalog != nil {
		if _, ok := h.catalog.Macro(upper); ok {
			if path := h.findMacroFile(upper); path != "" {
				return &lsp.Location{URI: "file://" + path, Range: lsp.Range{}}
			}
		}
	}

	return nil
}

func lineRange(line, length int) lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: line, Character: 0},
		End:   lsp.Position{Line: line, Character: length},
	}
}

// findMacroFile locates <dir>/<NAME>.mac in the configured macro directories,
// first directory wins; at most maxMacroDirs are consulted
func (h *Handler) findMacroFile(name string) string {
	dirs := h.macroDirs
	if len(dirs) > maxMacroDirs {
		dirs = dirs[:maxMacroDirs]
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, name+".mac")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findReferences collects label declarations and symbol operand uses of the
// word at the position, in document order
func (h *Handler) findReferences(uri string, pos lsp.Position, includeDeclaration bool) []lsp.Location {
	text, ok := h.documents[uri]
	if !ok {
		return nil
	}
	st := h.states[uri]
	if st == nil {
		return nil
	}
	word := wordAt(text, pos.Line, pos.Character)
	if word == "" {
		return nil
	}
	target := strings.ToUpper(word)

	var locs []lsp.Location
	for _, stmt := range st.Stmts {
		if includeDeclaration && strings.ToUpper(stmt.Label) == target {
			locs = append(locs, lsp.Location{URI: uri, Range: lineRange(stmt.Line, len(target))})
		}
		for _, op := range stmt.Operands {
			for _, sym := range operandSymbols(op) {
				if sym != target {
					continue
				}
				start, end := analysis.LocateSymbol(stmt.Raw, target)
				locs = append(locs, lsp.Location{URI: uri, Range: lsp.Range{
					Start: lsp.Position{Line: stmt.Line, Character: start},
					End:   lsp.Position{Line: stmt.Line, Character: end},
				}})
			}
		}
	}
	return locs
}

// operandSymbols lists the symbol names an operand mentions, descending into
// address forms
func operandSymbols(op parser.Operand) []string {
	switch op.Kind {
	case parser.OperandSym:
		return []string{op.Sym}
	case parser.OperandAddr:
		var syms []string
		if op.Addr.Disp.Kind == parser.OperandSym {
			syms = append(syms, op.Addr.Disp.Sym)
		}
		syms = append(syms, op.Addr.Base)
		if op.Addr.Index != "" {
			syms = append(syms, op.Addr.Index)
		}
		return syms
	}
	return nil
}

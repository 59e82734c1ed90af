package analysis

import (
	"github.com/lookbusy1344/hlasm-lsp/parser"
)

// State is the complete analysis snapshot for one document version. It is
// produced atomically and replaced as a whole on each reanalysis; the
// diagnostics were computed from the statements and register table it holds.
type State struct {
	Stmts  []*parser.Statement
	Regs   map[string]Register
	Labels map[string]int
	Diags  []Diagnostic
}

// Analyze runs the symbol scans and the diagnostic pass over the statements
func Analyze(stmts []*parser.Statement) *State {
	regs := ScanRegisters(stmts)
	return &State{
		Stmts:  stmts,
		Regs:   regs,
		Labels: ScanLabels(stmts),
		Diags:  Run(regs, stmts),
	}
}

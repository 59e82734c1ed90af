package analysis

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/hlasm-lsp/parser"
)

// Severity mirrors the LSP DiagnosticSeverity values
type Severity int

const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
	SeverityInfo    Severity = 3
)

// Diagnostic is one finding within a document
type Diagnostic struct {
	Line     int
	ColStart int // byte offset within the raw source line
	ColEnd   int
	Severity Severity
	Message  string
}

// statementWidth bounds the column search; columns 72+ are comment text
const statementWidth = 71

// Run checks every statement's register operands against the opcode class and
// emits warnings in statement order
func Run(regs map[string]Register, stmts []*parser.Statement) []Diagnostic {
	var diags []Diagnostic
	for _, st := range stmts {
		if st.Opcode == "" || st.IsComment() {
			continue
		}
		isFloat := IsFloatOp(st.Opcode)
		isAddr := IsAddressOp(st.Opcode)
		if !isFloat && !isAddr {
			continue
		}
		for _, op := range st.Operands {
			if op.Kind != parser.OperandSym {
				continue
			}
			reg, ok := regs[strings.ToUpper(op.Sym)]
			if !ok {
				continue
			}
			if isFloat && reg.Type != Float {
				diags = append(diags, warn(st, reg.Name, fmt.Sprintf(
					"%s is a %s register but %s requires a float register",
					reg.Name, reg.Type, st.Opcode)))
			} else if isAddr && reg.Type == Float {
				diags = append(diags, warn(st, reg.Name, fmt.Sprintf(
					"%s is a float register but %s expects general/address",
					reg.Name, st.Opcode)))
			}
			if isFloat && reg.Type == Float && reg.Number%2 == 1 {
				diags = append(diags, warn(st, reg.Name, fmt.Sprintf(
					"float register %s (R%d) has odd number; even registers expected",
					reg.Name, reg.Number)))
			}
		}
	}
	return diags
}

func warn(st *parser.Statement, name, message string) Diagnostic {
	start, end := LocateSymbol(st.Raw, name)
	return Diagnostic{
		Line:     st.Line,
		ColStart: start,
		ColEnd:   end,
		Severity: SeverityWarning,
		Message:  message,
	}
}

// LocateSymbol finds the first case-insensitive occurrence of name within the
// significant columns of the raw line. This may hit identical text in the
// label field; that collision is tolerated. When the name is not found the
// range falls back to the opcode column.
func LocateSymbol(raw, name string) (int, int) {
	text := raw
	if len(text) > statementWidth {
		text = text[:statementWidth]
	}
	idx := strings.Index(strings.ToUpper(text), strings.ToUpper(name))
	if idx < 0 {
		return 9, 9 + len(name)
	}
	return idx, idx + len(name)
}

package analysis

import (
	"strconv"
	"strings"

	"github.com/lookbusy1344/hlasm-lsp/parser"
)

// RegisterType classifies a register declared through EQUREG
type RegisterType int

const (
	General RegisterType = iota
	Address
	Float
	Control
)

func (t RegisterType) String() string {
	switch t {
	case Address:
		return "address"
	case Float:
		return "float"
	case Control:
		return "control"
	default:
		return "general"
	}
}

// Register describes a register declared by name via EQUREG
type Register struct {
	Name   string // uppercased symbol
	Number int    // 0-15
	Type   RegisterType
}

// RegisterNumber parses an R0-R15 register name, case-insensitively
func RegisterNumber(name string) (int, bool) {
	if len(name) < 2 || (name[0] != 'R' && name[0] != 'r') {
		return 0, false
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 || n > 15 {
		return 0, false
	}
	return n, true
}

// ScanRegisters builds the register table from EQUREG statements. A later
// EQUREG for the same label overwrites the earlier entry.
func ScanRegisters(stmts []*parser.Statement) map[string]Register {
	regs := make(map[string]Register)
	for _, st := range stmts {
		if st.Opcode != "EQUREG" || st.Label == "" || len(st.Operands) == 0 {
			continue
		}
		num, ok := operandRegisterNumber(st.Operands[0])
		if !ok {
			continue
		}
		rtype := General // default when the type operand is absent or unknown
		if len(st.Operands) > 1 {
			if t, ok := registerTypeOf(st.Operands[1]); ok {
				rtype = t
			}
		}
		name := strings.ToUpper(st.Label)
		regs[name] = Register{Name: name, Number: num, Type: rtype}
	}
	return regs
}

// operandRegisterNumber resolves the first EQUREG operand to a register number
func operandRegisterNumber(op parser.Operand) (int, bool) {
	switch op.Kind {
	case parser.OperandReg:
		return op.Reg, true
	case parser.OperandSym:
		return RegisterNumber(op.Sym)
	}
	return 0, false
}

// registerTypeOf interprets the EQUREG type operand: G, A, F or C
func registerTypeOf(op parser.Operand) (RegisterType, bool) {
	var text string
	switch op.Kind {
	case parser.OperandSym:
		text = op.Sym
	case parser.OperandRaw:
		text = op.Raw
	default:
		return General, false
	}
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "G":
		return General, true
	case "A":
		return Address, true
	case "F":
		return Float, true
	case "C":
		return Control, true
	}
	return General, false
}

// ScanLabels builds the label table. Comment lines carry no label; a duplicate
// label keeps the last definition.
func ScanLabels(stmts []*parser.Statement) map[string]int {
	labels := make(map[string]int)
	for _, st := range stmts {
		if st.Label == "" || st.IsComment() {
			continue
		}
		labels[strings.ToUpper(st.Label)] = st.Line
	}
	return labels
}

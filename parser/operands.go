package parser

import (
	"strconv"
	"strings"
)

// OperandKind discriminates the Operand variants
type OperandKind int

const (
	OperandReg  OperandKind = iota // R0-R15
	OperandSym                     // plain symbol
	OperandImm                     // numeric literal
	OperandStr                     // string literal
	OperandAddr                    // d(b) or d(x,b)
	OperandRaw                     // unrecognized shape, original text
)

// Operand is one comma-separated entry of the operand field in structural form
type Operand struct {
	Kind OperandKind
	Reg  int    // OperandReg: register number
	Sym  string // OperandSym: uppercased name
	Imm  int64  // OperandImm
	Str  string // OperandStr
	Raw  string // OperandRaw
	Addr *Addr  // OperandAddr
}

// Addr is the base-displacement address form d(b) or d(x,b)
type Addr struct {
	Disp  Operand // OperandSym or OperandImm
	Base  string
	Index string // empty when absent
}

// registerNumber parses an R0-R15 register reference using the original-case
// text, so both R3 and r3 qualify
func registerNumber(text string) (int, bool) {
	if len(text) < 2 || (text[0] != 'R' && text[0] != 'r') {
		return 0, false
	}
	n, err := strconv.Atoi(text[1:])
	if err != nil || n < 0 || n > 15 {
		return 0, false
	}
	return n, true
}

// ParseOperand classifies a single operand by the shape of its token list
func ParseOperand(text string) Operand {
	trimmed := strings.TrimSpace(text)
	tokens := NewLexer(trimmed).Tokenize()

	// Drop the trailing EOF for shape matching
	if n := len(tokens); n > 0 && tokens[n-1].Type == TokenEOF {
		tokens = tokens[:n-1]
	}

	switch len(tokens) {
	case 1:
		switch tokens[0].Type {
		case TokenIdent:
			if n, ok := registerNumber(trimmed); ok {
				return Operand{Kind: OperandReg, Reg: n}
			}
			return Operand{Kind: OperandSym, Sym: tokens[0].Literal}
		case TokenNumber:
			return Operand{Kind: OperandImm, Imm: tokens[0].Value}
		case TokenString:
			return Operand{Kind: OperandStr, Str: tokens[0].Literal}
		}

	case 4:
		// d(b)
		if (tokens[0].Type == TokenIdent || tokens[0].Type == TokenNumber) &&
			tokens[1].Type == TokenLParen &&
			tokens[2].Type == TokenIdent &&
			tokens[3].Type == TokenRParen {
			return Operand{Kind: OperandAddr, Addr: &Addr{
				Disp: dispOperand(tokens[0]),
				Base: tokens[2].Literal,
			}}
		}

	case 5:
		// d(,b) with the index omitted
		if tokens[0].Type == TokenNumber &&
			tokens[1].Type == TokenLParen &&
			tokens[2].Type == TokenComma &&
			tokens[3].Type == TokenIdent &&
			tokens[4].Type == TokenRParen {
			return Operand{Kind: OperandAddr, Addr: &Addr{
				Disp: dispOperand(tokens[0]),
				Base: tokens[3].Literal,
			}}
		}

	case 6:
		// d(x,b)
		if (tokens[0].Type == TokenIdent || tokens[0].Type == TokenNumber) &&
			tokens[1].Type == TokenLParen &&
			tokens[2].Type == TokenIdent &&
			tokens[3].Type == TokenComma &&
			tokens[4].Type == TokenIdent &&
			tokens[5].Type == TokenRParen {
			return Operand{Kind: OperandAddr, Addr: &Addr{
				Disp:  dispOperand(tokens[0]),
				Base:  tokens[4].Literal,
				Index: tokens[2].Literal,
			}}
		}
	}

	return Operand{Kind: OperandRaw, Raw: trimmed}
}

// dispOperand converts a displacement token into its Sym or Imm operand form
func dispOperand(tok Token) Operand {
	if tok.Type == TokenNumber {
		return Operand{Kind: OperandImm, Imm: tok.Value}
	}
	return Operand{Kind: OperandSym, Sym: tok.Literal}
}

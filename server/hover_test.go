package server

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lookbusy1344/hlasm-lsp/analysis"
	"github.com/lookbusy1344/hlasm-lsp/catalog"
	"github.com/lookbusy1344/hlasm-lsp/lsp"
	"github.com/lookbusy1344/hlasm-lsp/parser"
)

func testHandler(t *testing.T, catalogJSON string) *Handler {
	t.Helper()
	h := New(lsp.NewStdioConn(strings.NewReader(""), io.Discard), "", nil)
	path := filepath.Join(t.TempDir(), "macros.json")
	if err := os.WriteFile(path, []byte(catalogJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	h.catalog = catalog.Load(path)
	return h
}

func stateOf(text string) *analysis.State {
	return analysis.Analyze(parser.ParseDocument(text))
}

func TestHover_BareRegister(t *testing.T) {
	h := testHandler(t, `{}`)

	md := h.hoverMarkdown("R12", nil)
	if !strings.HasPrefix(md, "## Register R12") {
		t.Errorf("hover must start with the register heading, got %q", md)
	}
	if !strings.Contains(md, "R12 — Base register (conventional)") {
		t.Errorf("hover missing the convention line: %q", md)
	}
	if !strings.Contains(md, "```") {
		t.Errorf("convention line must be fenced: %q", md)
	}
}

func TestHover_RegisterRoles(t *testing.T) {
	h := testHandler(t, `{}`)

	tests := []struct {
		word string
		role string
	}{
		{"R0", "Work register / parameter passing"},
		{"R1", "Parameter pointer / work register"},
		{"R7", "Work register"},
		{"R13", "Save area pointer"},
		{"R14", "Return address"},
		{"R15", "Entry point / return code"},
	}
	for _, tt := range tests {
		md := h.hoverMarkdown(tt.word, nil)
		if !strings.Contains(md, tt.role) {
			t.Errorf("hover on %s missing %q: %q", tt.word, tt.role, md)
		}
	}
}

func TestHover_EquregSymbol(t *testing.T) {
	h := testHandler(t, `{}`)
	st := stateOf("WORK     EQUREG R3,G")

	md := h.hoverMarkdown("WORK", st)
	if !strings.HasPrefix(md, "## WORK (EQUREG)") {
		t.Errorf("unexpected heading: %q", md)
	}
	if !strings.Contains(md, "Register R3, type: general") {
		t.Errorf("missing register line: %q", md)
	}
}

func TestHover_EquregBeatsMacroAndRegister(t *testing.T) {
	// A symbol that is also a bare register name and a catalogued macro
	// resolves as the EQUREG declaration
	h := testHandler(t, `{"macros": [{"name": "R2", "description": "not this"}]}`)
	st := stateOf("R2       EQUREG R4,F")

	md := h.hoverMarkdown("R2", st)
	if !strings.HasPrefix(md, "## R2 (EQUREG)") {
		t.Errorf("EQUREG must win, got %q", md)
	}
}

func TestHover_RegisterBeatsMacro(t *testing.T) {
	h := testHandler(t, `{"macros": [{"name": "R5", "description": "not this"}]}`)

	md := h.hoverMarkdown("R5", nil)
	if !strings.HasPrefix(md, "## Register R5") {
		t.Errorf("bare register must beat macro, got %q", md)
	}
}

func TestHover_Macro(t *testing.T) {
	h := testHandler(t, `{"macros": [
		{"name": "GETMAIN", "description": "Allocate storage", "category": "Storage",
		 "parameters": ["LV", "SP"], "source": "SYS1.MACLIB"}
	]}`)

	md := h.hoverMarkdown("getmain", nil)
	if !strings.HasPrefix(md, "## GETMAIN") {
		t.Errorf("unexpected heading: %q", md)
	}
	for _, want := range []string{"Allocate storage", "**Parameters:**", "- LV", "- SP",
		"*Category: Storage*", "*Source: SYS1.MACLIB*"} {
		if !strings.Contains(md, want) {
			t.Errorf("macro hover missing %q: %q", want, md)
		}
	}
}

func TestHover_MacroMinimal(t *testing.T) {
	h := testHandler(t, `{"macros": [{"name": "WTO"}]}`)

	md := h.hoverMarkdown("WTO", nil)
	if !strings.HasPrefix(md, "## WTO") {
		t.Errorf("unexpected heading: %q", md)
	}
	for _, absent := range []string{"**Parameters:**", "*Category", "*Source"} {
		if strings.Contains(md, absent) {
			t.Errorf("minimal macro hover must omit %q: %q", absent, md)
		}
	}
}

func TestHover_Field(t *testing.T) {
	h := testHandler(t, `{"controlBlocks": {"DCB": {"fields": [
		{"name": "DCBDDNAM", "fieldType": "CL8", "storageType": "EBCDIC",
		 "length": 8, "parent": "DCB", "description": "DD name"}
	]}}}`)

	md := h.hoverMarkdown("DCBDDNAM", nil)
	if !strings.HasPrefix(md, "## DCBDDNAM (DCB)") {
		t.Errorf("unexpected heading: %q", md)
	}
	for _, want := range []string{"DD name", "| Control Block | DCB |", "| Field Type | CL8 |",
		"| Length | 8 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("field hover missing %q: %q", want, md)
		}
	}
}

func TestHover_FieldZeroLengthOmitted(t *testing.T) {
	h := testHandler(t, `{"controlBlocks": {"TCB": {"fields": [{"name": "TCBRBP"}]}}}`)

	md := h.hoverMarkdown("TCBRBP", nil)
	if strings.Contains(md, "| Length |") {
		t.Errorf("zero length must be omitted: %q", md)
	}
}

func TestHover_Unknown(t *testing.T) {
	h := testHandler(t, `{}`)
	if md := h.hoverMarkdown("NOSUCH", nil); md != "" {
		t.Errorf("expected no hover, got %q", md)
	}
}

package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lookbusy1344/hlasm-lsp/lsp"
)

func TestWordAt(t *testing.T) {
	tests := []struct {
		text string
		line int
		char int
		want string
	}{
		{"         LA    R1,BUF", 0, 10, "LA"},
		{"         LA    R1,BUF", 0, 15, "R1"},
		{"         LA    R1,BUF", 0, 18, "BUF"},
		{"         LA    R1,BUF", 0, 17, ""},  // on the comma
		{"         LA    R1,BUF", 0, 99, ""},  // past line end
		{"SAVE@1   DS    F", 0, 3, "SAVE@1"},  // @ # $ _ are identifier chars
		{"A\r", 0, 0, "A"},                    // CR stripped
		{"ONE\nTWO", 1, 0, "TWO"},
	}

	for _, tt := range tests {
		if got := wordAt(tt.text, tt.line, tt.char); got != tt.want {
			t.Errorf("wordAt(%q, %d, %d) = %q, want %q", tt.text, tt.line, tt.char, got, tt.want)
		}
	}
}

// openDocument primes the handler registry the way didOpen would
func openDocument(h *Handler, uri, text string) {
	h.documents[uri] = text
	h.states[uri] = stateOf(text)
}

func TestDefinition_Label(t *testing.T) {
	h := testHandler(t, `{}`)
	text := "START    CSECT\n         B     START"
	openDocument(h, "file:///a.asm", text)

	// Cursor on START in the branch operand
	loc := h.findDefinition("file:///a.asm", lsp.Position{Line: 1, Character: 16})
	if loc == nil {
		t.Fatal("expected a definition")
	}
	if loc.Range.Start.Line != 0 || loc.Range.Start.Character != 0 {
		t.Errorf("expected declaration at line 0, got %+v", loc.Range)
	}
	if loc.Range.End.Character != len("START") {
		t.Errorf("expected range to span the label, got %+v", loc.Range)
	}
}

func TestDefinition_EquregSymbol(t *testing.T) {
	h := testHandler(t, `{}`)
	text := "FPR      EQUREG R4,F\n         LE    FPR,0"
	openDocument(h, "file:///a.asm", text)

	loc := h.findDefinition("file:///a.asm", lsp.Position{Line: 1, Character: 15})
	if loc == nil {
		t.Fatal("expected a definition")
	}
	if loc.Range.Start.Line != 0 {
		t.Errorf("expected the EQUREG declaration line, got %d", loc.Range.Start.Line)
	}
}

func TestDefinition_MacroFile(t *testing.T) {
	dir := t.TempDir()
	macPath := filepath.Join(dir, "GETMAIN.mac")
	if err := os.WriteFile(macPath, []byte("         MACRO\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := testHandler(t, `{"macros": [{"name": "GETMAIN"}]}`)
	h.macroDirs = []string{t.TempDir(), dir} // first dir misses, second hits
	openDocument(h, "file:///a.asm", "         GETMAIN LV=100")

	loc := h.findDefinition("file:///a.asm", lsp.Position{Line: 0, Character: 10})
	if loc == nil {
		t.Fatal("expected a definition")
	}
	if loc.URI != "file://"+macPath {
		t.Errorf("expected %q, got %q", "file://"+macPath, loc.URI)
	}
	if loc.Range.Start.Line != 0 || loc.Range.Start.Character != 0 {
		t.Errorf("expected head of file, got %+v", loc.Range)
	}
}

func TestDefinition_Misses(t *testing.T) {
	h := testHandler(t, `{}`)
	openDocument(h, "file:///a.asm", "         LA    R1,NOWHERE")

	if loc := h.findDefinition("file:///a.asm", lsp.Position{Line: 0, Character: 20}); loc != nil {
		t.Errorf("expected no definition, got %+v", loc)
	}
	if loc := h.findDefinition("file:///closed.asm", lsp.Position{}); loc != nil {
		t.Errorf("expected nil for unopened document")
	}
}

func TestReferences_LabelAndOperands(t *testing.T) {
	h := testHandler(t, `{}`)
	text := "BUF      DS    CL80\n         LA    R1,BUF\n         MVC   0(80,R1),BUF"
	openDocument(h, "file:///a.asm", text)

	locs := h.findReferences("file:///a.asm", lsp.Position{Line: 0, Character: 0}, true)
	if len(locs) != 3 {
		t.Fatalf("expected 3 references, got %d", len(locs))
	}
	if locs[0].Range.Start.Line != 0 || locs[0].Range.Start.Character != 0 {
		t.Errorf("declaration must come first, got %+v", locs[0].Range)
	}
	if locs[1].Range.Start.Line != 1 {
		t.Errorf("expected operand reference on line 1, got %d", locs[1].Range.Start.Line)
	}
	if locs[2].Range.Start.Line != 2 {
		t.Errorf("expected operand reference on line 2, got %d", locs[2].Range.Start.Line)
	}
}

func TestReferences_ExcludeDeclaration(t *testing.T) {
	h := testHandler(t, `{}`)
	text := "BUF      DS    CL80\n         LA    R1,BUF"
	openDocument(h, "file:///a.asm", text)

	locs := h.findReferences("file:///a.asm", lsp.Position{Line: 0, Character: 0}, false)
	if len(locs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(locs))
	}
	if locs[0].Range.Start.Line != 1 {
		t.Errorf("expected only the operand use, got line %d", locs[0].Range.Start.Line)
	}
}

func TestReferences_AddressOperands(t *testing.T) {
	h := testHandler(t, `{}`)
	text := "BASE     EQUREG R12,G\n         LA    R1,DATA(R2,BASE)"
	openDocument(h, "file:///a.asm", text)

	locs := h.findReferences("file:///a.asm", lsp.Position{Line: 0, Character: 0}, false)
	if len(locs) != 1 {
		t.Fatalf("expected the base-register use, got %d references", len(locs))
	}
	if locs[0].Range.Start.Line != 1 {
		t.Errorf("expected line 1, got %d", locs[0].Range.Start.Line)
	}
}

func TestReferences_NoHits(t *testing.T) {
	h := testHandler(t, `{}`)
	openDocument(h, "file:///a.asm", "         LA    R1,0")

	if locs := h.findReferences("file:///a.asm", lsp.Position{Line: 0, Character: 0}, true); locs != nil {
		t.Errorf("expected nil, got %d references", len(locs))
	}
}

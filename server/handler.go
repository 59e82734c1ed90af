// Package server wires the LSP request surface to the analysis pipeline. One
// Handler owns the per-URI document registry; everything runs on the message
// loop, strictly one message at a time.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"path/filepath"

	"github.com/lookbusy1344/hlasm-lsp/analysis"
	"github.com/lookbusy1344/hlasm-lsp/catalog"
	"github.com/lookbusy1344/hlasm-lsp/logger"
	"github.com/lookbusy1344/hlasm-lsp/lsp"
	"github.com/lookbusy1344/hlasm-lsp/parser"
)

// Version is the protocol-visible server version
const Version = "0.3.0"

// maxMacroDirs bounds how many macro directories definition lookup scans
const maxMacroDirs = 64

// Handler is the document controller
type Handler struct {
	conn      *lsp.Conn
	dataDir   string // explicit catalogue dir override; empty = derive
	macroDirs []string
	catalog   *catalog.Catalog
	documents map[string]string
	states    map[string]*analysis.State
	shutdown  bool
	exited    bool
	exitCode  int
}

// New creates a handler for one client connection
func New(conn *lsp.Conn, dataDir string, macroDirs []string) *Handler {
	return &Handler{
		conn:      conn,
		dataDir:   dataDir,
		macroDirs: macroDirs,
		documents: make(map[string]string),
		states:    make(map[string]*analysis.State),
	}
}

// Run processes messages until the client exits or the stream ends, and
// returns the process exit code
func (h *Handler) Run() int {
	for {
		msg, err := h.conn.Read()
		if err != nil {
			var dec *lsp.DecodeError
			if errors.As(err, &dec) {
				logger.Warn("dropping undecodable packet: {Error}", dec.Err.Error())
				continue
			}
			if errors.Is(err, io.EOF) {
				logger.Info("client stream closed")
			} else {
				logger.Warn("transport ended: {Error}", err.Error())
			}
			return 0
		}
		h.dispatch(msg)
		if h.exited {
			return h.exitCode
		}
	}
}

func (h *Handler) dispatch(msg *lsp.Message) {
	switch msg.Method {
	case "":
		// a response packet; the server sends no requests, nothing to match
		logger.Debug("ignoring response packet")
	case "initialize":
		h.initialize(msg)
	case "initialized":
		// client handshake complete; nothing to do
	case "shutdown":
		logger.Info("shutdown requested")
		h.shutdown = true
		h.reply(msg.ID, nil)
	case "exit":
		h.exited = true
		if h.shutdown {
			h.exitCode = 0
		} else {
			h.exitCode = 1
		}
		logger.Info("exit (code {Code})", h.exitCode)
	case "textDocument/didOpen":
		h.didOpen(msg)
	case "textDocument/didChange":
		h.didChange(msg)
	case "textDocument/didClose":
		h.didClose(msg)
	case "textDocument/hover":
		h.hover(msg)
	case "textDocument/completion":
		h.completion(msg)
	case "textDocument/definition":
		h.definition(msg)
	case "textDocument/references":
		h.references(msg)
	default:
		if msg.IsRequest() {
			logger.Warn("unsupported method {Method}", msg.Method)
			h.replyError(msg.ID, lsp.CodeMethodNotFound, "method not supported: "+msg.Method)
		} else {
			logger.Debug("ignoring notification {Method}", msg.Method)
		}
	}
}

func (h *Handler) reply(id json.RawMessage, result any) {
	if err := h.conn.Reply(id, result); err != nil {
		logger.Error("failed to send response: {Error}", err.Error())
	}
}

func (h *Handler) replyError(id json.RawMessage, code int, message string) {
	if err := h.conn.ReplyError(id, code, message); err != nil {
		logger.Error("failed to send error response: {Error}", err.Error())
	}
}

// decodeParams unmarshals request params, answering InvalidRequest on failure
func (h *Handler) decodeParams(msg *lsp.Message, v any) bool {
	if err := json.Unmarshal(msg.Params, v); err != nil {
		if msg.IsRequest() {
			h.replyError(msg.ID, lsp.CodeInvalidRequest, err.Error())
		} else {
			logger.Warn("bad params for {Method}: {Error}", msg.Method, err.Error())
		}
		return false
	}
	return true
}

func (h *Handler) initialize(msg *lsp.Message) {
	var params lsp.InitializeParams
	if len(msg.Params) > 0 && !h.decodeParams(msg, &params) {
		return
	}

	dir := h.dataDir
	if dir == "" {
		if root := uriToPath(params.RootURI); root != "" {
			dir = filepath.Join(root, "data")
		}
	}
	if dir == "" {
		dir = "data"
	}

	path := filepath.Join(dir, "macros.json")
	h.catalog = catalog.Load(path)
	logger.Info("catalogue {Path}: {Macros} macros, {Fields} fields",
		path, h.catalog.MacroCount(), h.catalog.FieldCount())

	h.reply(msg.ID, lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: lsp.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    lsp.SyncFull,
			},
			HoverProvider: true,
			CompletionProvider: &lsp.CompletionOptions{
				TriggerCharacters: []string{" "},
			},
			DefinitionProvider: true,
			ReferencesProvider: true,
		},
		ServerInfo: &lsp.ServerInfo{Name: "hlasm-lsp", Version: Version},
	})
}

func (h *Handler) didOpen(msg *lsp.Message) {
	var params lsp.DidOpenTextDocumentParams
	if !h.decodeParams(msg, &params) {
		return
	}
	uri := params.TextDocument.URI
	logger.Info("document opened: {URI}", uri)
	h.update(uri, params.TextDocument.Text)
}

// didChange replaces the whole document. The server advertises full sync, so
// each change entry carries the complete text; the first entry is taken and
// any extras are ignored.
func (h *Handler) didChange(msg *lsp.Message) {
	var params lsp.DidChangeTextDocumentParams
	if !h.decodeParams(msg, &params) {
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}
	uri := params.TextDocument.URI
	logger.Debug("document changed: {URI}", uri)
	h.update(uri, params.ContentChanges[0].Text)
}

// update stores the text, reanalyses, and publishes diagnostics before the
// next message is read
func (h *Handler) update(uri, text string) {
	h.documents[uri] = text
	state := analysis.Analyze(parser.ParseDocument(text))
	h.states[uri] = state
	h.publishDiagnostics(uri, state.Diags)
}

func (h *Handler) didClose(msg *lsp.Message) {
	var params lsp.DidCloseTextDocumentParams
	if !h.decodeParams(msg, &params) {
		return
	}
	uri := params.TextDocument.URI
	logger.Info("document closed: {URI}", uri)
	delete(h.documents, uri)
	delete(h.states, uri)
	h.publishDiagnostics(uri, nil)
}

func (h *Handler) publishDiagnostics(uri string, diags []analysis.Diagnostic) {
	out := make([]lsp.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, lsp.Diagnostic{
			Range: lsp.Range{
				Start: lsp.Position{Line: d.Line, Character: d.ColStart},
				End:   lsp.Position{Line: d.Line, Character: d.ColEnd},
			},
			Severity: int(d.Severity),
			Source:   "hlasm-lsp",
			Message:  d.Message,
		})
	}
	err := h.conn.Notify("textDocument/publishDiagnostics", lsp.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: out,
	})
	if err != nil {
		logger.Error("failed to publish diagnostics: {Error}", err.Error())
	}
}

func (h *Handler) hover(msg *lsp.Message) {
	var params lsp.TextDocumentPositionParams
	if !h.decodeParams(msg, &params) {
		return
	}
	text, ok := h.documents[params.TextDocument.URI]
	if !ok {
		h.reply(msg.ID, nil)
		return
	}
	word := wordAt(text, params.Position.Line, params.Position.Character)
	if word == "" {
		h.reply(msg.ID, nil)
		return
	}
	md := h.hoverMarkdown(word, h.states[params.TextDocument.URI])
	if md == "" {
		h.reply(msg.ID, nil)
		return
	}
	h.reply(msg.ID, lsp.Hover{
		Contents: lsp.MarkupContent{Kind: "markdown", Value: md},
	})
}

func (h *Handler) completion(msg *lsp.Message) {
	var params lsp.TextDocumentPositionParams
	if !h.decodeParams(msg, &params) {
		return
	}
	text, ok := h.documents[params.TextDocument.URI]
	if !ok {
		h.reply(msg.ID, nil)
		return
	}
	prefix := prefixAt(text, params.Position.Line, params.Position.Character)
	items := h.completionItems(prefix, h.states[params.TextDocument.URI])
	h.reply(msg.ID, lsp.CompletionList{IsIncomplete: false, Items: items})
}

func (h *Handler) definition(msg *lsp.Message) {
	var params lsp.TextDocumentPositionParams
	if !h.decodeParams(msg, &params) {
		return
	}
	loc := h.findDefinition(params.TextDocument.URI, params.Position)
	if loc == nil {
		h.reply(msg.ID, nil)
		return
	}
	h.reply(msg.ID, loc)
}

func (h *Handler) references(msg *lsp.Message) {
	var params lsp.ReferenceParams
	if !h.decodeParams(msg, &params) {
		return
	}
	locs := h.findReferences(params.TextDocument.URI, params.Position,
		params.Context.IncludeDeclaration)
	if len(locs) == 0 {
		h.reply(msg.ID, nil)
		return
	}
	h.reply(msg.ID, locs)
}

// uriToPath converts a file URI to a filesystem path; anything else yields ""
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return u.Path
}

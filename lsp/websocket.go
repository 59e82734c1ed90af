package lsp

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lookbusy1344/hlasm-lsp/logger"
)

// maxMessageSize caps a single client frame
const maxMessageSize = 1 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The server binds to an operator-chosen address; origins are not
		// restricted here
		return true
	},
}

// WebSocketFramer adapts a WebSocket connection to the Framer interface:
// each protocol payload travels as one text message, no Content-Length
// headers involved
type WebSocketFramer struct {
	conn *websocket.Conn
}

// ReadFrame returns the next client message body
func (f *WebSocketFramer) ReadFrame() ([]byte, error) {
	_, data, err := f.conn.ReadMessage()
	return data, err
}

// WriteFrame sends one message body to the client
func (f *WebSocketFramer) WriteFrame(data []byte) error {
	return f.conn.WriteMessage(websocket.TextMessage, data)
}

// ListenAndServe accepts WebSocket LSP sessions at /lsp on the given address.
// Each connection gets its own session; serve runs it to completion.
func ListenAndServe(addr string, serve func(*Conn)) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/lsp", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade failed: {Error}", err.Error())
			return
		}
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Debug("WebSocket close: {Error}", err.Error())
			}
		}()
		conn.SetReadLimit(maxMessageSize)
		logger.Info("WebSocket client connected from {Addr}", r.RemoteAddr)
		serve(NewConn(&WebSocketFramer{conn: conn}))
		logger.Info("WebSocket client disconnected")
	})
	return http.ListenAndServe(addr, mux)
}

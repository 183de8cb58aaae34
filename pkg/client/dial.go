package client

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TransportType identifies the kind of transport a session uses.
type TransportType int

const (
	TransportTCP       TransportType = iota // Plain TCP stream
	TransportWebSocket                      // WebSocket binary messages
)

// Dial opens the transport described by the config and returns it as a
// byte stream. A websocket URL takes precedence over host/port.
func Dial(cfg Config) (io.ReadWriteCloser, TransportType, error) {
	if cfg.WebsocketURL != "" {
		conn, err := dialWS(cfg.WebsocketURL)
		if err != nil {
			return nil, TransportWebSocket, err
		}
		return conn, TransportWebSocket, nil
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, TransportTCP, fmt.Errorf("connect %s: %w", addr, err)
	}
	return conn, TransportTCP, nil
}

// dialWS connects to a websocket endpoint that relays the wire
// protocol as binary messages.
func dialWS(url string) (io.ReadWriteCloser, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", url, err)
	}
	return &wsConn{conn: conn}, nil
}

// wsConn adapts a websocket connection to io.ReadWriteCloser.
// Messages arriving larger than one Read are buffered.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex // guards writes
	rest []byte     // unread tail of the last message
}

func (wc *wsConn) Read(p []byte) (int, error) {
	if len(wc.rest) == 0 {
		_, msg, err := wc.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		wc.rest = msg
	}
	n := copy(p, wc.rest)
	wc.rest = wc.rest[n:]
	return n, nil
}

func (wc *wsConn) Write(p []byte) (int, error) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := wc.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (wc *wsConn) Close() error {
	return wc.conn.Close()
}

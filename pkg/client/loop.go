package client

import (
	"fmt"
	"io"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/elanthis/clc/pkg/editor"
	"github.com/elanthis/clc/pkg/session"
)

// Client drives one session: it owns the transport, the screen, the
// session façade, and the line editor, and runs the dispatch loop.
// All core state is touched only from Run's goroutine.
type Client struct {
	cfg    Config
	screen *Screen
	conn   io.ReadWriteCloser
	sess   session.Session
	ed     *editor.Editor

	// Updates receives live config reloads (see WatchConfig).
	Updates chan Config

	bytesIn  int64
	bytesOut int64
}

// New wires a client around an open transport. The wire variant comes
// from cfg.Protocol.
func New(cfg Config, screen *Screen, conn io.ReadWriteCloser) *Client {
	c := &Client{
		cfg:     cfg,
		screen:  screen,
		conn:    conn,
		ed:      editor.New(),
		Updates: make(chan Config, 1),
	}
	transmit := func(p []byte) error {
		if _, err := conn.Write(p); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		c.bytesOut += int64(len(p))
		return nil
	}
	if cfg.Protocol == "awe" {
		c.sess = session.NewAwe(transmit, screen, screen)
	} else {
		c.sess = session.NewTelnet(transmit, screen, screen)
	}
	return c
}

// Run blocks until the session ends: nil on orderly disconnect or user
// quit, an error on transport failure. The caller restores the screen.
func (c *Client) Run() error {
	netCh := make(chan []byte, 1)
	errCh := make(chan error, 1)
	go readLoop(c.conn, netCh, errCh)

	evCh := make(chan tcell.Event, 8)
	quit := make(chan struct{})
	c.screen.StartEvents(evCh, quit)
	defer close(quit)

	target := c.cfg.Host
	if c.cfg.WebsocketURL != "" {
		target = c.cfg.WebsocketURL
	}

	for {
		c.screen.SetAutoBanner(fmt.Sprintf("%s | in %d out %d", target, c.bytesIn, c.bytesOut))
		c.screen.SetInput(c.ed.Display(c.sess.Echo(), c.screen.Mask()), c.ed.Cursor())
		c.screen.Draw()

		select {
		case data, ok := <-netCh:
			if !ok {
				return nil // orderly close
			}
			c.bytesIn += int64(len(data))
			if err := c.sess.Feed(data); err != nil {
				return err
			}

		case err := <-errCh:
			return fmt.Errorf("receive: %w", err)

		case ev := <-evCh:
			done, err := c.handleEvent(ev)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case cfg := <-c.Updates:
			c.screen.Apply(cfg)
		}
	}
}

// readLoop copies transport bytes into the dispatch channel. EOF
// closes the channel; any other error is surfaced.
func readLoop(conn io.Reader, netCh chan<- []byte, errCh chan<- error) {
	buf := make([]byte, 2048)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			netCh <- data
		}
		if err != nil {
			if err == io.EOF {
				close(netCh)
			} else {
				errCh <- err
			}
			return
		}
	}
}

// handleEvent maps one terminal event onto the editor and session.
// done is true when the user asked to quit.
func (c *Client) handleEvent(ev tcell.Event) (done bool, err error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		c.screen.Resize(w, h)
		if err := c.sess.NotifyResize(w, h); err != nil {
			return false, err
		}

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEnter:
			return false, c.submit()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			c.ed.Backspace()
		case tcell.KeyDelete:
			c.ed.DeleteForward()
		case tcell.KeyLeft:
			c.ed.Left()
		case tcell.KeyRight:
			c.ed.Right()
		case tcell.KeyHome, tcell.KeyCtrlA:
			c.ed.Home()
		case tcell.KeyEnd, tcell.KeyCtrlE:
			c.ed.End()
		case tcell.KeyCtrlU:
			c.ed.Clear()
		case tcell.KeyCtrlC:
			log.Printf("session ended by user")
			return true, nil
		case tcell.KeyRune:
			if r := ev.Rune(); r >= 32 && r < 127 {
				c.ed.Insert(byte(r))
			}
		}
	}
	return false, nil
}

// submit sends the current line, echoes it locally when echo is on,
// and clears the editor for the next line.
func (c *Client) submit() error {
	line := c.ed.Snapshot()
	if err := c.sess.SubmitLine(line); err != nil {
		return err
	}
	if c.sess.Echo() {
		c.screen.EchoLocal(line)
	}
	c.ed.Clear()
	return nil
}

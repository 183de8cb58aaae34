package session

import (
	"github.com/elanthis/clc/pkg/telnet"
	"github.com/elanthis/clc/pkg/vterm"
	"github.com/elanthis/clc/pkg/zmp"
)

// TelnetSession speaks the escaped telnet protocol: the engine strips
// IAC sequences, the renderer interprets display escapes, and ZMP
// frames dispatch through the handler.
type TelnetSession struct {
	eng  *telnet.Engine
	zmp  *zmp.Handler
	term *vterm.Renderer
}

// NewTelnet wires a telnet session. Inbound display bytes flow to the
// painter; outbound frames flow through transmit.
func NewTelnet(transmit func(p []byte) error, painter vterm.Painter, ui UI) *TelnetSession {
	s := &TelnetSession{}
	s.term = vterm.New(painter)
	s.eng = telnet.NewEngine()
	s.eng.Display = s.term.Feed
	s.eng.Transmit = transmit
	s.eng.Size = ui.Size
	s.zmp = zmp.NewHandler(s.eng)
	s.eng.Subneg = s.zmp.Dispatch
	return s
}

// Feed consumes one batch of inbound bytes.
func (s *TelnetSession) Feed(p []byte) error {
	return s.eng.Feed(p)
}

// SubmitLine frames a finished input line. With ZMP negotiated the
// line travels as a zmp.input message; otherwise as escaped text plus
// the telnet line ending.
func (s *TelnetSession) SubmitLine(line string) error {
	if s.eng.ZMPEnabled() {
		return s.zmp.Send([]string{"zmp.input", line})
	}
	return s.eng.SendLine(line)
}

// NotifyResize forwards a new window size to the engine, which emits a
// NAWS report only if the server asked for them.
func (s *TelnetSession) NotifyResize(w, h int) error {
	return s.eng.NotifyResize(w, h)
}

// Echo reports whether input should be echoed locally.
func (s *TelnetSession) Echo() bool { return s.eng.EchoEnabled() }

// ZMP exposes the sub-protocol handler, mainly so capability state can
// be inspected.
func (s *TelnetSession) ZMP() *zmp.Handler { return s.zmp }

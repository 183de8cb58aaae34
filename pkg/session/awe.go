package session

import (
	"github.com/elanthis/clc/pkg/vterm"
)

// Awe protocol message tags. Every message is tag byte, payload,
// NUL terminator, in both directions.
const (
	aweTagLine   = '=' // client -> server: submitted input line
	aweTagText   = '"' // server -> client: text to display
	aweTagBanner = '>' // server -> client: replace the status banner
	aweTagClear  = 'C' // server -> client: clear the main display
	aweTagEcho   = 'p' // server -> client: '0'/'1' toggles local echo
)

// aweMaxMessage bounds one inbound message. An overrun poisons the
// message, which is then dropped at its terminating NUL.
const aweMaxMessage = 8 * 1024

// AweSession speaks the delimited message protocol. It has no option
// negotiation: no window size reports, and echo is driven by explicit
// server messages.
type AweSession struct {
	transmit func(p []byte) error
	term     *vterm.Renderer
	ui       UI

	buf      []byte
	overflow bool
	echo     bool
}

// NewAwe wires a delimited-protocol session.
func NewAwe(transmit func(p []byte) error, painter vterm.Painter, ui UI) *AweSession {
	return &AweSession{
		transmit: transmit,
		term:     vterm.New(painter),
		ui:       ui,
		buf:      make([]byte, 0, 256),
		echo:     true,
	}
}

// Feed consumes one batch of inbound bytes. Message state persists
// across batches, so a message split by the transport still parses.
func (s *AweSession) Feed(p []byte) error {
	for _, b := range p {
		if b == 0 {
			if !s.overflow {
				s.deliver(s.buf)
			}
			s.buf = s.buf[:0]
			s.overflow = false
			continue
		}
		if len(s.buf) >= aweMaxMessage {
			s.overflow = true
			continue
		}
		s.buf = append(s.buf, b)
	}
	return nil
}

// deliver interprets one complete message. Tag-less and unknown-tag
// messages are dropped.
func (s *AweSession) deliver(msg []byte) {
	if len(msg) == 0 {
		return
	}
	payload := msg[1:]
	switch msg[0] {
	case aweTagText:
		s.term.Write(payload)
	case aweTagBanner:
		s.ui.SetBanner(string(payload))
	case aweTagClear:
		s.ui.ClearMain()
	case aweTagEcho:
		if len(payload) == 1 {
			switch payload[0] {
			case '0':
				s.echo = false
			case '1':
				s.echo = true
			}
		}
	}
}

// SubmitLine frames one input line as a line message.
func (s *AweSession) SubmitLine(line string) error {
	frame := make([]byte, 0, len(line)+2)
	frame = append(frame, aweTagLine)
	frame = append(frame, line...)
	frame = append(frame, 0)
	return s.transmit(frame)
}

// NotifyResize is a no-op; this variant has no size negotiation.
func (s *AweSession) NotifyResize(w, h int) error { return nil }

// Echo reports whether input should be echoed locally.
func (s *AweSession) Echo() bool { return s.echo }

package telnet

import (
	"encoding/binary"
	"fmt"
)

// state tracks where the engine is inside an IAC command sequence.
// The inbound stream may be fragmented anywhere, so the state persists
// across Feed calls.
type state int

const (
	stateText state = iota
	stateIAC
	stateDo
	stateDont
	stateWill
	stateWont
	stateSub
	stateSubIAC
)

// Options holds the option flags the engine negotiates. Only the
// engine mutates them; the session and editor read them.
type Options struct {
	Echo bool // Local echo enabled (cleared when the server takes over echo)
	ZMP  bool // ZMP subnegotiation messages accepted
	NAWS bool // Window size reports requested by the server
}

// Engine is the telnet protocol state machine for one connection.
// Decoded output and negotiation reactions go through the callback
// fields, all of which must be set before the first Feed.
type Engine struct {
	state state
	sub   []byte
	opts  Options

	// Display receives each in-band byte once IAC sequences are
	// stripped. Wired to the terminal renderer.
	Display func(b byte)

	// Transmit sends raw bytes to the server. Negotiation replies are
	// transmitted inline while Feed runs, before any later inbound
	// byte of the same batch is consumed.
	Transmit func(p []byte) error

	// Size reports the current window dimensions for NAWS replies.
	Size func() (w, h int)

	// Subneg receives each completed, non-empty subnegotiation
	// payload, identifier byte first. Only invoked for the ZMP
	// option, and only after the server has negotiated it on.
	Subneg func(p []byte)
}

// NewEngine returns an engine in the text state with local echo on.
func NewEngine() *Engine {
	return &Engine{
		opts: Options{Echo: true},
		sub:  make([]byte, 0, 256),
	}
}

// Options returns a copy of the current option flags.
func (e *Engine) Options() Options { return e.opts }

// EchoEnabled reports whether the client should echo typed input
// locally. False once the server negotiates WILL ECHO (password mode).
func (e *Engine) EchoEnabled() bool { return e.opts.Echo }

// ZMPEnabled reports whether the server negotiated the ZMP option.
func (e *Engine) ZMPEnabled() bool { return e.opts.ZMP }

// Feed consumes a batch of raw inbound bytes, one at a time. Feeding
// the same stream in different fragmentations produces the same
// displayed bytes and the same reactions.
func (e *Engine) Feed(p []byte) error {
	for _, b := range p {
		if err := e.feedByte(b); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) feedByte(b byte) error {
	switch e.state {
	case stateText:
		if b == IAC {
			e.state = stateIAC
		} else {
			e.display(b)
		}

	case stateIAC:
		switch b {
		case IAC:
			// IAC IAC is an escaped literal 255
			e.display(IAC)
			e.state = stateText
		case DO:
			e.state = stateDo
		case DONT:
			e.state = stateDont
		case WILL:
			e.state = stateWill
		case WONT:
			e.state = stateWont
		case SB:
			e.state = stateSub
			e.sub = e.sub[:0]
		default:
			// Unknown command: show a placeholder and resync
			for _, c := range fmt.Sprintf("<IAC:%d>", b) {
				e.display(byte(c))
			}
			e.state = stateText
		}

	case stateDo:
		e.state = stateText
		if b == TeloptNAWS {
			e.opts.NAWS = true
			if err := e.sendOpt(WILL, TeloptNAWS); err != nil {
				return err
			}
			if e.Size != nil {
				w, h := e.Size()
				return e.sendNAWS(w, h)
			}
		}

	case stateDont:
		// Nothing this client actively does gets disabled
		e.state = stateText

	case stateWill:
		e.state = stateText
		switch b {
		case TeloptEcho:
			e.opts.Echo = false
			return e.sendOpt(DO, TeloptEcho)
		case TeloptZMP:
			e.opts.ZMP = true
			return e.sendOpt(DO, TeloptZMP)
		}

	case stateWont:
		e.state = stateText
		if b == TeloptEcho {
			e.opts.Echo = true
		}

	case stateSub:
		if b == IAC {
			e.state = stateSubIAC
		} else if len(e.sub) >= MaxSub {
			// Overflow aborts the whole subnegotiation
			e.state = stateText
		} else {
			e.sub = append(e.sub, b)
		}

	case stateSubIAC:
		switch b {
		case IAC:
			if len(e.sub) >= MaxSub {
				e.state = stateText
			} else {
				e.sub = append(e.sub, IAC)
				e.state = stateSub
			}
		case SE:
			e.state = stateText
			e.deliverSub()
		default:
			// Malformed subnegotiation; drop it
			e.state = stateText
		}
	}
	return nil
}

func (e *Engine) display(b byte) {
	if e.Display != nil {
		e.Display(b)
	}
}

// deliverSub routes a completed subnegotiation. Only ZMP frames are
// understood, and only once the option has been negotiated.
func (e *Engine) deliverSub() {
	if len(e.sub) == 0 {
		return
	}
	if e.sub[0] != TeloptZMP || !e.opts.ZMP || e.Subneg == nil {
		return
	}
	payload := make([]byte, len(e.sub))
	copy(payload, e.sub)
	e.Subneg(payload)
}

func (e *Engine) sendOpt(verb, opt byte) error {
	return e.transmit([]byte{IAC, verb, opt})
}

func (e *Engine) transmit(p []byte) error {
	if e.Transmit == nil {
		return nil
	}
	return e.Transmit(p)
}

// Escape doubles every literal IAC byte so the payload survives
// in-band transmission. Unescaping on the far side (the IAC IAC rule
// in the state machine) restores the original payload exactly.
func Escape(p []byte) []byte {
	n := 0
	for _, b := range p {
		if b == IAC {
			n++
		}
	}
	if n == 0 {
		out := make([]byte, len(p))
		copy(out, p)
		return out
	}
	out := make([]byte, 0, len(p)+n)
	for _, b := range p {
		if b == IAC {
			out = append(out, IAC)
		}
		out = append(out, b)
	}
	return out
}

// SendEscaped transmits payload bytes with IAC escaping applied.
func (e *Engine) SendEscaped(p []byte) error {
	return e.transmit(Escape(p))
}

// SendLine transmits a line of user input as escaped text followed by
// the telnet line ending. Callers route lines through ZMP instead when
// that option is negotiated.
func (e *Engine) SendLine(text string) error {
	if err := e.SendEscaped([]byte(text)); err != nil {
		return err
	}
	return e.transmit([]byte{'\r', '\n'})
}

// SendSub transmits a subnegotiation frame for an option. The payload
// is escaped; the caller supplies it unescaped.
func (e *Engine) SendSub(option byte, payload []byte) error {
	if err := e.transmit([]byte{IAC, SB, option}); err != nil {
		return err
	}
	if err := e.SendEscaped(payload); err != nil {
		return err
	}
	return e.transmit([]byte{IAC, SE})
}

// NotifyResize reports new window dimensions to the server. A no-op
// until the server has asked for NAWS.
func (e *Engine) NotifyResize(w, h int) error {
	if !e.opts.NAWS {
		return nil
	}
	return e.sendNAWS(w, h)
}

func (e *Engine) sendNAWS(w, h int) error {
	var dims [4]byte
	binary.BigEndian.PutUint16(dims[0:2], uint16(w))
	binary.BigEndian.PutUint16(dims[2:4], uint16(h))
	return e.SendSub(TeloptNAWS, dims[:])
}

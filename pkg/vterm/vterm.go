// Package vterm interprets a minimal subset of terminal escape
// sequences in a server byte stream, reducing it to plain glyphs plus
// color and clear-screen directives delivered to a Painter. Anything
// it does not understand is consumed and ignored, never an error.
package vterm

// Painter receives the interpreted output. Implementations may paint
// immediately or buffer; the call sequence is order-preserving.
type Painter interface {
	// Put paints one glyph byte in the given color index. Index 0 is
	// the default color; 1 through 7 are the ANSI base colors.
	Put(b byte, color int)

	// Clear erases the whole display region.
	Clear()
}

// MaxParams caps how many numeric parameters one escape sequence can
// carry. Separators past the cap are ignored.
const MaxParams = 16

type state int

const (
	statePlain state = iota
	stateEsc
	stateEscRun
)

// Renderer is the escape interpreter for one session's output stream.
// State persists across Write calls so sequences split by the
// transport still parse.
type Renderer struct {
	state  state
	params []int
	color  int
	p      Painter
}

// New returns a renderer painting into p.
func New(p Painter) *Renderer {
	return &Renderer{
		params: make([]int, 0, MaxParams),
		p:      p,
	}
}

// Color returns the current color index.
func (r *Renderer) Color() int { return r.color }

// Write feeds server output bytes through the interpreter. It always
// succeeds; the signature matches io.Writer so the renderer can sit at
// the end of a copy chain.
func (r *Renderer) Write(p []byte) (int, error) {
	for _, b := range p {
		r.Feed(b)
	}
	return len(p), nil
}

// Feed consumes one output byte.
func (r *Renderer) Feed(b byte) {
	switch r.state {
	case statePlain:
		switch b {
		case 0x1B:
			r.state = stateEsc
		case '\r':
			// Carriage returns never reach the painter
		default:
			r.p.Put(b, r.color)
		}

	case stateEsc:
		if b == '[' {
			r.state = stateEscRun
			r.params = append(r.params[:0], 0)
		} else {
			// Unsupported escape form; drop the introducer
			r.state = statePlain
		}

	case stateEscRun:
		switch {
		case b >= '0' && b <= '9':
			i := len(r.params) - 1
			r.params[i] = r.params[i]*10 + int(b-'0')
		case b == ';':
			if len(r.params) < MaxParams {
				r.params = append(r.params, 0)
			}
		default:
			r.apply(b)
			r.state = statePlain
		}
	}
}

// apply executes the final command byte of an escape run. Only color
// changes and full clears are implemented; other commands are eaten.
func (r *Renderer) apply(cmd byte) {
	switch cmd {
	case 'm':
		for _, v := range r.params {
			switch {
			case v == 0:
				r.color = 0
			case v >= 31 && v <= 37:
				r.color = v - 30
			}
		}
	case 'J':
		if len(r.params) == 1 && r.params[0] == 2 {
			r.p.Clear()
		}
	}
}

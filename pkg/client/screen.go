package client

import (
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
)

// palette maps renderer color indexes to terminal colors. Index 0 is
// the default foreground; 1..7 are the ANSI base colors.
var palette = [8]tcell.Color{
	tcell.ColorDefault,
	tcell.ColorMaroon, // red
	tcell.ColorGreen,
	tcell.ColorOlive, // yellow
	tcell.ColorNavy,  // blue
	tcell.ColorPurple,
	tcell.ColorTeal, // cyan
	tcell.ColorSilver,
}

// cell is one painted glyph with its color index.
type cell struct {
	ch    rune
	color int
}

// Screen is the three-region compositor the core paints into: a
// scrolling main region, a one-row status banner, and a one-row input
// line. It implements vterm.Painter and session.UI. All methods must
// be called from the dispatch loop goroutine.
type Screen struct {
	tc     tcell.Screen
	width  int
	height int

	lines    [][]cell // completed main-region lines, oldest first
	cur      []cell   // line being appended
	maxLines int

	banner     string // server-set banner; empty falls back to auto
	autoBanner string

	inputLine   string
	inputCursor int
	mask        rune

	transcript io.Writer
}

// NewScreen initializes the terminal and lays out the regions.
func NewScreen(cfg Config) (*Screen, error) {
	tc, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open screen: %w", err)
	}
	if err := tc.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	tc.SetStyle(tcell.StyleDefault)
	w, h := tc.Size()
	return &Screen{
		tc:       tc,
		width:    w,
		height:   h,
		maxLines: cfg.ScrollbackLines,
		mask:     cfg.Mask(),
	}, nil
}

// Fini restores the terminal to its prior state.
func (s *Screen) Fini() { s.tc.Fini() }

// StartEvents delivers terminal events on ch until quit closes.
func (s *Screen) StartEvents(ch chan tcell.Event, quit chan struct{}) {
	go s.tc.ChannelEvents(ch, quit)
}

// SetTranscript mirrors every displayed byte to w as plain text.
func (s *Screen) SetTranscript(w io.Writer) { s.transcript = w }

// Apply adopts display-safe settings from a reloaded config.
func (s *Screen) Apply(cfg Config) {
	s.mask = cfg.Mask()
	s.maxLines = cfg.ScrollbackLines
	s.trim()
}

// Put implements vterm.Painter.
func (s *Screen) Put(b byte, color int) {
	if s.transcript != nil {
		s.transcript.Write([]byte{b})
	}
	switch {
	case b == '\n':
		s.pushLine()
	case b == '\t':
		for {
			s.cur = append(s.cur, cell{' ', color})
			if len(s.cur)%8 == 0 {
				break
			}
		}
	case b < 32:
		// Other control bytes are not printable
	default:
		s.cur = append(s.cur, cell{rune(b), color})
	}
}

// Clear implements vterm.Painter and session.UI's ClearMain.
func (s *Screen) Clear() {
	s.lines = nil
	s.cur = nil
}

// ClearMain implements session.UI.
func (s *Screen) ClearMain() { s.Clear() }

// SetBanner implements session.UI: a server banner replaces the
// automatic status text until cleared.
func (s *Screen) SetBanner(text string) { s.banner = text }

// SetAutoBanner sets the status text shown when the server has not
// taken over the banner.
func (s *Screen) SetAutoBanner(text string) { s.autoBanner = text }

// Size implements session.UI.
func (s *Screen) Size() (w, h int) { return s.width, s.height }

// Resize adopts new terminal dimensions.
func (s *Screen) Resize(w, h int) {
	s.width = w
	s.height = h
	s.tc.Sync()
}

// EchoLocal appends a submitted line to the main region, the way the
// original client echoed input into its output window.
func (s *Screen) EchoLocal(line string) {
	for i := 0; i < len(line); i++ {
		s.Put(line[i], 0)
	}
	s.Put('\n', 0)
}

// Mask returns the rune shown per input byte when echo is off.
func (s *Screen) Mask() rune { return s.mask }

// SetInput records the input row content for the next Draw. The caller
// renders masking through the editor's display policy.
func (s *Screen) SetInput(line string, cursor int) {
	s.inputLine = line
	s.inputCursor = cursor
}

func (s *Screen) pushLine() {
	s.lines = append(s.lines, s.cur)
	s.cur = nil
	s.trim()
}

func (s *Screen) trim() {
	if s.maxLines > 0 && len(s.lines) > s.maxLines {
		s.lines = s.lines[len(s.lines)-s.maxLines:]
	}
}

// Draw repaints all three regions and flushes to the terminal.
func (s *Screen) Draw() {
	s.tc.Clear()
	mainRows := s.height - 2
	if mainRows < 1 {
		mainRows = s.height
	}

	// Wrap logical lines to the screen width, keep the last mainRows
	rows := s.wrapped()
	start := 0
	if len(rows) > mainRows {
		start = len(rows) - mainRows
	}
	for y, row := range rows[start:] {
		for x, c := range row {
			st := tcell.StyleDefault.Foreground(palette[c.color&7])
			s.tc.SetContent(x, y, c.ch, nil, st)
		}
	}

	if s.height >= 2 {
		s.drawBanner(s.height - 2)
		s.drawInput(s.height - 1)
	}
	s.tc.Show()
}

func (s *Screen) drawBanner(y int) {
	text := s.banner
	if text == "" {
		text = s.autoBanner
	}
	st := tcell.StyleDefault.Reverse(true)
	for x := 0; x < s.width; x++ {
		ch := ' '
		if x < len(text) {
			ch = rune(text[x])
		}
		s.tc.SetContent(x, y, ch, nil, st)
	}
}

func (s *Screen) drawInput(y int) {
	// Keep the cursor visible when the line outgrows the row
	line := s.inputLine
	cursor := s.inputCursor
	if cursor > len(line) {
		cursor = len(line)
	}
	off := 0
	if s.width > 0 && cursor >= s.width {
		off = cursor - s.width + 1
	}
	for x := 0; x < s.width; x++ {
		ch := ' '
		if off+x < len(line) {
			ch = rune(line[off+x])
		}
		s.tc.SetContent(x, y, ch, nil, tcell.StyleDefault)
	}
	s.tc.ShowCursor(cursor-off, y)
}

// wrapped flattens the main region into display rows of at most the
// screen width.
func (s *Screen) wrapped() [][]cell {
	var rows [][]cell
	emit := func(line []cell) {
		if s.width <= 0 {
			return
		}
		if len(line) == 0 {
			rows = append(rows, nil)
			return
		}
		for len(line) > s.width {
			rows = append(rows, line[:s.width])
			line = line[s.width:]
		}
		rows = append(rows, line)
	}
	for _, line := range s.lines {
		emit(line)
	}
	if len(s.cur) > 0 {
		emit(s.cur)
	}
	return rows
}

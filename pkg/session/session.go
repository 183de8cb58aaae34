// Package session gives the I/O loop one uniform interface over the
// two wire variants the client speaks: the escaped telnet protocol and
// the simpler NUL-delimited message protocol. The variant is chosen
// once at construction.
package session

// UI is what a session needs from the screen compositor beyond raw
// painting: banner updates, full clears, echo control, and the current
// window size for resize reports.
type UI interface {
	SetBanner(text string)
	ClearMain()
	Size() (w, h int)
}

// Session is the uniform façade the I/O loop drives. Feed consumes one
// inbound batch; SubmitLine frames one line of user input;
// NotifyResize reports a new window size (a no-op for variants without
// size negotiation). Echo reports whether typed input should be shown
// literally.
type Session interface {
	Feed(p []byte) error
	SubmitLine(line string) error
	NotifyResize(w, h int) error
	Echo() bool
}

// Package zmp implements the Zenith MUD Protocol, a NUL-delimited
// argument-vector messaging convention carried inside telnet
// subnegotiation frames (telnet option 93). Messages are dispatched by
// command name against a static registry; unknown commands are ignored
// so servers can speak newer revisions of a package.
package zmp

import (
	"log"
	"strings"
	"time"

	"github.com/elanthis/clc/pkg/telnet"
)

// MaxArgs caps the argument vector of a single message. Arguments past
// the cap are truncated, not an error.
const MaxArgs = 32

// TimeFormat is the timestamp layout used by zmp.time replies.
const TimeFormat = "2006-01-02 15:04:05"

// Sender frames and transmits a subnegotiation payload. Implemented by
// the telnet engine.
type Sender interface {
	SendSub(option byte, payload []byte) error
}

// HandlerFunc processes one dispatched message. args[0] is the command
// name.
type HandlerFunc func(h *Handler, args []string)

// Handler owns the command registry for one session and replies
// through the session's sender. The registry is populated at
// construction and read-only afterward.
type Handler struct {
	sender   Sender
	registry map[string]HandlerFunc
	now      func() time.Time
}

// NewHandler returns a handler with the built-in zmp core package
// registered.
func NewHandler(sender Sender) *Handler {
	h := &Handler{
		sender:   sender,
		registry: make(map[string]HandlerFunc),
		now:      time.Now,
	}
	h.register("zmp.ping", handlePing)
	h.register("zmp.check", handleCheck)
	h.register("zmp.time", handleNoop)
	h.register("zmp.ident", handleNoop)
	h.register("zmp.support", handleNoop)
	h.register("zmp.no-support", handleNoop)
	return h
}

func (h *Handler) register(name string, fn HandlerFunc) {
	h.registry[name] = fn
}

// Dispatch validates and routes one completed subnegotiation buffer.
// The buffer starts with the ZMP option identifier byte. Malformed
// frames are silently discarded per the protocol.
func (h *Handler) Dispatch(buf []byte) {
	if len(buf) < 3 || !isAlpha(buf[1]) || buf[len(buf)-1] != 0 {
		return
	}
	args := ParseArgs(buf[1:])
	if len(args) == 0 {
		return
	}
	fn, ok := h.registry[args[0]]
	if !ok {
		// Unknown commands are fine; the server may speak a newer
		// package revision
		return
	}
	fn(h, args)
}

// ParseArgs splits a ZMP payload into its NUL-terminated argument
// strings: the command name followed by parameters. At most MaxArgs
// entries are collected. Parsing the same payload twice yields the
// same vector.
func ParseArgs(data []byte) []string {
	var args []string
	start := 0
	for i, b := range data {
		if b != 0 {
			continue
		}
		args = append(args, string(data[start:i]))
		start = i + 1
		if len(args) == MaxArgs {
			break
		}
	}
	return args
}

// Send frames an ordered argument vector as an outbound ZMP message:
// identifier byte, then each argument NUL-terminated, all inside an
// escaped subnegotiation.
func (h *Handler) Send(args []string) error {
	if len(args) == 0 {
		return nil
	}
	payload := make([]byte, 0, 64)
	for _, a := range args {
		payload = append(payload, a...)
		payload = append(payload, 0)
	}
	return h.sender.SendSub(telnet.TeloptZMP, payload)
}

// Supports reports whether a command, or any command in a package when
// name ends with the package delimiter, is registered. The package
// check scans the whole registry.
func (h *Handler) Supports(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasSuffix(name, ".") {
		for cmd := range h.registry {
			if strings.HasPrefix(cmd, name) {
				return true
			}
		}
		return false
	}
	_, ok := h.registry[name]
	return ok
}

func handlePing(h *Handler, args []string) {
	stamp := h.now().UTC().Format(TimeFormat)
	if err := h.Send([]string{"zmp.time", stamp}); err != nil {
		log.Printf("zmp: time reply failed: %v", err)
	}
}

func handleCheck(h *Handler, args []string) {
	if len(args) != 2 {
		return
	}
	reply := "zmp.no-support"
	if h.Supports(args[1]) {
		reply = "zmp.support"
	}
	if err := h.Send([]string{reply, args[1]}); err != nil {
		log.Printf("zmp: check reply failed: %v", err)
	}
}

// handleNoop accepts peer-originated informational messages that need
// no reaction.
func handleNoop(h *Handler, args []string) {}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

package zmp

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/elanthis/clc/pkg/telnet"
)

// fakeSender records framed subnegotiations.
type fakeSender struct {
	frames [][]byte
	opts   []byte
}

func (f *fakeSender) SendSub(option byte, payload []byte) error {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	f.frames = append(f.frames, cp)
	f.opts = append(f.opts, option)
	return nil
}

// frame builds a subnegotiation buffer as the telnet engine delivers
// it: identifier byte then NUL-terminated arguments.
func frame(args ...string) []byte {
	buf := []byte{telnet.TeloptZMP}
	for _, a := range args {
		buf = append(buf, a...)
		buf = append(buf, 0)
	}
	return buf
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		data string
		want []string
	}{
		{"zmp.ping\x00", []string{"zmp.ping"}},
		{"zmp.check\x00zmp.\x00", []string{"zmp.check", "zmp."}},
		{"a\x00b\x00c\x00", []string{"a", "b", "c"}},
		{"", nil},
		{"dangling", nil}, // no terminator, no argument
	}
	for _, tt := range tests {
		got := ParseArgs([]byte(tt.data))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseArgs(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestParseArgsIdempotent(t *testing.T) {
	data := []byte("zmp.check\x00zmp.ping\x00extra\x00")
	first := ParseArgs(data)
	second := ParseArgs(data)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parse not idempotent: %v vs %v", first, second)
	}
}

func TestParseArgsTruncatesAtCap(t *testing.T) {
	var data []byte
	for i := 0; i < MaxArgs+5; i++ {
		data = append(data, 'a', 0)
	}
	args := ParseArgs(data)
	if len(args) != MaxArgs {
		t.Errorf("got %d args, want %d", len(args), MaxArgs)
	}
}

func TestDispatchValidation(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"too short", []byte{telnet.TeloptZMP, 'z'}},
		{"non-alpha start", append([]byte{telnet.TeloptZMP, '1'}, "ping\x00"...)},
		{"missing terminator", append([]byte{telnet.TeloptZMP}, "zmp.ping"...)},
	}
	for _, tt := range tests {
		sender := &fakeSender{}
		h := NewHandler(sender)
		h.Dispatch(tt.buf)
		if len(sender.frames) != 0 {
			t.Errorf("%s: malformed frame should be discarded, sent %v", tt.name, sender.frames)
		}
	}
}

func TestDispatchUnknownCommandIgnored(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender)
	h.Dispatch(frame("zmp.future-thing", "arg"))
	if len(sender.frames) != 0 {
		t.Errorf("unknown command should be ignored, sent %v", sender.frames)
	}
}

func TestPingRepliesTime(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender)
	h.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 34, 56, 0, time.UTC)
	}
	h.Dispatch(frame("zmp.ping"))

	if len(sender.frames) != 1 {
		t.Fatalf("got %d replies, want 1", len(sender.frames))
	}
	if sender.opts[0] != telnet.TeloptZMP {
		t.Errorf("reply option = %d, want %d", sender.opts[0], telnet.TeloptZMP)
	}
	args := ParseArgs(sender.frames[0])
	if len(args) != 2 || args[0] != "zmp.time" {
		t.Fatalf("reply args = %v, want zmp.time + stamp", args)
	}
	if args[1] != "2026-08-31 12:34:56" {
		t.Errorf("stamp = %q, want %q", args[1], "2026-08-31 12:34:56")
	}
	if _, err := time.Parse(TimeFormat, args[1]); err != nil {
		t.Errorf("stamp does not parse: %v", err)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"zmp.ping", "zmp.support"},
		{"zmp.check", "zmp.support"},
		{"zmp.", "zmp.support"},       // package prefix, whole-registry scan
		{"zmp.nothere", "zmp.no-support"},
		{"other.", "zmp.no-support"},
		{"", "zmp.no-support"},
	}
	for _, tt := range tests {
		sender := &fakeSender{}
		h := NewHandler(sender)
		h.Dispatch(frame("zmp.check", tt.query))
		if len(sender.frames) != 1 {
			t.Fatalf("check %q: got %d replies, want 1", tt.query, len(sender.frames))
		}
		args := ParseArgs(sender.frames[0])
		if len(args) != 2 || args[0] != tt.want || args[1] != tt.query {
			t.Errorf("check %q: reply = %v, want [%s %s]", tt.query, args, tt.want, tt.query)
		}
	}
}

func TestCheckWrongArity(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender)
	h.Dispatch(frame("zmp.check"))
	h.Dispatch(frame("zmp.check", "a", "b"))
	if len(sender.frames) != 0 {
		t.Errorf("wrong-arity check should not reply, sent %v", sender.frames)
	}
}

func TestInformationalCommandsAccepted(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender)
	for _, cmd := range []string{"zmp.time", "zmp.ident", "zmp.support", "zmp.no-support"} {
		h.Dispatch(frame(cmd, "x"))
	}
	if len(sender.frames) != 0 {
		t.Errorf("informational commands need no reaction, sent %v", sender.frames)
	}
}

func TestSendFraming(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender)
	if err := h.Send([]string{"zmp.ident", "clc", "1.0"}); err != nil {
		t.Fatal(err)
	}
	want := []byte("zmp.ident\x00clc\x001.0\x00")
	if !bytes.Equal(sender.frames[0], want) {
		t.Errorf("payload = %v, want %v", sender.frames[0], want)
	}
}

func TestSupports(t *testing.T) {
	h := NewHandler(&fakeSender{})
	if !h.Supports("zmp.ping") {
		t.Error("zmp.ping should be supported")
	}
	if !h.Supports("zmp.") {
		t.Error("zmp. package should be supported")
	}
	if h.Supports("zmp") {
		t.Error("bare zmp is not a registered command")
	}
	if h.Supports(strings.Repeat("x", 10)) {
		t.Error("unregistered command should not be supported")
	}
}

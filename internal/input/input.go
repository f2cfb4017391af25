// Package input turns the raw terminal byte stream into pointer events and
// key commands.
package input

import (
	"bufio"
	"io"
	"sync"
)

// Mouse tracking: 1002 reports presses, releases and motion while a button
// is held; 1006 switches the reports to the SGR encoding parsed here.
const (
	enableMouse  = "\x1b[?1002h\x1b[?1006h"
	disableMouse = "\x1b[?1006l\x1b[?1002l"
)

// PointerKind is the phase of a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	}
	return "unknown"
}

// PointerEvent is a left button event at a zero-based terminal cell.
type PointerEvent struct {
	Kind PointerKind
	Col  int
	Row  int
}

// Input is everything read since the previous frame.
type Input struct {
	Quit    bool
	Reset   bool
	Help    bool
	Closed  bool // the underlying reader hit EOF or an error
	Pointer []PointerEvent
	Pressed []byte
}

// Stream delivers input bytes via a channel and keeps any escape sequence
// split across reads.
type Stream struct {
	ch       chan byte
	done     chan struct{}
	stopOnce sync.Once
	pending  []byte
	closed   bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the
// stream until r fails or Stop is called.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256), done: make(chan struct{})}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop releases the reader goroutine once nobody drains the stream. A
// goroutine blocked inside ReadByte exits after its next byte.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Done is closed once Stop has been called.
func (s *Stream) Done() <-chan struct{} { return s.done }

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in, rest := Parse(buf)
	in.Closed = s.closed
	if len(rest) > 0 {
		s.pending = append([]byte(nil), rest...)
	}
	return in
}

// Parse decodes buf. An incomplete escape sequence at the end is returned as
// rest so the caller can prepend it to the next read.
func Parse(buf []byte) (in Input, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			in.Pressed = append(in.Pressed, b)
			applyKey(&in, b)
			continue
		}

		if i+1 == len(buf) {
			return in, buf[i:]
		}
		if buf[i+1] != '[' {
			// Lone escape.
			continue
		}

		end := csiEnd(buf, i+2)
		if end < 0 {
			return in, buf[i:]
		}
		if ev, ok := parseSGRMouse(buf[i+2 : end+1]); ok {
			in.Pointer = append(in.Pointer, ev)
		}
		i = end
	}
	return in, nil
}

func applyKey(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'r', 'R':
		in.Reset = true
	case 'h', 'H', '?':
		in.Help = true
	}
}

// csiEnd returns the index of the final byte of a CSI sequence whose
// parameters start at from, or -1 if the sequence is incomplete.
func csiEnd(buf []byte, from int) int {
	for j := from; j < len(buf); j++ {
		if buf[j] >= 0x40 && buf[j] <= 0x7e {
			return j
		}
	}
	return -1
}

// parseSGRMouse decodes "<b;col;rowM" or "<b;col;rowm". Only the left button
// is reported; wheel and other buttons are dropped.
func parseSGRMouse(seq []byte) (PointerEvent, bool) {
	if len(seq) < 6 || seq[0] != '<' {
		return PointerEvent{}, false
	}
	final := seq[len(seq)-1]
	if final != 'M' && final != 'm' {
		return PointerEvent{}, false
	}

	var nums [3]int
	n := 0
	digits := false
	for _, c := range seq[1 : len(seq)-1] {
		switch {
		case c >= '0' && c <= '9':
			nums[n] = nums[n]*10 + int(c-'0')
			digits = true
		case c == ';' && digits && n < 2:
			n++
			digits = false
		default:
			return PointerEvent{}, false
		}
	}
	if n != 2 || !digits {
		return PointerEvent{}, false
	}

	cb, col, row := nums[0], nums[1]-1, nums[2]-1
	if cb&64 != 0 || cb&3 != 0 {
		return PointerEvent{}, false
	}

	ev := PointerEvent{Col: col, Row: row}
	switch {
	case final == 'm':
		ev.Kind = PointerUp
	case cb&32 != 0:
		ev.Kind = PointerMove
	default:
		ev.Kind = PointerDown
	}
	return ev, true
}

// EnableMouse turns on button and drag reporting in SGR encoding.
func EnableMouse(w io.Writer) error {
	_, err := io.WriteString(w, enableMouse)
	return err
}

// DisableMouse restores the terminal's default mouse handling.
func DisableMouse(w io.Writer) error {
	_, err := io.WriteString(w, disableMouse)
	return err
}

package game_test

import (
	"testing"
	"time"

	"github.com/duplinskyp/buzzerAPP/game"
)

// recorder is a Subscriber that keeps everything it is sent.
type recorder struct {
	msgs   []game.Message
	full   bool
	closed bool
}

func (r *recorder) Send(msg game.Message) bool {
	if r.full {
		return false
	}
	r.msgs = append(r.msgs, msg)
	return true
}

func (r *recorder) Close() {
	r.closed = true
}

func (r *recorder) types() []string {
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Type)
	}
	return out
}

func (r *recorder) count(msgType string) int {
	n := 0
	for _, m := range r.msgs {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

func (r *recorder) last(msgType string) (game.Message, bool) {
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if r.msgs[i].Type == msgType {
			return r.msgs[i], true
		}
	}
	return game.Message{}, false
}

func (r *recorder) clear() {
	r.msgs = nil
}

func ms(v int64) *int64 {
	return &v
}

func intp(v int) *int {
	return &v
}

// expire waits for the armed round timer and hands the expiry to the
// session, the way the hub loop does.
func expire(t *testing.T, s *game.Session) {
	t.Helper()

	select {
	case <-s.TimerC():
	case <-time.After(time.Second):
		t.Fatal("round timer did not fire")
	}
	s.Expire()
}

package form

import (
	"sync"
	"time"
)

// DefaultTTL is how long a banner stays up before it clears itself.
const DefaultTTL = 3 * time.Second

type Kind int

const (
	KindNone Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	}
	return ""
}

// Message is what a banner currently shows.
type Message struct {
	Kind Kind
	Text string
}

// Scheduler runs fn after d. Tests replace it to control time.
type Scheduler func(d time.Duration, fn func())

func afterFunc(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

// Notice is a success or error banner that clears itself after its TTL.
// Showing a new message restarts the countdown; a timer left over from an
// earlier message never clears a newer one.
type Notice struct {
	ttl      time.Duration
	schedule Scheduler

	mu  sync.Mutex
	msg Message
	gen uint64
}

func NewNotice(ttl time.Duration, schedule Scheduler) *Notice {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if schedule == nil {
		schedule = afterFunc
	}
	return &Notice{ttl: ttl, schedule: schedule}
}

func (n *Notice) Success(text string) { n.show(KindSuccess, text) }
func (n *Notice) Error(text string)   { n.show(KindError, text) }

func (n *Notice) show(kind Kind, text string) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.msg = Message{Kind: kind, Text: text}
	n.mu.Unlock()

	n.schedule(n.ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.gen == gen {
			n.msg = Message{}
		}
	})
}

// Clear removes the banner immediately.
func (n *Notice) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	n.msg = Message{}
}

func (n *Notice) Current() Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msg
}

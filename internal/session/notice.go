package session

// Level classifies a notice for rendering.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a user-visible notification raised outside the UI goroutine.
type Notice struct {
	Level Level
	Text  string
}

// Notices is a buffered notification stream read by the TUI.
type Notices struct {
	ch chan Notice
}

// NewNotices creates a stream holding up to buffer undelivered notices.
func NewNotices(buffer int) *Notices {
	if buffer < 1 {
		buffer = 1
	}
	return &Notices{ch: make(chan Notice, buffer)}
}

// Publish queues a notice, dropping it when the buffer is full.
func (n *Notices) Publish(notice Notice) bool {
	if n == nil {
		return false
	}
	select {
	case n.ch <- notice:
		return true
	default:
		return false
	}
}

// C returns the receive side of the stream.
func (n *Notices) C() <-chan Notice {
	return n.ch
}

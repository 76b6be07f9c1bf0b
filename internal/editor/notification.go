package editor

import (
	"time"

	"dgrid/internal/msgloop"
)

// NotificationTimeout is how long a notification stays up.
const NotificationTimeout = 5 * time.Second

// Placement is the side of the cell a notification is shown on.
type Placement string

const (
	PlaceTop    Placement = "top"
	PlaceBottom Placement = "bottom"
)

// Notification is a short message shown next to an input. It closes
// itself after NotificationTimeout.
type Notification struct {
	Message   string
	X         int
	Y         int
	Width     int
	Placement Placement

	host   Host
	timer  msgloop.Timer
	closed bool
}

func showNotification(host Host, clock msgloop.Clock, n Notification) *Notification {
	note := &n
	note.host = host
	host.ShowNotification(note)
	note.timer = clock.AfterFunc(NotificationTimeout, note.Close)
	return note
}

// Close hides the notification. It may be called more than once.
func (n *Notification) Close() {
	if n.closed {
		return
	}
	n.closed = true
	if n.timer != nil {
		n.timer.Stop()
	}
	n.host.HideNotification(n)
}

func (n *Notification) Closed() bool { return n.closed }

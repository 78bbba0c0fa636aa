package session

import (
	"sync"

	"github.com/gocircum/tunnelcore/core/tunnelerr"
)

// Status is the coarse tunnel status shown to observers.
type Status string

const (
	StatusConnecting    Status = "connecting"
	StatusConnected     Status = "connected"
	StatusDisconnecting Status = "disconnecting"
	StatusDisconnected  Status = "disconnected"
)

// NotificationType tells observers what a Notification carries.
type NotificationType int

const (
	// NotificationStatus carries a Status change.
	NotificationStatus NotificationType = iota
	// NotificationReinstalled means the tunnel configuration was
	// reinstalled.
	NotificationReinstalled
	// NotificationFailed carries the kind of a terminal failure.
	NotificationFailed
)

func (t NotificationType) String() string {
	switch t {
	case NotificationStatus:
		return "status"
	case NotificationReinstalled:
		return "reinstalled"
	case NotificationFailed:
		return "failed"
	}
	return "unknown"
}

// Notification is one entry in the observer stream.
type Notification struct {
	Type      NotificationType
	Status    Status
	ErrorKind tunnelerr.Kind
}

const subscriberBuffer = 32

// Notifier fans notifications out to subscribers. A subscriber that falls
// behind misses notifications instead of blocking the sender.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan Notification]struct{}
}

// NewNotifier creates a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[chan Notification]struct{})}
}

// Subscribe returns a channel of notifications and a function that
// unsubscribes and closes it.
func (n *Notifier) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, subscriberBuffer)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, ch)
			n.mu.Unlock()
			close(ch)
		})
	}
}

// Publish sends nt to every subscriber.
func (n *Notifier) Publish(nt Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- nt:
		default:
		}
	}
}

package client

import (
	"sync"
	"time"
)

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
)

type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// Notifier collects transient user-facing messages until they are drained.
type Notifier struct {
	mu     sync.Mutex
	items  []Notification
	nextID int64
	now    func() time.Time
}

func NewNotifier() *Notifier {
	return &Notifier{now: time.Now}
}

func (n *Notifier) Add(kind NotificationType, message string) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	item := Notification{
		ID:        n.nextID,
		Type:      kind,
		Message:   message,
		Timestamp: n.now(),
	}
	n.items = append(n.items, item)
	return item
}

func (n *Notifier) Success(message string) Notification { return n.Add(NotifySuccess, message) }
func (n *Notifier) Error(message string) Notification   { return n.Add(NotifyError, message) }
func (n *Notifier) Info(message string) Notification    { return n.Add(NotifyInfo, message) }

// Drain returns and forgets every pending notification.
func (n *Notifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := n.items
	n.items = nil
	return out
}

package submission

import "sync"

// Notifier delivers a blocking alert to the user.
type Notifier interface {
	Alert(message string)
}

// AlertQueue holds alerts until the page picks them up.
type AlertQueue struct {
	mu     sync.Mutex
	alerts []string
}

func NewAlertQueue() *AlertQueue {
	return &AlertQueue{}
}

func (q *AlertQueue) Alert(message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.alerts = append(q.alerts, message)
}

// Drain returns the pending alerts in order and empties the queue.
func (q *AlertQueue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	alerts := q.alerts
	q.alerts = nil
	if alerts == nil {
		return []string{}
	}
	return alerts
}

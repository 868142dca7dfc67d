// Package inbox holds the live notification list produced by the engine.
// It is the only stateful piece of the pipeline: the ranked list, the
// read/unread flags, and the subscriber registry.
package inbox

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopmetrics/sentinel/pkg/model"
)

// ListFunc receives the full current notification list after every change.
type ListFunc func([]model.Notification)

// CountFunc receives the unread count after every change.
type CountFunc func(int)

// Inbox is safe for concurrent use. Subscriber callbacks run outside the
// lock on a snapshot of the list, so a callback may call back into the inbox.
type Inbox struct {
	mu            sync.Mutex
	notifications []model.Notification
	listSubs      map[string]ListFunc
	countSubs     map[string]CountFunc
}

// New creates an empty inbox.
func New() *Inbox {
	return &Inbox{
		listSubs:  make(map[string]ListFunc),
		countSubs: make(map[string]CountFunc),
	}
}

// Replace swaps in the list produced by a computation cycle. Read state is
// carried forward for notifications whose ID was already present and read;
// every other entry starts unread. Returns the IDs that were not present
// before the replacement.
func (in *Inbox) Replace(list []model.Notification) []string {
	in.mu.Lock()
	existing := make(map[string]bool, len(in.notifications))
	for _, n := range in.notifications {
		existing[n.ID] = n.Read
	}

	next := make([]model.Notification, len(list))
	copy(next, list)
	var newIDs []string
	for i := range next {
		wasRead, ok := existing[next[i].ID]
		next[i].Read = ok && wasRead
		if !ok {
			newIDs = append(newIDs, next[i].ID)
		}
	}
	in.notifications = next

	publish := in.publishLocked()
	in.mu.Unlock()

	publish()
	return newIDs
}

// MarkRead marks one notification as read. Unknown IDs are a no-op, not an
// error: the entry may have been superseded by a concurrent cycle.
func (in *Inbox) MarkRead(id string) {
	in.mu.Lock()
	changed := false
	for i := range in.notifications {
		if in.notifications[i].ID == id && !in.notifications[i].Read {
			in.notifications[i].Read = true
			changed = true
			break
		}
	}
	var publish func()
	if changed {
		publish = in.publishLocked()
	}
	in.mu.Unlock()

	if publish != nil {
		publish()
	}
}

// MarkAllRead marks every notification as read.
func (in *Inbox) MarkAllRead() {
	in.mu.Lock()
	for i := range in.notifications {
		in.notifications[i].Read = true
	}
	publish := in.publishLocked()
	in.mu.Unlock()

	publish()
}

// ClearAll empties the inbox.
func (in *Inbox) ClearAll() {
	in.mu.Lock()
	in.notifications = nil
	publish := in.publishLocked()
	in.mu.Unlock()

	publish()
}

// Notifications returns a copy of the current list in ranked order.
func (in *Inbox) Notifications() []model.Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.copyLocked()
}

// UnreadCount returns the number of unread notifications.
func (in *Inbox) UnreadCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.unreadLocked()
}

// Subscribe registers a callback for list changes. The callback is invoked
// immediately with the current list and again after every mutation. The
// returned function unsubscribes.
func (in *Inbox) Subscribe(fn ListFunc) func() {
	in.mu.Lock()
	id := uuid.New().String()
	in.listSubs[id] = fn
	current := in.copyLocked()
	in.mu.Unlock()

	fn(current)

	return func() {
		in.mu.Lock()
		delete(in.listSubs, id)
		in.mu.Unlock()
	}
}

// SubscribeUnreadCount registers a callback for unread count changes, with
// the same immediate-delivery contract as Subscribe.
func (in *Inbox) SubscribeUnreadCount(fn CountFunc) func() {
	in.mu.Lock()
	id := uuid.New().String()
	in.countSubs[id] = fn
	current := in.unreadLocked()
	in.mu.Unlock()

	fn(current)

	return func() {
		in.mu.Lock()
		delete(in.countSubs, id)
		in.mu.Unlock()
	}
}

// publishLocked captures the current state and subscribers; the returned
// closure delivers to every subscriber and must be called after unlocking.
func (in *Inbox) publishLocked() func() {
	list := in.copyLocked()
	count := in.unreadLocked()
	listFns := make([]ListFunc, 0, len(in.listSubs))
	for _, fn := range in.listSubs {
		listFns = append(listFns, fn)
	}
	countFns := make([]CountFunc, 0, len(in.countSubs))
	for _, fn := range in.countSubs {
		countFns = append(countFns, fn)
	}

	return func() {
		for _, fn := range listFns {
			fn(list)
		}
		for _, fn := range countFns {
			fn(count)
		}
	}
}

func (in *Inbox) copyLocked() []model.Notification {
	out := make([]model.Notification, len(in.notifications))
	copy(out, in.notifications)
	return out
}

func (in *Inbox) unreadLocked() int {
	count := 0
	for _, n := range in.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

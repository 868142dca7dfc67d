package inbox_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmetrics/sentinel/pkg/inbox"
	"github.com/shopmetrics/sentinel/pkg/model"
)

func notif(id string, severity model.Severity) model.Notification {
	return model.Notification{
		ID:        id,
		Type:      model.TypeSystem,
		Severity:  severity,
		Title:     "t",
		Message:   "m",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInbox_ReplaceReportsNewIDs(t *testing.T) {
	in := inbox.New()

	newIDs := in.Replace([]model.Notification{notif("a", model.SeverityInfo), notif("b", model.SeverityWarning)})
	assert.ElementsMatch(t, []string{"a", "b"}, newIDs)
	assert.Equal(t, 2, in.UnreadCount())

	newIDs = in.Replace([]model.Notification{notif("a", model.SeverityInfo), notif("c", model.SeverityInfo)})
	assert.Equal(t, []string{"c"}, newIDs)
}

func TestInbox_ReadStateCarriedForward(t *testing.T) {
	in := inbox.New()
	in.Replace([]model.Notification{notif("a", model.SeverityInfo), notif("b", model.SeverityInfo)})
	in.MarkAllRead()
	require.Equal(t, 0, in.UnreadCount())

	// Same IDs stay read; the new ID starts unread.
	in.Replace([]model.Notification{
		notif("a", model.SeverityInfo),
		notif("b", model.SeverityWarning),
		notif("c", model.SeverityInfo),
	})

	list := in.Notifications()
	require.Len(t, list, 3)
	byID := make(map[string]model.Notification, len(list))
	for _, n := range list {
		byID[n.ID] = n
	}
	assert.True(t, byID["a"].Read)
	assert.True(t, byID["b"].Read)
	assert.False(t, byID["c"].Read)
	assert.Equal(t, 1, in.UnreadCount())
}

func TestInbox_ReadStateDroppedForAbsentIDs(t *testing.T) {
	in := inbox.New()
	in.Replace([]model.Notification{notif("a", model.SeverityInfo)})
	in.MarkRead("a")

	in.Replace([]model.Notification{notif("b", model.SeverityInfo)})
	// "a" comes back after a gap: its old read state is gone.
	in.Replace([]model.Notification{notif("a", model.SeverityInfo)})

	list := in.Notifications()
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)
}

func TestInbox_IncomingReadFlagIgnored(t *testing.T) {
	in := inbox.New()
	n := notif("a", model.SeverityInfo)
	n.Read = true

	in.Replace([]model.Notification{n})
	assert.Equal(t, 1, in.UnreadCount())
}

func TestInbox_MarkReadUnknownIDIsNoop(t *testing.T) {
	in := inbox.New()
	in.Replace([]model.Notification{notif("a", model.SeverityInfo)})

	assert.NotPanics(t, func() { in.MarkRead("nonexistent") })
	assert.Equal(t, 1, in.UnreadCount())
}

func TestInbox_ClearAllIdempotent(t *testing.T) {
	in := inbox.New()
	in.Replace([]model.Notification{notif("a", model.SeverityInfo)})

	in.ClearAll()
	assert.Empty(t, in.Notifications())
	assert.Equal(t, 0, in.UnreadCount())

	in.ClearAll()
	assert.Empty(t, in.Notifications())
	assert.Equal(t, 0, in.UnreadCount())
}

func TestInbox_SubscribeDeliversImmediatelyAndOnMutation(t *testing.T) {
	in := inbox.New()
	in.Replace([]model.Notification{notif("a", model.SeverityInfo)})

	var deliveries [][]model.Notification
	unsubscribe := in.Subscribe(func(list []model.Notification) {
		deliveries = append(deliveries, list)
	})

	require.Len(t, deliveries, 1)
	assert.Len(t, deliveries[0], 1)

	in.MarkRead("a")
	require.Len(t, deliveries, 2)
	assert.True(t, deliveries[1][0].Read)

	unsubscribe()
	in.ClearAll()
	assert.Len(t, deliveries, 2)
}

func TestInbox_SubscribeUnreadCount(t *testing.T) {
	in := inbox.New()
	in.Replace([]model.Notification{notif("a", model.SeverityInfo), notif("b", model.SeverityInfo)})

	var counts []int
	unsubscribe := in.SubscribeUnreadCount(func(count int) {
		counts = append(counts, count)
	})
	defer unsubscribe()

	in.MarkRead("a")
	in.MarkAllRead()

	assert.Equal(t, []int{2, 1, 0}, counts)
}

func TestInbox_EverySubscriberSeesEveryTransition(t *testing.T) {
	in := inbox.New()

	var first, second []int
	defer in.SubscribeUnreadCount(func(c int) { first = append(first, c) })()
	defer in.SubscribeUnreadCount(func(c int) { second = append(second, c) })()

	in.Replace([]model.Notification{notif("a", model.SeverityInfo)})
	in.MarkAllRead()

	assert.Equal(t, []int{0, 1, 0}, first)
	assert.Equal(t, []int{0, 1, 0}, second)
}

func TestInbox_NotificationsReturnsCopy(t *testing.T) {
	in := inbox.New()
	in.Replace([]model.Notification{notif("a", model.SeverityInfo)})

	list := in.Notifications()
	list[0].Read = true

	assert.Equal(t, 1, in.UnreadCount())
}

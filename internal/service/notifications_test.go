package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifications_ReadFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.ongoingTender("Road Works")
	t2 := f.ongoingTender("Bridge")

	_, err := f.svc.SubmitBid(ctx, t1, "u1", 100)
	require.NoError(t, err)
	_, err = f.svc.SubmitBid(ctx, t2, "u1", 200)
	require.NoError(t, err)
	_, err = f.svc.SubmitBid(ctx, t1, "u2", 300)
	require.NoError(t, err)

	list, err := f.svc.ListNotifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Greater(t, list[0].ID, list[1].ID)

	count, err := f.svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, f.svc.MarkNotificationRead(ctx, "u1", list[0].ID))
	count, err = f.svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// чужое уведомление выглядит как несуществующее
	others, err := f.svc.ListNotifications(ctx, "u2")
	require.NoError(t, err)
	require.ErrorIs(t, f.svc.MarkNotificationRead(ctx, "u1", others[0].ID), ErrNotificationNotFound)

	require.NoError(t, f.svc.MarkAllNotificationsRead(ctx, "u1"))
	count, err = f.svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, count)

	count, err = f.svc.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestNotifications_Anonymous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListNotifications(ctx, "")
	require.ErrorIs(t, err, ErrAuthenticationRequired)
	_, err = f.svc.UnreadCount(ctx, "")
	require.ErrorIs(t, err, ErrAuthenticationRequired)
	require.ErrorIs(t, f.svc.MarkNotificationRead(ctx, "", 1), ErrAuthenticationRequired)
	require.ErrorIs(t, f.svc.MarkAllNotificationsRead(ctx, ""), ErrAuthenticationRequired)
}

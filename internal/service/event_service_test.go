package service

import (
	"context"
	"testing"
	"time"

	"gamehub/internal/model"
	"gamehub/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureEvent(name string) EventInput {
	start := time.Now().Add(24 * time.Hour)
	return EventInput{Name: name, StartDate: start, EndDate: start.Add(2 * time.Hour)}
}

func TestCreateEventValidatesDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.events.CreateEvent(ctx, futureEvent("LAN"))
	require.NoError(t, err)

	in := futureEvent("Backwards")
	in.EndDate = in.StartDate.Add(-time.Hour)
	_, err = env.events.CreateEvent(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	past := time.Now().Add(-48 * time.Hour)
	_, err = env.events.CreateEvent(ctx, EventInput{Name: "Past", StartDate: past, EndDate: past.Add(time.Hour)})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = env.events.CreateEvent(ctx, futureEvent(" "))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestParticipantsAreIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	event, err := env.events.CreateEvent(ctx, futureEvent("LAN"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = env.events.AddParticipant(ctx, event.ID, alice.ID)
		require.NoError(t, err)
	}
	users, err := env.events.GetParticipants(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	for i := 0; i < 2; i++ {
		_, err = env.events.RemoveParticipant(ctx, event.ID, alice.ID)
		require.NoError(t, err)
	}
	users, err = env.events.GetParticipants(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = env.events.AddParticipant(ctx, 999, alice.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = env.events.AddParticipant(ctx, event.ID, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = env.events.GetParticipants(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateEventNotifiesParticipants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	event, err := env.events.CreateEvent(ctx, futureEvent("LAN"))
	require.NoError(t, err)
	_, err = env.events.AddParticipant(ctx, event.ID, alice.ID)
	require.NoError(t, err)

	name := "LAN Party"
	updated, err := env.events.UpdateEvent(ctx, event.ID, EventUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	list, err := env.notifications.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.NotificationEventUpdated, list[0].Type)
	require.NotNil(t, list[0].EventID)
	assert.Equal(t, event.ID, *list[0].EventID)

	list, err = env.notifications.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	badEnd := event.StartDate.Add(-time.Minute)
	_, err = env.events.UpdateEvent(ctx, event.ID, EventUpdate{EndDate: &badEnd})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestDeleteEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	event, err := env.events.CreateEvent(ctx, futureEvent("LAN"))
	require.NoError(t, err)
	_, err = env.events.AddParticipant(ctx, event.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, env.events.DeleteEvent(ctx, event.ID))
	assert.ErrorIs(t, env.events.DeleteEvent(ctx, event.ID), apperr.ErrNotFound)

	var rows int64
	require.NoError(t, env.orm.Table("event_participant").Count(&rows).Error)
	assert.Zero(t, rows)
}

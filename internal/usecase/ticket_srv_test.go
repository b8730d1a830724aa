package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticketReq(sessionID uuid.UUID, row, col int) *request.CreateTicketRequest {
	return &request.CreateTicketRequest{
		SessionID: sessionID.String(),
		SeatRow:   row,
		SeatCol:   col,
	}
}

func userActor(user *entity.User) Actor {
	return Actor{ID: user.ID, Role: user.Role}
}

func TestCreateTicket(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	user := env.seedUser("alice", "alice@example.com")

	resp, err := env.ticket.CreateTicket(context.Background(), userActor(user), ticketReq(session.ID, 2, 3))
	require.NoError(t, err)

	assert.Equal(t, session.ID.String(), resp.SessionID)
	assert.Equal(t, user.ID.String(), resp.UserID)
	assert.Equal(t, 2, resp.SeatRow)
	assert.Equal(t, 3, resp.SeatCol)
}

func TestCreateTicketSeatOccupied(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	alice := env.seedUser("alice", "alice@example.com")
	bob := env.seedUser("bob", "bob@example.com")
	ctx := context.Background()

	_, err := env.ticket.CreateTicket(ctx, userActor(alice), ticketReq(session.ID, 2, 3))
	require.NoError(t, err)

	_, err = env.ticket.CreateTicket(ctx, userActor(bob), ticketReq(session.ID, 2, 3))
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// A different seat still works.
	_, err = env.ticket.CreateTicket(ctx, userActor(bob), ticketReq(session.ID, 2, 4))
	require.NoError(t, err)
}

func TestCreateTicketOutsideGrid(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 3, 4)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	user := env.seedUser("alice", "alice@example.com")
	ctx := context.Background()

	for _, seat := range []struct{ row, col int }{
		{4, 1}, {1, 5}, {4, 5},
	} {
		_, err := env.ticket.CreateTicket(ctx, userActor(user), ticketReq(session.ID, seat.row, seat.col))
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	}

	// The far corner is still inside.
	_, err := env.ticket.CreateTicket(ctx, userActor(user), ticketReq(session.ID, 3, 4))
	require.NoError(t, err)
}

func TestCreateTicketSessionStarted(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 30*time.Minute)
	user := env.seedUser("alice", "alice@example.com")

	env.clock.Advance(30 * time.Minute)

	_, err := env.ticket.CreateTicket(context.Background(), userActor(user), ticketReq(session.ID, 1, 1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateTicketSessionFull(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 1, 2)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	alice := env.seedUser("alice", "alice@example.com")
	bob := env.seedUser("bob", "bob@example.com")
	carol := env.seedUser("carol", "carol@example.com")
	ctx := context.Background()

	_, err := env.ticket.CreateTicket(ctx, userActor(alice), ticketReq(session.ID, 1, 1))
	require.NoError(t, err)
	_, err = env.ticket.CreateTicket(ctx, userActor(bob), ticketReq(session.ID, 1, 2))
	require.NoError(t, err)

	_, err = env.ticket.CreateTicket(ctx, userActor(carol), ticketReq(session.ID, 1, 1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateTicketPerUserLimit(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	user := env.seedUser("alice", "alice@example.com")
	ctx := context.Background()

	for i := 0; i < maxTicketsPerUserPerSession; i++ {
		_, err := env.ticket.CreateTicket(ctx, userActor(user),
			ticketReq(session.ID, 1+i/5, 1+i%5))
		require.NoError(t, err)
	}

	_, err := env.ticket.CreateTicket(ctx, userActor(user), ticketReq(session.ID, 5, 5))
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Another user is not affected by the first user's limit.
	bob := env.seedUser("bob", "bob@example.com")
	_, err = env.ticket.CreateTicket(ctx, userActor(bob), ticketReq(session.ID, 5, 5))
	require.NoError(t, err)
}

func TestCreateTicketConcurrentSameSeat(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	alice := env.seedUser("alice", "alice@example.com")
	bob := env.seedUser("bob", "bob@example.com")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, actor := range []Actor{userActor(alice), userActor(bob)} {
		wg.Add(1)
		go func(i int, actor Actor) {
			defer wg.Done()
			_, errs[i] = env.ticket.CreateTicket(context.Background(), actor, ticketReq(session.ID, 3, 3))
		}(i, actor)
	}
	wg.Wait()

	// Exactly one claim wins, the other sees the seat as occupied.
	if errs[0] == nil {
		require.Error(t, errs[1])
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(errs[1]))
	} else {
		require.NoError(t, errs[1])
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(errs[0]))
	}
	assert.Len(t, env.state.tickets, 1)
}

func TestCreateTicketUnknownSession(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser("alice", "alice@example.com")

	_, err := env.ticket.CreateTicket(context.Background(), userActor(user), ticketReq(uuid.New(), 1, 1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteTicketWithinWindow(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	user := env.seedUser("alice", "alice@example.com")
	ticket := env.seedTicket(session, user, 1, 1)

	err := env.ticket.DeleteTicket(context.Background(), userActor(user), ticket.ID.String())
	require.NoError(t, err)
	assert.Empty(t, env.state.tickets)
}

func TestDeleteTicketCutoff(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 2*time.Hour)
	user := env.seedUser("alice", "alice@example.com")
	ticket := env.seedTicket(session, user, 1, 1)
	ctx := context.Background()

	// 61 minutes before the start: still allowed.
	env.clock.Advance(59 * time.Minute)
	err := env.ticket.DeleteTicket(ctx, userActor(user), ticket.ID.String())
	require.NoError(t, err)

	// Exactly one hour before the start: refused.
	ticket = env.seedTicket(session, user, 1, 1)
	env.clock.Advance(1 * time.Minute)
	err = env.ticket.DeleteTicket(ctx, userActor(user), ticket.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))
}

func TestDeleteTicketAdminOverride(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 30*time.Minute)
	user := env.seedUser("alice", "alice@example.com")
	ticket := env.seedTicket(session, user, 1, 1)

	// Inside the cutoff the owner is refused, the admin is not.
	err := env.ticket.DeleteTicket(context.Background(), userActor(user), ticket.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))

	err = env.ticket.DeleteTicket(context.Background(), env.admin(), ticket.ID.String())
	require.NoError(t, err)
}

func TestDeleteTicketOwnership(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	alice := env.seedUser("alice", "alice@example.com")
	bob := env.seedUser("bob", "bob@example.com")
	ticket := env.seedTicket(session, alice, 1, 1)

	err := env.ticket.DeleteTicket(context.Background(), userActor(bob), ticket.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}

func TestGetMyTickets(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	alice := env.seedUser("alice", "alice@example.com")
	bob := env.seedUser("bob", "bob@example.com")
	env.seedTicket(session, alice, 1, 1)
	env.seedTicket(session, alice, 1, 2)
	env.seedTicket(session, bob, 2, 1)

	tickets, err := env.ticket.GetMyTickets(context.Background(), userActor(alice))
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestGetTicketByIDOwnership(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	alice := env.seedUser("alice", "alice@example.com")
	bob := env.seedUser("bob", "bob@example.com")
	ticket := env.seedTicket(session, alice, 1, 1)
	ctx := context.Background()

	_, err := env.ticket.GetTicketByID(ctx, userActor(alice), ticket.ID.String())
	require.NoError(t, err)

	_, err = env.ticket.GetTicketByID(ctx, userActor(bob), ticket.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	// Admins may inspect any ticket.
	_, err = env.ticket.GetTicketByID(ctx, env.admin(), ticket.ID.String())
	require.NoError(t, err)
}

func TestGetTicketsBySessionRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	room := env.seedRoom(1, 5, 5)
	movie := env.seedMovie("Heat", 120)
	session := env.seedSession(room, movie, 24*time.Hour)
	alice := env.seedUser("alice", "alice@example.com")
	env.seedTicket(session, alice, 1, 1)
	ctx := context.Background()

	_, err := env.ticket.GetTicketsBySession(ctx, userActor(alice), session.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	tickets, err := env.ticket.GetTicketsBySession(ctx, env.admin(), session.ID.String())
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

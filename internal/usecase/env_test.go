package usecase

import (
	"time"

	"cinema-ticketing/internal/catalog"
	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// baseTime is the fixed "now" every test clock starts at.
var baseTime = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	state    *state
	repo     *repository.Repository
	db       *fakeDB
	clock    *clockwork.FakeClock
	notifier *fakeNotifier
	catalog  *fakeCatalog

	auth    AuthService
	user    UserService
	room    RoomService
	movie   MovieService
	session SessionService
	ticket  TicketService
}

func newTestEnv() *testEnv {
	st := newState()
	repo := st.repository()
	db := &fakeDB{s: st}
	clock := clockwork.NewFakeClockAt(baseTime)
	notifier := newFakeNotifier()
	source := &fakeCatalog{movies: make(map[int64]*catalog.MovieDetail)}
	log := zap.NewNop()

	return &testEnv{
		state:    st,
		repo:     repo,
		db:       db,
		clock:    clock,
		notifier: notifier,
		catalog:  source,

		auth:    NewAuthService(repo, clock, utils.AuthConfig{TokenExpiryHours: 24}, log),
		user:    NewUserService(repo, clock, log),
		room:    NewRoomService(repo, clock, log),
		movie:   NewMovieService(repo, source, clock, log),
		session: NewSessionService(db, repo, notifier, clock, log),
		ticket:  NewTicketService(db, repo, clock, log),
	}
}

func (e *testEnv) admin() Actor {
	return Actor{ID: uuid.New(), Role: entity.RoleAdmin}
}

func (e *testEnv) seedUser(username, email string) *entity.User {
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: baseTime, UpdatedAt: baseTime},
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		Role:         entity.RoleUser,
	}
	e.state.users[user.ID] = user
	return user
}

func (e *testEnv) seedRoom(number, rows, cols int) *entity.Room {
	room := &entity.Room{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: baseTime, UpdatedAt: baseTime},
		Number:  number,
		Rows:    rows,
		Columns: cols,
	}
	e.state.rooms[room.ID] = room
	return room
}

func (e *testEnv) seedMovie(title string, durationMinutes int) *entity.Movie {
	movie := &entity.Movie{
		Base:              entity.Base{ID: uuid.New(), CreatedAt: baseTime, UpdatedAt: baseTime},
		Title:             title,
		AgeRating:         "PG-13",
		ReleaseDate:       baseTime.AddDate(0, -1, 0),
		DurationInMinutes: durationMinutes,
		TmdbID:            int64(len(e.state.movies) + 1),
		Status:            entity.MovieStatusListed,
	}
	e.state.movies[movie.ID] = movie
	return movie
}

// seedSession plants a session starting at the given offset from baseTime.
func (e *testEnv) seedSession(room *entity.Room, movie *entity.Movie, startIn time.Duration) *entity.Session {
	start := baseTime.Add(startIn)
	session := &entity.Session{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: baseTime, UpdatedAt: baseTime},
		RoomID:    room.ID,
		MovieID:   movie.ID,
		ShowDate:  time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		StartTime: time.Date(0, time.January, 1, start.Hour(), start.Minute(), 0, 0, time.UTC),
		StartsAt:  start,
		EndsAt:    start.Add(time.Duration(movie.DurationInMinutes) * time.Minute),
		Price:     12.50,
	}
	e.state.sessions[session.ID] = session
	return session
}

func (e *testEnv) seedTicket(session *entity.Session, user *entity.User, row, col int) *entity.Ticket {
	ticket := &entity.Ticket{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: baseTime},
		SessionID:  session.ID,
		UserID:     user.ID,
		SeatRow:    row,
		SeatCol:    col,
	}
	e.state.tickets[ticket.ID] = ticket
	return ticket
}

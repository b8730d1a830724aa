package usecase

import (
	"context"
	"sync"
	"time"

	"cinema-ticketing/internal/catalog"
	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// state is the shared in-memory backing store for the repository fakes.
// txMu stands in for the database transaction: Begin takes it, Commit or
// Rollback releases it, so transactional service flows serialize exactly
// like they would against row locks.
type state struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	rooms    map[uuid.UUID]*entity.Room
	movies   map[uuid.UUID]*entity.Movie
	sessions map[uuid.UUID]*entity.Session
	tickets  map[uuid.UUID]*entity.Ticket
	users    map[uuid.UUID]*entity.User
	tokens   map[string]*entity.AuthToken
}

func newState() *state {
	return &state{
		rooms:    make(map[uuid.UUID]*entity.Room),
		movies:   make(map[uuid.UUID]*entity.Movie),
		sessions: make(map[uuid.UUID]*entity.Session),
		tickets:  make(map[uuid.UUID]*entity.Ticket),
		users:    make(map[uuid.UUID]*entity.User),
		tokens:   make(map[string]*entity.AuthToken),
	}
}

func (s *state) repository() *repository.Repository {
	return &repository.Repository{
		User:      &fakeUserRepo{s: s},
		AuthToken: &fakeAuthTokenRepo{s: s},
		Room:      &fakeRoomRepo{s: s},
		Movie:     &fakeMovieRepo{s: s},
		Session:   &fakeSessionRepo{s: s},
		Ticket:    &fakeTicketRepo{s: s},
	}
}

// ---- fake database handle ----

type fakeDB struct {
	s *state
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("raw query on fake database")
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("raw query on fake database")
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	panic("raw exec on fake database")
}

func (db *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	db.s.txMu.Lock()
	return &fakeTx{s: db.s}, nil
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close()                         {}

type fakeTx struct {
	s    *state
	done bool
}

func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("raw query on fake transaction")
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("raw query on fake transaction")
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	panic("raw exec on fake transaction")
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if !tx.done {
		tx.done = true
		tx.s.txMu.Unlock()
	}
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if !tx.done {
		tx.done = true
		tx.s.txMu.Unlock()
	}
	return nil
}

// ---- room repository ----

type fakeRoomRepo struct {
	s *state
}

func (r *fakeRoomRepo) Create(ctx context.Context, room *entity.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *room
	r.s.rooms[room.ID] = &cp
	return nil
}

func (r *fakeRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (r *fakeRoomRepo) FindByNumber(ctx context.Context, number int) (*entity.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, room := range r.s.rooms {
		if room.Number == number {
			cp := *room
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRoomRepo) FindAll(ctx context.Context) ([]*entity.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var rooms []*entity.Room
	for _, room := range r.s.rooms {
		cp := *room
		rooms = append(rooms, &cp)
	}
	return rooms, nil
}

func (r *fakeRoomRepo) Update(ctx context.Context, room *entity.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *room
	r.s.rooms[room.ID] = &cp
	return nil
}

func (r *fakeRoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.rooms, id)
	return nil
}

func (r *fakeRoomRepo) LockByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Room, error) {
	return r.FindByID(ctx, id)
}

// ---- movie repository ----

type fakeMovieRepo struct {
	s *state
}

func (r *fakeMovieRepo) Create(ctx context.Context, movie *entity.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *movie
	r.s.movies[movie.ID] = &cp
	return nil
}

func (r *fakeMovieRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	movie, ok := r.s.movies[id]
	if !ok {
		return nil, nil
	}
	cp := *movie
	return &cp, nil
}

func (r *fakeMovieRepo) FindByTmdbID(ctx context.Context, tmdbID int64) (*entity.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, movie := range r.s.movies {
		if movie.TmdbID == tmdbID {
			cp := *movie
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovieRepo) FindAll(ctx context.Context, includeDelisted bool) ([]*entity.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var movies []*entity.Movie
	for _, movie := range r.s.movies {
		if !includeDelisted && movie.Status == entity.MovieStatusDelisted {
			continue
		}
		cp := *movie
		movies = append(movies, &cp)
	}
	return movies, nil
}

func (r *fakeMovieRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MovieStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if movie, ok := r.s.movies[id]; ok {
		movie.Status = status
	}
	return nil
}

func (r *fakeMovieRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.movies, id)
	return nil
}

// ---- session repository ----

type fakeSessionRepo struct {
	s *state
}

func (r *fakeSessionRepo) Create(ctx context.Context, q database.Queryer, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *session
	r.s.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

func (r *fakeSessionRepo) LockByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Session, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSessionRepo) FindByRoomID(ctx context.Context, roomID uuid.UUID) ([]*entity.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var sessions []*entity.Session
	for _, session := range r.s.sessions {
		if session.RoomID == roomID {
			cp := *session
			sessions = append(sessions, &cp)
		}
	}
	return sessions, nil
}

func (r *fakeSessionRepo) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var sessions []*entity.Session
	for _, session := range r.s.sessions {
		if session.MovieID == movieID {
			cp := *session
			sessions = append(sessions, &cp)
		}
	}
	return sessions, nil
}

func (r *fakeSessionRepo) HasOverlap(ctx context.Context, q database.Queryer, roomID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, session := range r.s.sessions {
		if session.RoomID != roomID || session.ID == excludeID {
			continue
		}
		if session.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, q database.Queryer, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *session
	r.s.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r *fakeSessionRepo) CountByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, session := range r.s.sessions {
		if session.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSessionRepo) CountByMovieID(ctx context.Context, movieID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, session := range r.s.sessions {
		if session.MovieID == movieID {
			count++
		}
	}
	return count, nil
}

// ---- ticket repository ----

type fakeTicketRepo struct {
	s *state
}

func (r *fakeTicketRepo) Create(ctx context.Context, q database.Queryer, ticket *entity.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.tickets {
		if other.SessionID == ticket.SessionID &&
			other.SeatRow == ticket.SeatRow && other.SeatCol == ticket.SeatCol {
			// Mirrors the unique index on (session_id, seat_row, seat_col).
			return &pgconn.PgError{Code: "23505"}
		}
	}
	cp := *ticket
	r.s.tickets[ticket.ID] = &cp
	return nil
}

func (r *fakeTicketRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *ticket
	return &cp, nil
}

func (r *fakeTicketRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var tickets []*entity.Ticket
	for _, ticket := range r.s.tickets {
		if ticket.UserID == userID {
			cp := *ticket
			tickets = append(tickets, &cp)
		}
	}
	return tickets, nil
}

func (r *fakeTicketRepo) FindBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*entity.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var tickets []*entity.Ticket
	for _, ticket := range r.s.tickets {
		if ticket.SessionID == sessionID {
			cp := *ticket
			tickets = append(tickets, &cp)
		}
	}
	return tickets, nil
}

func (r *fakeTicketRepo) OccupiedSeats(ctx context.Context, q database.Queryer, sessionID uuid.UUID) ([]repository.SeatRef, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var seats []repository.SeatRef
	for _, ticket := range r.s.tickets {
		if ticket.SessionID == sessionID {
			seats = append(seats, repository.SeatRef{Row: ticket.SeatRow, Col: ticket.SeatCol})
		}
	}
	return seats, nil
}

func (r *fakeTicketRepo) SeatTaken(ctx context.Context, q database.Queryer, sessionID uuid.UUID, row, col int) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, ticket := range r.s.tickets {
		if ticket.SessionID == sessionID && ticket.SeatRow == row && ticket.SeatCol == col {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTicketRepo) CountBySession(ctx context.Context, q database.Queryer, sessionID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, ticket := range r.s.tickets {
		if ticket.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountByUserAndSession(ctx context.Context, q database.Queryer, userID, sessionID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, ticket := range r.s.tickets {
		if ticket.UserID == userID && ticket.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tickets, id)
	return nil
}

func (r *fakeTicketRepo) DeleteBySession(ctx context.Context, q database.Queryer, sessionID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, ticket := range r.s.tickets {
		if ticket.SessionID == sessionID {
			delete(r.s.tickets, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTicketRepo) HoldersBySession(ctx context.Context, q database.Queryer, sessionID uuid.UUID) ([]repository.TicketHolder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[uuid.UUID]bool)
	var holders []repository.TicketHolder
	for _, ticket := range r.s.tickets {
		if ticket.SessionID != sessionID || seen[ticket.UserID] {
			continue
		}
		seen[ticket.UserID] = true
		email := ""
		if user, ok := r.s.users[ticket.UserID]; ok {
			email = user.Email
		}
		holders = append(holders, repository.TicketHolder{UserID: ticket.UserID, Email: email})
	}
	return holders, nil
}

func (r *fakeTicketRepo) ExistsFutureByUser(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, ticket := range r.s.tickets {
		if ticket.UserID != userID {
			continue
		}
		if session, ok := r.s.sessions[ticket.SessionID]; ok && session.StartsAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

// ---- user repository ----

type fakeUserRepo struct {
	s *state
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	// The schema cascades tickets and auth tokens with the user row.
	for ticketID, ticket := range r.s.tickets {
		if ticket.UserID == id {
			delete(r.s.tickets, ticketID)
		}
	}
	for token, row := range r.s.tokens {
		if row.UserID == id {
			delete(r.s.tokens, token)
		}
	}
	return nil
}

// ---- auth token repository ----

type fakeAuthTokenRepo struct {
	s *state
}

func (r *fakeAuthTokenRepo) Create(ctx context.Context, token *entity.AuthToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *token
	r.s.tokens[token.Token] = &cp
	return nil
}

func (r *fakeAuthTokenRepo) FindValid(ctx context.Context, token string, now time.Time) (*entity.AuthToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.tokens[token]
	if !ok || !row.ExpiresAt.After(now) {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeAuthTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tokens, token)
	return nil
}

// ---- outbound fakes ----

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	errCh chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{errCh: make(chan struct{}, 64)}
}

func (n *fakeNotifier) NotifyCancellation(recipient string, showDate, startTime time.Time) error {
	n.mu.Lock()
	n.sent = append(n.sent, recipient)
	n.mu.Unlock()
	n.errCh <- struct{}{}
	return nil
}

// waitForNotices blocks until count notices were dispatched or the timeout
// elapses.
func (n *fakeNotifier) waitForNotices(count int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for i := 0; i < count; i++ {
		select {
		case <-n.errCh:
		case <-deadline:
			return false
		}
	}
	return true
}

func (n *fakeNotifier) recipients() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

type fakeCatalog struct {
	movies map[int64]*catalog.MovieDetail
}

func (c *fakeCatalog) MovieDetail(ctx context.Context, tmdbID int64) (*catalog.MovieDetail, error) {
	detail, ok := c.movies[tmdbID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return detail, nil
}

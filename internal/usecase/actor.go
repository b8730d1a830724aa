package usecase

import (
	"context"
	"time"

	"cinema-ticketing/internal/catalog"
	"cinema-ticketing/internal/data/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation. Handlers build it from
// the request context and thread it explicitly into every service call; the
// services never reach into ambient state for identity.
type Actor struct {
	ID   uuid.UUID
	Role entity.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// CancellationNotifier delivers a session-cancellation notice to one ticket
// holder. Implementations are best-effort; the caller logs failures and
// never propagates them.
type CancellationNotifier interface {
	NotifyCancellation(recipient string, showDate, startTime time.Time) error
}

// CatalogSource supplies movie metadata from the external catalog at import
// time.
type CatalogSource interface {
	MovieDetail(ctx context.Context, tmdbID int64) (*catalog.MovieDetail, error)
}

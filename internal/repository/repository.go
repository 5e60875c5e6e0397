package repository

import (
	"context"
	"database/sql"
	"errors"

	"smart_channels/internal/models"
)

// ErrNotFound is returned by updates that matched no row.
var ErrNotFound = errors.New("not found")

type Authorization interface {
	Create(username, hash string, limits models.Limits) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type UserRepo interface {
	GetByUsername(username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdateLimits(ctx context.Context, id int, l models.Limits) error
	UpdateAPIRateLimit(ctx context.Context, id int, rule *string) error
}

type ChannelRepo interface {
	Create(ctx context.Context, ch *models.Channel) error
	NextDeviceID(ctx context.Context) (int, error)
	Get(ctx context.Context, id int) (*models.Channel, error)
	Find(ctx context.Context, id int) (*models.Channel, error)
	ListByUser(ctx context.Context, userID int) ([]models.Channel, error)
	SaveParams(ctx context.Context, chs ...*models.Channel) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.ChannelEvent) error
	List(ctx context.Context, f EventFilter) ([]models.ChannelEvent, error)
}

type Repository struct {
	ChannelRepo ChannelRepo
	EventRepo   EventRepo
	UserRepo    UserRepo
	Auth        Authorization
}

func NewRepository(db *sql.DB) *Repository {
	users := NewUserRepository(db)
	return &Repository{
		ChannelRepo: NewChannelSQLite(db),
		EventRepo:   NewEventSQLite(db),
		UserRepo:    users,
		Auth:        users,
	}
}

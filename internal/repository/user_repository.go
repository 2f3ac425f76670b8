package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/favourites-api/internal/domain"
)

// UserRepository defines persistence access for accounts and their favourites.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetFavourites(ctx context.Context, userID string) ([]string, error)
	AddFavourite(ctx context.Context, userID, itemID string) ([]string, error)
	RemoveFavourite(ctx context.Context, userID, itemID string) ([]string, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, username, password_hash, favourites)
        VALUES ($1, $2, $3, '{}')
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return err
	}
	user.Favourites = []string{}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
        SELECT id, username, password_hash, favourites, created_at, updated_at
        FROM users WHERE username=$1`

	var user domain.User
	if err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Favourites,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) GetFavourites(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT favourites FROM users WHERE id=$1`
	return r.scanFavourites(ctx, query, userID)
}

// AddFavourite appends itemID unless already present, in one statement so
// concurrent adds on the same row cannot produce duplicates.
func (r *userRepository) AddFavourite(ctx context.Context, userID, itemID string) ([]string, error) {
	const query = `
        UPDATE users
        SET favourites = CASE WHEN $2::text = ANY(favourites) THEN favourites
                              ELSE array_append(favourites, $2::text) END,
            updated_at = NOW()
        WHERE id=$1
        RETURNING favourites`
	return r.scanFavourites(ctx, query, userID, itemID)
}

func (r *userRepository) RemoveFavourite(ctx context.Context, userID, itemID string) ([]string, error) {
	const query = `
        UPDATE users
        SET favourites = array_remove(favourites, $2::text),
            updated_at = NOW()
        WHERE id=$1
        RETURNING favourites`
	return r.scanFavourites(ctx, query, userID, itemID)
}

func (r *userRepository) scanFavourites(ctx context.Context, query string, args ...any) ([]string, error) {
	var favourites []string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&favourites); err != nil {
		return nil, notFound(err)
	}
	if favourites == nil {
		favourites = []string{}
	}
	return favourites, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

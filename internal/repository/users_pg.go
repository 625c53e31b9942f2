package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"order-management/internal/domain"
)

type UserRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	CreateToken(ctx context.Context, userID int64, hash string) (int64, error)
	GetToken(ctx context.Context, tokenID int64) (*domain.APIToken, error)
	TouchToken(ctx context.Context, tokenID int64) error
	DeleteToken(ctx context.Context, tokenID int64) error
}

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, password, created_at
		FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, password, created_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, password = EXCLUDED.password
		RETURNING id, created_at`,
		u.Name, u.Email, u.Password,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) CreateToken(ctx context.Context, userID int64, hash string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO api_tokens (user_id, token_hash)
		VALUES ($1, $2)
		RETURNING id`, userID, hash,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create token: %w", err)
	}
	return id, nil
}

func (r *UserRepository) GetToken(ctx context.Context, tokenID int64) (*domain.APIToken, error) {
	var t domain.APIToken
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, token_hash, created_at, last_used_at
		FROM api_tokens WHERE id = $1`, tokenID,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.LastUsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get token %d: %w", tokenID, err)
	}
	return &t, nil
}

func (r *UserRepository) TouchToken(ctx context.Context, tokenID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE api_tokens SET last_used_at = now() WHERE id = $1`, tokenID)
	return err
}

func (r *UserRepository) DeleteToken(ctx context.Context, tokenID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM api_tokens WHERE id = $1`, tokenID)
	if err != nil {
		return fmt.Errorf("delete token %d: %w", tokenID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

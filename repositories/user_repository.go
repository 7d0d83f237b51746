package repositories

import (
	"context"
	"fmt"
	"strings"

	"storefront/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, address, city,
	postal_code, country, role, is_active, last_login_at, created_at, updated_at`

type UserRepository struct {
	db DBPool
}

func NewUserRepository(db DBPool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Address,
		&user.City,
		&user.PostalCode,
		&user.Country,
		&user.Role,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, phone, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		strings.ToLower(user.Email),
		user.Password,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	return requireAffected(r.db.Exec(ctx, `
		UPDATE users SET first_name = $1, last_name = $2, phone = $3, address = $4, city = $5,
			postal_code = $6, country = $7, updated_at = NOW()
		WHERE id = $8`,
		user.FirstName, user.LastName, user.Phone, user.Address, user.City,
		user.PostalCode, user.Country, user.ID))
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	return requireAffected(r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id))
}

// UpsertAdmin creates the account or promotes an existing one to admin,
// resetting its password hash.
func (r *UserRepository) UpsertAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, 'Admin', 'User', 'admin', TRUE)
		ON CONFLICT (email) DO UPDATE SET role = 'admin', password_hash = EXCLUDED.password_hash,
			is_active = TRUE, updated_at = NOW()`,
		strings.ToLower(email), passwordHash)
	return err
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

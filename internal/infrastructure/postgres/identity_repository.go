package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
)

var (
	_ repository.CredentialRepository = (*CredentialRepo)(nil)
	_ repository.AdminRepository      = (*AdminRepo)(nil)
)

// CredentialRepo credenciales del proveedor de identidad local.
type CredentialRepo struct {
	q Querier
}

// NewCredentialRepository construye el adaptador de credenciales.
func NewCredentialRepository(q Querier) *CredentialRepo {
	return &CredentialRepo{q: q}
}

// Create persiste una credencial nueva.
func (r *CredentialRepo) Create(ctx context.Context, cred *entity.Credential) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO credentials (uid, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		cred.UID, cred.Email, cred.PasswordHash, cred.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

// GetByEmail devuelve (nil, nil) si no hay credencial para el email.
func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	var c entity.Credential
	err := r.q.QueryRow(ctx,
		`SELECT uid, email, password_hash, created_at FROM credentials WHERE email = $1`, email,
	).Scan(&c.UID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &c, nil
}

// AdminRepo lista de administradores (tabla admins).
type AdminRepo struct {
	q Querier
}

// NewAdminRepository construye el adaptador de la lista de administradores.
func NewAdminRepository(q Querier) *AdminRepo {
	return &AdminRepo{q: q}
}

// ListEmails devuelve todos los emails de la lista.
func (r *AdminRepo) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT email FROM admins ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()
	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// Add agrega un email; si ya existe no hace nada.
func (r *AdminRepo) Add(ctx context.Context, email string) error {
	_, err := r.q.Exec(ctx, `INSERT INTO admins (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`, email)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

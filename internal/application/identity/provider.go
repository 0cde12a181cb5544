// Package identity proveedor de identidad local: registro, inicio y cierre de sesión,
// validación de tokens y el feed de cambios de sesión.
package identity

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Hotel-api/internal/application/dto"
	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/pkg/jwt"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Provider casos de uso de autenticación.
type Provider struct {
	creds    repository.CredentialRepository
	users    repository.UserRepository
	sessions *Sessions
	jwtCfg   JWTConfig
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

// NewProvider construye el proveedor.
func NewProvider(creds repository.CredentialRepository, users repository.UserRepository, sessions *Sessions, jwtCfg JWTConfig, log *logger.Logger) *Provider {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Provider{
		creds:    creds,
		users:    users,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		validate: v,
		log:      log,
		now:      time.Now,
	}
}

// Sessions feed de cambios de sesión.
func (p *Provider) Sessions() *Sessions { return p.sessions }

// Register crea la credencial y el documento users, e inicia sesión.
func (p *Provider) Register(ctx context.Context, in dto.RegisterRequest) (*entity.User, *entity.Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := p.check(in); err != nil {
		return nil, nil, err
	}
	existing, err := p.creds.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	now := p.now().UTC()
	uid := uuid.New().String()
	user := &entity.User{
		ID:           uuid.New().String(),
		AuthIdentity: uid,
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		CreatedAt:    now,
	}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}
	cred := &entity.Credential{UID: uid, Email: in.Email, PasswordHash: string(hash), CreatedAt: now}
	if err := p.creds.Create(ctx, cred); err != nil {
		// sin credencial el perfil queda inaccesible: se deshace
		if derr := p.users.Delete(ctx, user.ID); derr != nil {
			p.log.Error().Err(derr).Str("uid", uid).Msg("no se pudo deshacer el perfil tras fallar la credencial")
		}
		return nil, nil, err
	}
	p.log.Info().Str("uid", uid).Msg("usuario registrado")

	session, err := p.issue(uid, in.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// SignIn verifica email/password y emite una sesión.
func (p *Provider) SignIn(ctx context.Context, in dto.LoginRequest) (*entity.Session, *entity.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := p.check(in); err != nil {
		return nil, nil, err
	}
	cred, err := p.creds.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, err
	}
	if cred == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, domain.ErrUnauthorized
	}
	user, err := p.users.GetByAuthIdentity(ctx, cred.UID)
	if err != nil {
		return nil, nil, err
	}
	session, err := p.issue(cred.UID, cred.Email)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// SignInWithProvider inicio federado (popup). No hay proveedores externos configurados.
func (p *Provider) SignInWithProvider(_ context.Context, provider string) (*entity.Session, error) {
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, provider)
}

// SignOut revoca el token y avisa a los suscriptores con sesión nil.
func (p *Provider) SignOut(_ context.Context, s *entity.Session) {
	if s == nil {
		return
	}
	p.sessions.revoke(s.TokenID, s.ExpiresAt)
	p.sessions.publish(SessionEvent{UID: s.UID, Email: s.Email})
	p.log.Info().Str("uid", s.UID).Msg("sesión cerrada")
}

// Authenticate valida un token y devuelve la sesión. Tokens revocados se rechazan.
func (p *Provider) Authenticate(token string) (*entity.Session, error) {
	claims, err := jwt.Parse(p.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if p.sessions.isRevoked(claims.ID) {
		return nil, domain.ErrUnauthorized
	}
	s := &entity.Session{UID: claims.UID, Email: claims.Email, Token: token, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

func (p *Provider) issue(uid, email string) (*entity.Session, error) {
	token, err := jwt.Generate(p.jwtCfg.Secret, uid, email, p.jwtCfg.Issuer, p.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	s, err := p.Authenticate(token)
	if err != nil {
		return nil, err
	}
	p.sessions.publish(SessionEvent{UID: uid, Email: email, Session: s})
	return s, nil
}

// check traduce los errores del validador a *domain.ValidationError.
func (p *Provider) check(in any) error {
	err := p.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return domain.NewValidationError(fields...)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

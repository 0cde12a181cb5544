package identity_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Hotel-api/internal/application/dto"
	"github.com/jhoicas/Hotel-api/internal/application/identity"
	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/memory"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

const testSecret = "test-secret-key-for-unit-tests"

func newProvider(t *testing.T) (*identity.Provider, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	p := identity.NewProvider(store.Credentials(), store.Users(), identity.NewSessions(),
		identity.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "hotel-api-test"}, logger.Nop())
	return p, store
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		DisplayName:     "Ana Reyes",
		Email:           "Ana@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegister_CreaUsuarioYSesion(t *testing.T) {
	p, store := newProvider(t)
	user, session, err := p.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana Reyes", user.DisplayName)
	assert.Equal(t, user.AuthIdentity, session.UID)
	assert.NotEmpty(t, session.Token)

	got, err := store.Users().GetByAuthIdentity(context.Background(), user.AuthIdentity)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestRegister_Validaciones(t *testing.T) {
	p, _ := newProvider(t)
	in := validRegister()
	in.Email = "no-es-email"
	in.Password = "123"
	in.ConfirmPassword = "456"
	in.DisplayName = ""

	_, _, err := p.Register(context.Background(), in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"displayName", "email", "password", "confirmPassword"}, verr.Fields)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	p, _ := newProvider(t)
	_, _, err := p.Register(context.Background(), validRegister())
	require.NoError(t, err)
	_, _, err = p.Register(context.Background(), validRegister())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSignIn(t *testing.T) {
	p, _ := newProvider(t)
	_, _, err := p.Register(context.Background(), validRegister())
	require.NoError(t, err)

	session, user, err := p.SignIn(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, user.AuthIdentity, session.UID)

	_, _, err = p.SignIn(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "wrong-1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = p.SignIn(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSignInWithProvider_NoSoportado(t *testing.T) {
	p, _ := newProvider(t)
	_, err := p.SignInWithProvider(context.Background(), "google")
	assert.ErrorIs(t, err, domain.ErrUnsupportedProvider)
}

func TestSignOut_RevocaTokenYPublicaEvento(t *testing.T) {
	p, _ := newProvider(t)

	var mu sync.Mutex
	var events []identity.SessionEvent
	unsubscribe := p.Sessions().Subscribe(func(ev identity.SessionEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	defer unsubscribe()

	_, session, err := p.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = p.Authenticate(session.Token)
	require.NoError(t, err)

	p.SignOut(context.Background(), session)
	_, err = p.Authenticate(session.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.NotNil(t, events[0].Session, "inicio de sesión")
	assert.Nil(t, events[1].Session, "cierre de sesión")
	assert.Equal(t, session.UID, events[1].UID)
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	p, _ := newProvider(t)
	_, err := p.Authenticate("no.es.jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

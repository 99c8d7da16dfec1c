package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/adapter/memory"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

func newService(t *testing.T) *Service {
	t.Helper()

	store := memory.NewStore()
	store.Seed()
	return NewService(memory.NewUserRepository(store), logger.Nop())
}

func TestRegister(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	result, err := service.Register(ctx, interfaces.RegisterCommand{
		Name:     "New Student",
		Email:    "new@canteen.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleStudent, result.User.Role)
	assert.NotEmpty(t, result.Token)

	resolved, err := service.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, resolved.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	service := newService(t)

	_, err := service.Register(context.Background(), interfaces.RegisterCommand{
		Name:     "Impostor",
		Email:    "student@canteen.com",
		Password: "secret123",
	})

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email already registered", conflict.Message)
}

func TestLogin(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	result, err := service.Login(ctx, "student@canteen.com", "student123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, result.User.Role)

	resolved, err := service.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-student", resolved.ID)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	service := newService(t)

	_, err := service.Login(context.Background(), "student@canteen.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	service := newService(t)

	_, err := service.Login(context.Background(), "ghost@canteen.com", "student123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	service := newService(t)

	_, err := service.Login(context.Background(), "", "")
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	result, err := service.Login(ctx, "student@canteen.com", "student123")
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, result.Token))

	_, err = service.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateRejectsEmptyToken(t *testing.T) {
	service := newService(t)

	_, err := service.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

package impl

import (
	"context"
	"testing"

	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/repository"
	mockSvc "coderr/internal/mocks/service"
	"coderr/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceFixtures struct {
	service      usecase.UserUsecase
	tx           *txHarness
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	tx := newTxHarness(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewUserService(UserServiceParams{
		TxManager:    tx.txManager,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})

	return userServiceFixtures{
		service:      service,
		tx:           tx,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func validRegisterInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username:         "andrea",
		Email:            "andrea@example.com",
		Password:         "s3cret-pass",
		RepeatedPassword: "s3cret-pass",
		Type:             entity.UserTypeBusiness,
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed", nil)
	fx.tx.onExecute(ctx)
	fx.tx.users.EXPECT().ExistsByUsername(ctx, "andrea").Return(false, nil)
	fx.tx.users.EXPECT().ExistsByEmail(ctx, "andrea@example.com").Return(false, nil)
	fx.tx.users.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, user *entity.User) { user.ID = 11 }).
		Return(nil)
	fx.tokenService.EXPECT().GenerateToken(mock.AnythingOfType("*entity.User")).Return("token-11", nil)

	out, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "token-11", out.Token)
	assert.Equal(t, int64(11), out.User.ID)
	assert.Equal(t, "hashed", out.User.PasswordHash)
	assert.True(t, out.User.ProfileConsistent())
	_, isBusiness := out.User.BusinessProfile()
	assert.True(t, isBusiness)
}

func TestUserService_Register_PasswordMismatch(t *testing.T) {
	fx := createTestUserService(t)
	input := validRegisterInput()
	input.RepeatedPassword = "different"

	_, err := fx.service.Register(context.Background(), input)

	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	appErr, ok := domainerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.FieldErrors{"password": "Passwords do not match."}, appErr.Details())
}

func TestUserService_Register_InvalidType(t *testing.T) {
	fx := createTestUserService(t)
	input := validRegisterInput()
	input.Type = "admin"

	_, err := fx.service.Register(context.Background(), input)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed", nil)
	fx.tx.onExecute(ctx)
	fx.tx.users.EXPECT().ExistsByUsername(ctx, "andrea").Return(true, nil)

	_, err := fx.service.Register(ctx, input)

	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestUserService_Register_RaceOnCreate(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed", nil)
	fx.tx.onExecute(ctx)
	fx.tx.users.EXPECT().ExistsByUsername(ctx, "andrea").Return(false, nil)
	fx.tx.users.EXPECT().ExistsByEmail(ctx, "andrea@example.com").Return(false, nil)
	fx.tx.users.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).Return(repository.ErrUserAlreadyExists)

	_, err := fx.service.Register(ctx, input)

	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	user := &entity.User{ID: 3, Username: "kim", PasswordHash: "hashed", Type: entity.UserTypeCustomer}

	fx.tx.onQuery(ctx)
	fx.tx.users.EXPECT().FindByUsername(ctx, "kim").Return(user, nil)
	fx.hasher.EXPECT().Check("pw", "hashed").Return(true)
	fx.tokenService.EXPECT().GenerateToken(user).Return("token-3", nil)

	out, err := fx.service.Login(ctx, usecase.LoginInput{Username: "kim", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "token-3", out.Token)
	assert.Same(t, user, out.User)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		fx := createTestUserService(t)
		ctx := context.Background()

		fx.tx.onQuery(ctx)
		fx.tx.users.EXPECT().FindByUsername(ctx, "ghost").Return(nil, repository.ErrUserNotFound)

		_, err := fx.service.Login(ctx, usecase.LoginInput{Username: "ghost", Password: "pw"})

		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := createTestUserService(t)
		ctx := context.Background()

		fx.tx.onQuery(ctx)
		fx.tx.users.EXPECT().FindByUsername(ctx, "kim").Return(&entity.User{ID: 3, PasswordHash: "hashed"}, nil)
		fx.hasher.EXPECT().Check("nope", "hashed").Return(false)

		_, err := fx.service.Login(ctx, usecase.LoginInput{Username: "kim", Password: "nope"})

		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})
}

func TestUserService_Login_StoreError(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.tx.onQuery(ctx)
	fx.tx.users.EXPECT().FindByUsername(ctx, "kim").Return(nil, errors.New("connection reset"))

	_, err := fx.service.Login(ctx, usecase.LoginInput{Username: "kim", Password: "pw"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "connection reset")
}

package impl

import (
	"context"
	"testing"

	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/repository"
	"coderr/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type profileServiceFixtures struct {
	service usecase.ProfileUsecase
	tx      *txHarness
}

func createTestProfileService(t *testing.T) profileServiceFixtures {
	tx := newTxHarness(t)

	return profileServiceFixtures{
		service: NewProfileService(ProfileServiceParams{TxManager: tx.txManager, Logger: newDiscardLogger()}),
		tx:      tx,
	}
}

func businessUser(id int64) *entity.User {
	return &entity.User{
		ID:       id,
		Username: "shop",
		Email:    "shop@example.com",
		Type:     entity.UserTypeBusiness,
		Profile:  &entity.BusinessProfile{UserID: id},
	}
}

func customerUser(id int64) *entity.User {
	return &entity.User{
		ID:       id,
		Username: "buyer",
		Email:    "buyer@example.com",
		Type:     entity.UserTypeCustomer,
		Profile:  &entity.CustomerProfile{UserID: id},
	}
}

func TestProfileService_GetProfile(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	user := businessUser(2)

	fx.tx.onQuery(ctx)
	fx.tx.users.EXPECT().FindByID(ctx, int64(2)).Return(user, nil)

	got, err := fx.service.GetProfile(ctx, 2)

	require.NoError(t, err)
	assert.Same(t, user, got)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()

	fx.tx.onQuery(ctx)
	fx.tx.users.EXPECT().FindByID(ctx, int64(404)).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.GetProfile(ctx, 404)

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileService_UpdateProfile_Business(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	user := businessUser(2)
	caller := entity.Caller{UserID: 2, Type: entity.UserTypeBusiness}

	fx.tx.onExecute(ctx)
	fx.tx.users.EXPECT().FindByID(ctx, int64(2)).Return(user, nil)
	fx.tx.users.EXPECT().ExistsByEmail(ctx, "new@example.com").Return(false, nil)
	fx.tx.users.EXPECT().Update(ctx, user).Return(nil)

	got, err := fx.service.UpdateProfile(ctx, caller, 2, usecase.ProfilePatch{
		FirstName:    ptr("Max"),
		Email:        ptr("new@example.com"),
		Tel:          ptr("+49 1234"),
		Description:  ptr("Design studio"),
		WorkingHours: ptr("9-17"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Max", got.FirstName)
	assert.Equal(t, "new@example.com", got.Email)
	profile, ok := got.BusinessProfile()
	require.True(t, ok)
	assert.Equal(t, "+49 1234", profile.Phone)
	assert.Equal(t, "Design studio", profile.Description)
	assert.Equal(t, "9-17", profile.WorkingHours)
}

func TestProfileService_UpdateProfile_CustomerDescriptionIsBio(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	user := customerUser(5)
	caller := entity.Caller{UserID: 5, Type: entity.UserTypeCustomer}

	fx.tx.onExecute(ctx)
	fx.tx.users.EXPECT().FindByID(ctx, int64(5)).Return(user, nil)
	fx.tx.users.EXPECT().Update(ctx, user).Return(nil)

	got, err := fx.service.UpdateProfile(ctx, caller, 5, usecase.ProfilePatch{Description: ptr("I buy things")})

	require.NoError(t, err)
	profile, ok := got.CustomerProfile()
	require.True(t, ok)
	assert.Equal(t, "I buy things", profile.Bio)
}

func TestProfileService_UpdateProfile_CustomerWorkingHoursRejected(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	caller := entity.Caller{UserID: 5, Type: entity.UserTypeCustomer}

	fx.tx.onExecute(ctx)
	fx.tx.users.EXPECT().FindByID(ctx, int64(5)).Return(customerUser(5), nil)

	_, err := fx.service.UpdateProfile(ctx, caller, 5, usecase.ProfilePatch{WorkingHours: ptr("24/7")})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestProfileService_UpdateProfile_NotOwner(t *testing.T) {
	fx := createTestProfileService(t)
	caller := entity.Caller{UserID: 9, Type: entity.UserTypeCustomer}

	_, err := fx.service.UpdateProfile(context.Background(), caller, 5, usecase.ProfilePatch{})

	assert.ErrorIs(t, err, domainerrors.ErrAuthorization)
}

func TestProfileService_UpdateProfile_EmailTaken(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	caller := entity.Caller{UserID: 5, Type: entity.UserTypeCustomer}

	fx.tx.onExecute(ctx)
	fx.tx.users.EXPECT().FindByID(ctx, int64(5)).Return(customerUser(5), nil)
	fx.tx.users.EXPECT().ExistsByEmail(ctx, "shop@example.com").Return(true, nil)

	_, err := fx.service.UpdateProfile(ctx, caller, 5, usecase.ProfilePatch{Email: ptr("shop@example.com")})

	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestProfileService_SetProfilePicture(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	caller := entity.Caller{UserID: 5, Type: entity.UserTypeCustomer}

	fx.tx.onExecute(ctx)
	fx.tx.users.EXPECT().FindByID(ctx, int64(5)).Return(customerUser(5), nil)
	fx.tx.users.EXPECT().Update(ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	got, err := fx.service.SetProfilePicture(ctx, caller, 5, "profiles/abc.png")

	require.NoError(t, err)
	profile, _ := got.CustomerProfile()
	assert.Equal(t, "profiles/abc.png", profile.ProfilePicture)
}

func TestProfileService_ListBusinessProfiles(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	users := []*entity.User{businessUser(1), businessUser(2)}

	fx.tx.onQuery(ctx)
	fx.tx.users.EXPECT().ListByType(ctx, entity.UserTypeBusiness).Return(users, nil)

	got, err := fx.service.ListBusinessProfiles(ctx)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

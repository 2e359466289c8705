package postgres

import (
	"context"

	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/repository"
	"coderr/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) withProfiles(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("BusinessProfile").
		Preload("CustomerProfile")
}

// FindByID retrieves a single user by their ID, preloading the profile variant.
func (repo *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.withProfiles(ctx).Where("users.id = ?", id).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByUsername retrieves a single user by their login name.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.withProfiles(ctx).Where("users.username = ?", username).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	return toUserDomain(&userM), nil
}

func (repo *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check username")
	}

	return count > 0, nil
}

func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check email")
	}

	return count > 0, nil
}

// Create persists a new user entity together with its profile variant.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrUserAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	user.Profile = toProfileDomain(userM)

	return nil
}

// Update saves identity fields and the profile variant. Zero values are written.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	db := repo.db.WithContext(ctx)

	result := db.Model(&model.UserModel{ID: user.ID}).Updates(map[string]any{
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrUserAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	switch p := user.Profile.(type) {
	case *entity.BusinessProfile:
		err := db.Model(&model.BusinessProfileModel{}).Where("user_id = ?", user.ID).Updates(map[string]any{
			"company_name":    p.CompanyName,
			"description":     p.Description,
			"phone":           p.Phone,
			"email":           p.Email,
			"location":        p.Location,
			"working_hours":   p.WorkingHours,
			"profile_picture": p.ProfilePicture,
		}).Error
		if err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to update business profile")
		}
	case *entity.CustomerProfile:
		err := db.Model(&model.CustomerProfileModel{}).Where("user_id = ?", user.ID).Updates(map[string]any{
			"bio":             p.Bio,
			"phone":           p.Phone,
			"email":           p.Email,
			"location":        p.Location,
			"profile_picture": p.ProfilePicture,
		}).Error
		if err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to update customer profile")
		}
	}

	return nil
}

// ListByType returns every user of the given type, oldest first.
func (repo *userRepository) ListByType(ctx context.Context, userType entity.UserType) ([]*entity.User, error) {
	var userMs []*model.UserModel
	if err := repo.withProfiles(ctx).
		Where("users.user_type = ?", userType.String()).
		Order("users.id ASC").
		Find(&userMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users by type")
	}

	users := make([]*entity.User, 0, len(userMs))
	for _, userM := range userMs {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

// findUsersByIDs batch-loads users for read views, keyed by ID.
func findUsersByIDs(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]*entity.User, error) {
	users := make(map[int64]*entity.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var userMs []*model.UserModel
	if err := db.WithContext(ctx).
		Preload("BusinessProfile").
		Preload("CustomerProfile").
		Where("users.id IN ?", ids).
		Find(&userMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load users")
	}
	for _, userM := range userMs {
		users[userM.ID] = toUserDomain(userM)
	}

	return users, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		PasswordHash: data.PasswordHash,
		Type:         entity.UserType(data.UserType),
		Profile:      toProfileDomain(data),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// toProfileDomain picks the variant matching the user type. A missing row
// yields nil so callers can detect the broken invariant.
func toProfileDomain(data *model.UserModel) entity.Profile {
	switch entity.UserType(data.UserType) {
	case entity.UserTypeBusiness:
		if bp := data.BusinessProfile; bp != nil {
			return &entity.BusinessProfile{
				ID:             bp.ID,
				UserID:         bp.UserID,
				CompanyName:    bp.CompanyName,
				Description:    bp.Description,
				Phone:          bp.Phone,
				Email:          bp.Email,
				Location:       bp.Location,
				WorkingHours:   bp.WorkingHours,
				ProfilePicture: bp.ProfilePicture,
				CreatedAt:      bp.CreatedAt,
				UpdatedAt:      bp.UpdatedAt,
			}
		}
	case entity.UserTypeCustomer:
		if cp := data.CustomerProfile; cp != nil {
			return &entity.CustomerProfile{
				ID:             cp.ID,
				UserID:         cp.UserID,
				Bio:            cp.Bio,
				Phone:          cp.Phone,
				Email:          cp.Email,
				Location:       cp.Location,
				ProfilePicture: cp.ProfilePicture,
				CreatedAt:      cp.CreatedAt,
				UpdatedAt:      cp.UpdatedAt,
			}
		}
	}

	return nil
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	userM := &model.UserModel{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		PasswordHash: data.PasswordHash,
		UserType:     data.Type.String(),
	}

	switch p := data.Profile.(type) {
	case *entity.BusinessProfile:
		userM.BusinessProfile = &model.BusinessProfileModel{
			ID:             p.ID,
			CompanyName:    p.CompanyName,
			Description:    p.Description,
			Phone:          p.Phone,
			Email:          p.Email,
			Location:       p.Location,
			WorkingHours:   p.WorkingHours,
			ProfilePicture: p.ProfilePicture,
		}
	case *entity.CustomerProfile:
		userM.CustomerProfile = &model.CustomerProfileModel{
			ID:             p.ID,
			Bio:            p.Bio,
			Phone:          p.Phone,
			Email:          p.Email,
			Location:       p.Location,
			ProfilePicture: p.ProfilePicture,
		}
	}

	return userM
}

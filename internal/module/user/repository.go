package user

import (
	"context"
	"errors"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/userdeck/userdeck/internal/domain"
	"github.com/userdeck/userdeck/internal/pkg"
)

// Fields the listing may sort by and the fields the search filter scans.
var (
	allowedSortFields = []string{"id", "name", "email", "role", "created_at", "updated_at"}
	searchableFields  = []string{"name", "email"}
)

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository backed by the given GORM database.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a user by its primary key.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// Count returns the number of users matching the search filter.
func (r *userRepository) Count(ctx context.Context, search string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Scopes(pkg.SearchScope(search, searchableFields)).
		Count(&total).Error
	if err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// List returns one offset/limit window of the filtered, sorted users. An
// offset past the end yields an empty slice.
func (r *userRepository) List(ctx context.Context, state domain.QueryState, offset, limit int) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Scopes(
			pkg.SearchScope(state.Search, searchableFields),
			pkg.SortScope(state, allowedSortFields),
			pkg.PaginateScope(offset, limit),
		).
		Find(&users).Error
	if err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// Update saves changes to an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// Delete removes a user by ID.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.User{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByIDs removes all listed users in one transaction. The batch is
// all-or-nothing: when any id has no matching record the whole request is
// rejected as a validation failure and no rows change.
func (r *userRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return domain.NewAppError(domain.CodeValidation, "ids are required", nil)
	}

	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	return pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
			return mapError(err)
		}
		if count != int64(len(unique)) {
			return domain.NewAppError(domain.CodeValidation, "one or more users do not exist", nil)
		}
		if err := tx.Delete(&domain.User{}, unique).Error; err != nil {
			return mapError(err)
		}
		return nil
	})
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. This is needed because not all GORM dialectors translate
// driver-level errors to gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

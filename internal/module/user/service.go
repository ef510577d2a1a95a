package user

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/pagination"
	"golang.org/x/crypto/bcrypt"

	"github.com/userdeck/userdeck/internal/domain"
)

// userService implements domain.UserService.
type userService struct {
	repo domain.UserRepository
}

// NewUserService creates a new UserService with the given repository.
func NewUserService(repo domain.UserRepository) domain.UserService {
	return &userService{repo: repo}
}

// CreateUser validates input, hashes the password, and persists the user.
func (s *userService) CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	input = normalizeInput(input)
	if err := validateInput(input, true); err != nil {
		return nil, err
	}

	if err := s.checkEmailAvailable(ctx, input.Email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		Avatar:       optionalString(input.Avatar),
		Role:         input.Role,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers returns one page of users matching the query state, with
// pagination links built against basePath. The paginator owns the page math;
// the repository supplies the filtered total and the record window.
func (s *userService) ListUsers(ctx context.Context, state domain.QueryState, basePath string) (*domain.Page[domain.User], error) {
	paginator := pagination.NewPaginator(
		pagination.WithItemsPerPage[domain.User](state.PerPage),
		pagination.WithItemTotalCallback[domain.User](func(ctx context.Context) (int64, error) {
			return s.repo.Count(ctx, state.Search)
		}),
		pagination.WithSliceCallback[domain.User](func(ctx context.Context, offset, limit int) ([]domain.User, error) {
			return s.repo.List(ctx, state, offset, limit)
		}),
	)

	pg, err := paginator.Paginate(ctx, state.Page)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(pg, state, basePath), nil
}

// UpdateUser loads the existing user, applies changes, and persists them.
// An empty password leaves the stored hash unchanged; an empty hash is never
// written.
func (s *userService) UpdateUser(ctx context.Context, id uint, input domain.UserInput) (*domain.User, error) {
	input = normalizeInput(input)
	if err := validateInput(input, false); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(user.Email, input.Email) {
		if err := s.checkEmailAvailable(ctx, input.Email, id); err != nil {
			return nil, err
		}
	}

	user.Name = input.Name
	user.Email = input.Email
	user.Avatar = optionalString(input.Avatar)
	user.Role = input.Role

	if input.Password != "" {
		hash, err := hashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes a user by ID.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// BulkDeleteUsers removes the listed users as one all-or-nothing batch.
func (s *userService) BulkDeleteUsers(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return domain.NewAppError(domain.CodeValidation, "ids are required", nil)
	}
	return s.repo.DeleteByIDs(ctx, ids)
}

// checkEmailAvailable rejects an email already held by a different user.
func (s *userService) checkEmailAvailable(ctx context.Context, email string, selfID uint) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.NewAppError(domain.CodeAlreadyExists, "email has already been taken", nil)
	}
	return nil
}

func normalizeInput(input domain.UserInput) domain.UserInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Avatar = strings.TrimSpace(input.Avatar)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	return input
}

// validateInput checks the domain rules independently of binding-layer
// validation, so API and page callers share one contract. passwordRequired
// distinguishes create (required) from update (optional).
func validateInput(input domain.UserInput, passwordRequired bool) error {
	nameLen := utf8.RuneCountInString(input.Name)
	if nameLen == 0 {
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}
	if nameLen < 2 {
		return domain.NewAppError(domain.CodeValidation, "name must be at least 2 characters", nil)
	}
	if nameLen > 100 {
		return domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
	}

	if input.Email == "" {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}

	if !domain.ValidRole(input.Role) {
		return domain.NewAppError(domain.CodeValidation, "role must be one of admin, manager, user", nil)
	}

	if passwordRequired && input.Password == "" {
		return domain.NewAppError(domain.CodeValidation, "password is required", nil)
	}
	if input.Password != "" {
		if len(input.Password) < 8 {
			return domain.NewAppError(domain.CodeValidation, "password must be at least 8 characters", nil)
		}
		if len(input.Password) > 72 {
			return domain.NewAppError(domain.CodeValidation, "password must not exceed 72 characters", nil)
		}
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}
	return string(hash), nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

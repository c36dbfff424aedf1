package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/vheb/stocksim/internal/domain"
)

// UserUseCase handles registration, authentication and user management.
// Registration opens the user's trading account with a fixed starting
// balance in the same storage transaction that creates the user.
type UserUseCase struct {
	txManager       TransactionManager
	userRepo        UserRepository
	accountRepo     AccountRepository
	positionRepo    PositionRepository
	idGen           IDGenerator
	startingBalance decimal.Decimal
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	accountRepo AccountRepository,
	positionRepo PositionRepository,
	idGen IDGenerator,
	startingBalance decimal.Decimal,
) *UserUseCase {
	return &UserUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		positionRepo:    positionRepo,
		idGen:           idGen,
		startingBalance: startingBalance,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a user and their trading account atomically.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.Account, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	if existing, err := uc.userRepo.GetByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, nil, domain.ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Username:       input.Username,
		HashedPassword: string(hashed),
		Role:           domain.RoleTrader,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		UserID:         user.ID,
		Balance:        uc.startingBalance,
		InvestedAmount: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.userRepo.Create(ctx, tx, user); err != nil {
		return nil, nil, err
	}

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	user.HashedPassword = ""

	return user, account, nil
}

// AuthenticateInput represents authentication input.
type AuthenticateInput struct {
	Username string
	Password string
}

// Authenticate verifies user credentials.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""

	return user, nil
}

// Login verifies credentials and returns the user with their trading account.
func (uc *UserUseCase) Login(ctx context.Context, input AuthenticateInput) (*domain.User, *domain.Account, error) {
	user, err := uc.Authenticate(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	account, err := uc.accountRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, account, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// UpdateProfileInput represents input for updating profile fields. Nil
// fields are left unchanged.
type UpdateProfileInput struct {
	ID          string
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	City        *string
	State       *string
}

// UpdateProfile updates a user's profile fields.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}

	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if input.Email != nil {
		user.Email = *input.Email
	}

	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}

	if input.City != nil {
		user.City = *input.City
	}

	if input.State != nil {
		user.State = *input.State
	}

	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// ChangePasswordInput represents input for changing a password.
type ChangePasswordInput struct {
	ID          string
	OldPassword string
	NewPassword string
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (uc *UserUseCase) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := uc.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.OldPassword)); err != nil {
		return domain.ErrUnauthorized
	}

	if err := domain.ValidatePassword(input.NewPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.HashedPassword = string(hashed)
	user.UpdatedAt = time.Now().UTC()

	return uc.userRepo.Update(ctx, user)
}

// ListUsers lists users with pagination. Admin only, enforced at the
// transport layer.
func (uc *UserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.HashedPassword = ""
	}

	return users, nil
}

// DeleteUser removes a user and their account. Refused while the account
// still holds open positions.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	account, err := uc.accountRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return err
	}

	open, err := uc.positionRepo.CountByAccount(ctx, account.ID)
	if err != nil {
		return err
	}

	if open > 0 {
		return domain.ErrOpenPositionsHeld
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.Delete(ctx, tx, account.ID); err != nil {
		return err
	}

	if err := uc.userRepo.Delete(ctx, tx, user.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

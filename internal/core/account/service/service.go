package accountapp

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"socialcore/internal/core/account"
	"socialcore/internal/core/account/credential"
	accountPort "socialcore/internal/ports/account"
	micropostPort "socialcore/internal/ports/micropost"
)

// unknownSalt is hashed against when the email is unknown, so both failure
// paths of Authenticate do the same work.
var unknownSalt = credential.Digest("unknown-account")

// AccountService manages accounts and their credentials.
type AccountService struct {
	AccountRepository accountPort.AccountRepository
	AuthorIndex       micropostPort.AuthorIndex // optional
	Credentials       *credential.Manager
	Logger            *zap.Logger
}

func NewAccountService(
	repo accountPort.AccountRepository,
	authorIndex micropostPort.AuthorIndex,
	credentials *credential.Manager,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		AccountRepository: repo,
		AuthorIndex:       authorIndex,
		Credentials:       credentials,
		Logger:            logger,
	}
}

// CreateAccount validates req, hashes the password with a fresh salt and stores the account.
func (s *AccountService) CreateAccount(ctx context.Context, req account.CreateRequest) (*account.Account, error) {
	verr, err := account.NewValidationError(req.Validate())
	if err != nil {
		return nil, err
	}
	if !verr.HasField("email") {
		if err := s.checkEmailFree(ctx, req.Email, uuid.Nil, verr); err != nil {
			return nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	acc := &account.Account{
		ID:   uuid.Must(uuid.NewV4()),
		Name: req.Name,
	}
	acc.SetEmail(req.Email)
	s.Credentials.Prepare(acc, req.Password)

	if err := s.AccountRepository.Create(ctx, acc); err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			return nil, takenError()
		}
		s.Logger.Error("Error creating account", zap.Error(err))
		return nil, err
	}

	s.Logger.Info("Account created", zap.String("accountID", acc.ID.String()))
	return acc, nil
}

// UpdateAccount applies the fields set on req. A new password is re-hashed with
// the account's existing salt.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, req account.UpdateRequest) (*account.Account, error) {
	uid, err := uuid.FromString(id)
	if err != nil {
		return nil, account.ErrNotFound
	}

	verr, err := account.NewValidationError(req.Validate())
	if err != nil {
		return nil, err
	}
	if req.Email != nil && !verr.HasField("email") {
		if err := s.checkEmailFree(ctx, *req.Email, uid, verr); err != nil {
			return nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	acc, err := s.AccountRepository.Update(ctx, uid, func(acc *account.Account) error {
		if req.Name != nil {
			acc.Name = *req.Name
		}
		if req.Email != nil {
			acc.SetEmail(*req.Email)
		}
		if req.ChangesPassword() {
			s.Credentials.Prepare(acc, req.Password)
		}
		return nil
	})
	if errors.Is(err, account.ErrEmailTaken) {
		return nil, takenError()
	}
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Account updated", zap.String("accountID", acc.ID.String()), zap.Bool("passwordChanged", req.ChangesPassword()))
	return acc, nil
}

// Authenticate returns the account for email when password matches.
// An unknown email and a wrong password both yield account.ErrNotFound.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*account.Account, error) {
	acc, err := s.AccountRepository.FindByEmail(ctx, email)
	if errors.Is(err, account.ErrNotFound) {
		credential.Encrypt(unknownSalt, password)
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !s.Credentials.Verify(acc, password) {
		s.Logger.Debug("Password mismatch", zap.String("accountID", acc.ID.String()))
		return nil, account.ErrNotFound
	}
	return acc, nil
}

// AuthenticateWithSalt re-authenticates a persistent session that carries the
// account id and salt instead of the password.
func (s *AccountService) AuthenticateWithSalt(ctx context.Context, id, salt string) (*account.Account, error) {
	uid, err := uuid.FromString(id)
	if err != nil || salt == "" {
		return nil, account.ErrNotFound
	}

	acc, err := s.AccountRepository.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !credential.Equal(salt, acc.Salt) {
		return nil, account.ErrNotFound
	}
	return acc, nil
}

func (s *AccountService) FindByID(ctx context.Context, id string) (*account.Account, error) {
	uid, err := uuid.FromString(id)
	if err != nil {
		return nil, account.ErrNotFound
	}
	return s.AccountRepository.FindByID(ctx, uid)
}

// DestroyAccount removes the account with its relationships and microposts.
func (s *AccountService) DestroyAccount(ctx context.Context, id string) error {
	uid, err := uuid.FromString(id)
	if err != nil {
		return account.ErrNotFound
	}

	if err := s.AccountRepository.Destroy(ctx, uid); err != nil {
		return err
	}
	s.Logger.Info("Account destroyed", zap.String("accountID", id))

	if s.AuthorIndex != nil {
		if err := s.AuthorIndex.Forget(ctx, uid); err != nil {
			s.Logger.Warn("Could not drop author index", zap.String("accountID", id), zap.Error(err))
		}
	}
	return nil
}

func (s *AccountService) checkEmailFree(ctx context.Context, email string, self uuid.UUID, verr *account.ValidationError) error {
	existing, err := s.AccountRepository.FindByEmail(ctx, email)
	if errors.Is(err, account.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		verr.Add("email", account.CodeTaken, account.TakenMessage)
	}
	return nil
}

func takenError() error {
	verr := &account.ValidationError{}
	verr.Add("email", account.CodeTaken, account.TakenMessage)
	return verr
}

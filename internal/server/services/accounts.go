// Package services implements the account lifecycle: registration with an
// emailed one-time code, verification, login sessions and the owner-only
// profile operations.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/cryptox"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/notify"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries a registration request. Password and
// ConfirmPassword are only used to compute the hash.
type RegisterInput struct {
	Name            string
	UserName        string
	Password        string
	ConfirmPassword string
	DateOfBirth     time.Time
	Email           string
}

// AccountService returns only error kinds from internal/common. Other
// failures are logged and reported as common.ErrorInternal.
type AccountService struct {
	db          dbx.DBTX
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	hasher      cryptox.Hasher
	notifier    notify.Notifier
	logger      logging.Logger

	refreshTokenValidity time.Duration
	otpValidity          time.Duration
	now                  func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, notifier notify.Notifier, logger logging.Logger, cfg *config.Config) (*AccountService, error) {
	hasher, err := cryptox.NewHasher(cfg.PasswordHashAlgorithm, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &AccountService{
		db:                   db,
		tx:                   dbx.NewSQLTransactor(db, nil),
		repomanager:          m,
		issuer:               auth.NewIssuer([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration),
		hasher:               hasher,
		notifier:             notifier,
		logger:               logger,
		refreshTokenValidity: cfg.RefreshTokenValidityDuration,
		otpValidity:          cfg.OTPValidityDuration,
		now:                  time.Now,
	}, nil
}

// Register stores a pending registration for in.Email, replacing any earlier
// one, and sends it a fresh code. No account exists until VerifyOtp.
func (s *AccountService) Register(ctx context.Context, in *RegisterInput) error {
	if in.Password != in.ConfirmPassword {
		return common.ErrPasswordMismatch
	}
	if err := validateRegistration(in, s.now()); err != nil {
		return err
	}

	exists, err := s.repomanager.Accounts(s.db).ExistsByUserNameOrEmail(ctx, in.UserName, in.Email)
	if err != nil {
		return s.fail(ctx, "register", err)
	}
	if exists {
		return common.ErrAlreadyExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return s.fail(ctx, "register", fmt.Errorf("hash password: %w", err))
	}

	otp, err := cryptox.GenerateOTP(common.OTPDigits)
	if err != nil {
		return s.fail(ctx, "register", fmt.Errorf("generate otp: %w", err))
	}

	now := s.now().UTC()
	p := &models.PendingRegistration{
		Email:        in.Email,
		Name:         in.Name,
		UserName:     in.UserName,
		PasswordHash: hash,
		DateOfBirth:  in.DateOfBirth,
		OTP:          otp,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.otpValidity),
	}

	pending := s.repomanager.Pending(s.db)
	if err := pending.Upsert(ctx, p); err != nil {
		return s.fail(ctx, "register", err)
	}

	if err := s.notifier.SendOtp(ctx, in.Email, otp); err != nil {
		s.logger.Warn(ctx, "otp delivery failed", "email", in.Email, "error", err)
		if err := pending.Delete(ctx, in.Email); err != nil {
			s.logger.Error(ctx, "could not drop undelivered registration", "email", in.Email, "error", err)
		}
		return common.ErrNotificationFailed
	}

	s.logger.Info(ctx, "registration pending", "username", in.UserName, "email", in.Email)
	return nil
}

// VerifyOtp turns the pending registration for email into an account. The
// pending row is locked for the whole transaction, so concurrent calls for
// one email create at most one account.
func (s *AccountService) VerifyOtp(ctx context.Context, email, otp string) error {
	if email == "" || otp == "" {
		return common.ErrInvalidRequest
	}

	var userName string
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		pending := s.repomanager.Pending(tx)
		accounts := s.repomanager.Accounts(tx)

		p, err := pending.FindForUpdate(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNoPendingRegistration
			}
			return err
		}
		if p.Expired(s.now()) {
			return common.ErrNoPendingRegistration
		}
		if subtle.ConstantTimeCompare([]byte(p.OTP), []byte(otp)) != 1 {
			return common.ErrInvalidOtp
		}

		if _, err := accounts.GetByEmail(ctx, email); err == nil {
			return common.ErrAlreadyRegistered
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		account := &models.Account{
			ID:            uuid.NewString(),
			Name:          p.Name,
			UserName:      p.UserName,
			Email:         p.Email,
			PasswordHash:  p.PasswordHash,
			DateOfBirth:   p.DateOfBirth,
			EmailVerified: true,
			CreatedAt:     s.now().UTC(),
		}
		if err := accounts.Create(ctx, account); err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				return common.ErrAlreadyRegistered
			}
			return err
		}

		userName = account.UserName
		return pending.Delete(ctx, email)
	})
	if err != nil {
		return s.fail(ctx, "verify otp", err)
	}

	s.logger.Info(ctx, "account verified", "username", userName, "email", email)
	return nil
}

// Login checks credentials and opens a session. Unknown users and wrong
// passwords are indistinguishable, including in timing.
func (s *AccountService) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	if userName == "" || password == "" {
		return nil, common.ErrInvalidRequest
	}

	account, err := s.repomanager.Accounts(s.db).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyDigest())
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.fail(ctx, "login", err)
	}

	if account.PasswordHash == "" || !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, s.db, account.UserName)
	if err != nil {
		return nil, s.internal(ctx, "login", err)
	}

	s.logger.Info(ctx, "user logged in", "username", account.UserName)
	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair. The old session is
// consumed.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidRequest
	}

	var pair *TokenPair
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		sessions := s.repomanager.Sessions(tx)

		session, err := sessions.FindByRefreshToken(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}
		// only the caller whose delete removed the row may rotate
		if err := sessions.DeleteByRefreshToken(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}
		if session.Expired(s.now()) {
			// not returned as an error so the delete is committed
			return nil
		}

		if _, err := s.repomanager.Accounts(tx).GetByUserName(ctx, session.UserName); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}

		pair, err = s.openSession(ctx, tx, session.UserName)
		if err != nil {
			return s.internal(ctx, "refresh", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "refresh", err)
	}
	if pair == nil {
		return nil, common.ErrInvalidToken
	}
	return pair, nil
}

// Logout revokes every session of the token's owner, not only the caller's.
func (s *AccountService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return common.ErrInvalidRequest
	}

	claims, err := s.issuer.Validate(accessToken)
	if err != nil {
		return common.ErrInvalidToken
	}
	if claims.UserName == "" {
		return common.ErrInvalidToken
	}

	if _, err := s.repomanager.Accounts(s.db).GetByUserName(ctx, claims.UserName); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return s.fail(ctx, "logout", err)
	}

	n, err := s.repomanager.Sessions(s.db).DeleteByUserName(ctx, claims.UserName)
	if err != nil {
		return s.fail(ctx, "logout", err)
	}

	s.logger.Info(ctx, "user logged out", "username", claims.UserName, "sessions", n)
	return nil
}

// PurgeExpiredRegistrations removes pending registrations whose code can no
// longer be used.
func (s *AccountService) PurgeExpiredRegistrations(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Pending(s.db).DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, s.fail(ctx, "purge pending", err)
	}
	return n, nil
}

func (s *AccountService) openSession(ctx context.Context, db dbx.DBTX, userName string) (*TokenPair, error) {
	accessToken, err := s.issuer.IssueAccessToken(userName)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	jti, err := s.issuer.ExtractJti(accessToken)
	if err != nil {
		return nil, fmt.Errorf("extract jti: %w", err)
	}
	refreshToken, err := s.issuer.IssueRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:           uuid.NewString(),
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.refreshTokenValidity),
		UserName:     userName,
		Jti:          jti,
		CreatedAt:    now,
	}
	if err := s.repomanager.Sessions(db).Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// dummyDigest is verified against when the user does not exist.
func (s *AccountService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.dummyHash
}

func (s *AccountService) fail(ctx context.Context, op string, err error) error {
	if common.IsKind(err) {
		return err
	}
	return s.internal(ctx, op, err)
}

// internal logs err and reports ErrorInternal even when err wraps a kind.
// Session creation uses it: a stored duplicate token is not the caller's
// AlreadyExists.
func (s *AccountService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "account operation failed", "op", op, "error", err)
	return common.ErrorInternal
}

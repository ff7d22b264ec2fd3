package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"clanci-blog/internal/domain"
	"clanci-blog/internal/utils"
)

type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id uint) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
	Save(ctx context.Context, a *domain.Account) error
	Delete(ctx context.Context, id uint) error
}

// Dispatcher hands an email to the mail transport.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// AttemptLimiter bounds verification attempts per username.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

type AccountService struct {
	store      AccountStore
	dispatcher Dispatcher
	limiter    AttemptLimiter
	logger     *zap.Logger
	codeTTL    time.Duration

	now          func() time.Time
	generateCode func() (string, error)
	hashPassword func(string) (string, error)
}

// NewAccountService wires the state machine. limiter may be nil.
func NewAccountService(store AccountStore, dispatcher Dispatcher, limiter AttemptLimiter, codeTTL time.Duration, logger *zap.Logger) *AccountService {
	return &AccountService{
		store:        store,
		dispatcher:   dispatcher,
		limiter:      limiter,
		logger:       logger.Named("AccountService"),
		codeTTL:      codeTTL,
		now:          time.Now,
		generateCode: utils.GenerateVerifyCode,
		hashPassword: utils.HashPassword,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a pending account, or re-issues the password and code of
// an existing pending one while keeping its username, and sends the
// verification code. If the code cannot be sent the account is put back the
// way it was.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}

	byName, err := s.lookup(ctx, s.store.FindByUsername, in.Username)
	if err != nil {
		return nil, err
	}
	if byName != nil && byName.IsVerified() {
		return nil, domain.ErrUsernameTaken
	}

	byEmail, err := s.lookup(ctx, s.store.FindByEmail, in.Email)
	if err != nil {
		return nil, err
	}
	if byEmail != nil && byEmail.IsVerified() {
		return nil, domain.ErrEmailTaken
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	pending := domain.Pending{Code: code, ExpiresAt: s.now().Add(s.codeTTL)}

	var (
		acct *domain.Account
		undo func(context.Context) error
	)
	if byEmail != nil {
		prev := *byEmail
		acct = byEmail
		acct.PasswordHash = hash
		acct.Status = pending
		if err := s.store.Save(ctx, acct); err != nil {
			return nil, fmt.Errorf("reissue code: %w", err)
		}
		undo = func(ctx context.Context) error { return s.store.Save(ctx, &prev) }
		s.logger.Info("pending account re-registered", zap.Uint("id", acct.ID))
	} else {
		acct = &domain.Account{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
			Status:       pending,
		}
		if err := s.store.Create(ctx, acct); err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
		undo = func(ctx context.Context) error { return s.store.Delete(ctx, acct.ID) }
		s.logger.Info("pending account created", zap.Uint("id", acct.ID))
	}

	if err := s.sendCode(ctx, acct, code); err != nil {
		// the request context may already be done; rollback must still run
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if rbErr := undo(rbCtx); rbErr != nil {
			s.logger.Error("rollback after failed dispatch", zap.Uint("id", acct.ID), zap.Error(rbErr))
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDispatch, err)
	}
	return acct, nil
}

func (s *AccountService) sendCode(ctx context.Context, acct *domain.Account, code string) error {
	body, err := utils.RenderVerificationEmail(acct.Username, code, s.codeTTL)
	if err != nil {
		return err
	}
	return s.dispatcher.Send(ctx, acct.Email, utils.VerificationEmailSubject, body)
}

// Verify checks a submitted code against the account's pending code. An
// expired code is reported as expired even when the submitted code is wrong or
// malformed. Codes are compared exactly, without case folding.
// Verifying an already verified account succeeds without touching it.
func (s *AccountService) Verify(ctx context.Context, rawUsername, rawCode string) (*domain.Account, error) {
	username, err := url.PathUnescape(strings.TrimSpace(rawUsername))
	if err != nil || username == "" {
		return nil, fmt.Errorf("%w: invalid username", domain.ErrValidation)
	}
	if err := s.checkAttempts(ctx, username); err != nil {
		return nil, err
	}

	acct, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var pending domain.Pending
	switch st := acct.Status.(type) {
	case domain.Verified:
		return acct, nil
	case domain.Pending:
		pending = st
	default:
		return nil, fmt.Errorf("account %d has no status", acct.ID)
	}

	now := s.now()
	if pending.Expired(now) {
		return nil, domain.ErrCodeExpired
	}
	code, ok := utils.NormalizeVerifyCode(rawCode)
	if !ok {
		return nil, fmt.Errorf("%w: verification code must be %d characters of 0-9 or a-z", domain.ErrValidation, utils.VerifyCodeLength)
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(pending.Code)) == 1 {
		acct.Status = domain.Verified{At: now}
		if err := s.store.Save(ctx, acct); err != nil {
			return nil, fmt.Errorf("mark verified: %w", err)
		}
		s.resetAttempts(ctx, username)
		s.logger.Info("account verified", zap.Uint("id", acct.ID))
		return acct, nil
	}
	return nil, domain.ErrCodeMismatch
}

// Authenticate resolves identifier as an email when it contains "@" and as a
// username otherwise, then checks the password. Only verified accounts may
// authenticate.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", domain.ErrValidation)
	}

	find := s.store.FindByUsername
	if strings.Contains(identifier, "@") {
		find = s.store.FindByEmail
	}
	acct, err := find(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := utils.CheckPasswordHash(acct.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !acct.IsVerified() {
		return nil, domain.ErrNotVerified
	}
	return acct, nil
}

func (s *AccountService) Get(ctx context.Context, id uint) (*domain.Account, error) {
	return s.store.FindByID(ctx, id)
}

func (s *AccountService) lookup(ctx context.Context, find func(context.Context, string) (*domain.Account, error), key string) (*domain.Account, error) {
	a, err := find(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return a, err
}

func (s *AccountService) checkAttempts(ctx context.Context, username string) error {
	if s.limiter == nil {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, username)
	if err != nil {
		s.logger.Warn("attempt limiter unavailable", zap.Error(err))
		return nil
	}
	if !ok {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (s *AccountService) resetAttempts(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, username); err != nil {
		s.logger.Warn("attempt limiter reset failed", zap.Error(err))
	}
}

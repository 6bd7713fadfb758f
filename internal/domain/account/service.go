package account

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/odonto/clinica/internal/platform/auth"
	"github.com/odonto/clinica/internal/platform/db"
)

// ErrInvalidCredentials covers unknown users, wrong passwords and inactive
// accounts alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginRecorder observes login outcomes; *metrics.Metrics satisfies it.
type LoginRecorder interface {
	RecordLogin(success bool)
}

type Service struct {
	repo     Repository
	issuer   *auth.Issuer
	recorder LoginRecorder
	cost     int
}

func NewService(repo Repository, issuer *auth.Issuer, recorder LoginRecorder) *Service {
	return &Service{repo: repo, issuer: issuer, recorder: recorder, cost: bcrypt.DefaultCost}
}

// dummyHash is compared against when the user does not exist, so unknown
// usernames take as long as wrong passwords. Its cost must match the cost
// stored passwords are hashed with.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login checks the credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, in *LoginInput) (*LoginResult, error) {
	if err := in.Validate().Err(); err != nil {
		return nil, err
	}
	u, err := s.Authenticate(ctx, in.Username.Value, in.Password.Value)
	if s.recorder != nil && (err == nil || errors.Is(err, ErrInvalidCredentials)) {
		s.recorder.RecordLogin(err == nil)
	}
	if err != nil {
		return nil, err
	}
	pair, err := s.issuer.IssuePair(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Refresh: pair.Refresh, Access: pair.Access, User: u.Summary()}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(in *RefreshInput) (string, error) {
	if err := in.Validate().Err(); err != nil {
		return "", err
	}
	return s.issuer.Refresh(in.Refresh.Value)
}

// CreateUser hashes the password and stores a new account.
func (s *Service) CreateUser(ctx context.Context, p CreateParams) (*User, error) {
	if err := p.Validate().Err(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &User{
		Username:     p.Username,
		Email:        p.Email,
		FirstName:    p.FirstName,
		PasswordHash: string(hash),
		IsActive:     !p.Inactive,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

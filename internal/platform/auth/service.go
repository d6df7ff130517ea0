package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("authentication failed")
	ErrAccountDisabled    = errors.New("account disabled")
)

type AuthService interface {
	Login(ctx context.Context, id, password string) (string, error)
}

type Service struct {
	store  AccountStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store AccountStore, secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{store: store, secret: secret, ttl: ttl, now: time.Now}
}

func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if acct == nil {
		// 存在しないIDでも bcrypt 1回分の時間をかける
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if acct.IsDisabled {
		return "", ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issue(acct.ID, acct.Role)
}

func (s *Service) issue(sub, role string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	})
	return token.SignedString(s.secret)
}

// EnsureAdmin は初期管理者が無ければ作る。既にあればパスワードも含め触らない。
func (s *Service) EnsureAdmin(ctx context.Context, id, password string) (bool, error) {
	if id == "" || password == "" {
		return false, nil
	}
	exists, err := s.store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if exists != nil {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	err = s.store.Create(ctx, &Account{ID: id, PasswordHash: string(hash), Role: RoleAdmin})
	if errors.Is(err, ErrAlreadyExists) {
		// 複数プロセス同時起動
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// 存在しないID用。タイミング差を消すためだけに使う。
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// ABOUTME: AuthProvider: account registration and login on top of the directory
// ABOUTME: bcrypt-hashed credentials; successful logins mint a session token

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/parley-im/parley/internal/directory"
	"github.com/parley-im/parley/internal/session"
	"github.com/parley-im/parley/internal/store"
)

// ErrInvalidCredentials is returned for a wrong password or an unknown
// login; the two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid login or password")

// DefaultSessionTTL bounds a session token's validity when the config
// doesn't say otherwise.
const DefaultSessionTTL = 12 * time.Hour

// Directory defines what the provider needs from the directory service.
type Directory interface {
	CreateUser(ctx context.Context, login, password, phone string) (*store.User, error)
	GetUser(ctx context.Context, login string) (*store.User, error)
}

// Provider handles registration and login. Everything else in the system
// treats it as an opaque capability that yields an authenticated session.
type Provider struct {
	directory Directory
	verifier  *JWTVerifier
	ttl       time.Duration
	logger    *slog.Logger
}

// NewProvider creates an auth provider. ttl <= 0 uses DefaultSessionTTL.
func NewProvider(dir Directory, verifier *JWTVerifier, ttl time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Provider{
		directory: dir,
		verifier:  verifier,
		ttl:       ttl,
		logger:    logger.With("component", "auth"),
	}
}

// Register creates an account, storing only the bcrypt hash of the
// password. Returns store.ErrDuplicateLogin for a taken login.
func (p *Provider) Register(ctx context.Context, login, password, phone string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := p.directory.CreateUser(ctx, login, string(hash), phone); err != nil {
		return err
	}

	p.logger.Info("account registered", "login", directory.NormalizeLogin(login))
	return nil
}

// Login verifies the credential and returns a fresh Session with a signed
// token. Unknown logins burn a bcrypt comparison against a dummy hash so
// the timing doesn't reveal which half of the credential was wrong.
func (p *Provider) Login(ctx context.Context, login, password string) (*session.Session, error) {
	login = directory.NormalizeLogin(login)

	user, err := p.directory.GetUser(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := p.verifier.Generate(login, p.ttl)
	if err != nil {
		return nil, err
	}

	p.logger.Info("login succeeded", "login", login)
	return &session.Session{
		Login:     login,
		Token:     token,
		StartedAt: time.Now(),
	}, nil
}

// Verify returns the login carried by a valid, unexpired session token.
func (p *Provider) Verify(token string) (string, error) {
	return p.verifier.Verify(token)
}

// dummyHash is a bcrypt hash of an unguessable throwaway value, used to
// equalize login timing for unknown users.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("parley-dummy-credential"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}()

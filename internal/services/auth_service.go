package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"comanda/internal/apperr"
	"comanda/internal/domain"
	"comanda/internal/repos"
)

var ErrBadCreds = errors.New("invalid username or password")

// AuthService verifies credentials and issues/validates the signed
// tokens the API uses as caller identity.
type AuthService struct {
	Users    *repos.UserRepo
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret), TokenTTL: 24 * time.Hour}
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) Login(username, password string) (string, *domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}

	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

// VerifyToken resolves a bearer token to the user it was issued to.
func (s *AuthService) VerifyToken(token string) (*domain.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return s.Users.ByID(claims.UserID)
}

type UserInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *AuthService) CreateUser(in UserInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, apperr.Invalidf("username and password are required")
	}
	if in.Role != domain.RoleAdmin && in.Role != domain.RoleWaiter {
		return nil, apperr.Invalidf("unknown role %q", in.Role)
	}
	if _, err := s.Users.ByUsername(in.Username); err == nil {
		return nil, apperr.Conflictf("username %q is taken", in.Username)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:       uuid.NewString(),
		Username: in.Username,
		Name:     in.Name,
		Hash:     string(hash),
		Role:     in.Role,
	}
	if err := s.Users.Insert(u); err != nil {
		return nil, err
	}
	return &u, nil
}

type UpdateUserInput struct {
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUser resets a user's password, role, or both. Empty fields are
// left as they are; tokens already issued keep their old role claim
// until they expire, the DB role is what authorization checks.
func (s *AuthService) UpdateUser(id string, in UpdateUserInput) (*domain.User, error) {
	if in.Password == "" && in.Role == "" {
		return nil, apperr.Invalidf("nothing to update")
	}
	u, err := s.Users.ByID(id)
	if err != nil {
		return nil, err
	}
	if in.Role != "" {
		if in.Role != domain.RoleAdmin && in.Role != domain.RoleWaiter {
			return nil, apperr.Invalidf("unknown role %q", in.Role)
		}
		u.Role = in.Role
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
		if err != nil {
			return nil, err
		}
		u.Hash = string(hash)
	}
	if err := s.Users.Update(*u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) ListUsers() ([]domain.User, error) {
	return s.Users.List()
}

func (s *AuthService) DeleteUser(id string) error {
	return s.Users.Delete(id)
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// SessionStore abstracts the revocable-session backend (Redis). A token is
// only accepted while its session key exists; logout deletes the key.
type SessionStore interface {
	Save(ctx context.Context, tokenID string, identityID int64, ttl time.Duration) error
	Delete(ctx context.Context, tokenID string) error
	Exists(ctx context.Context, tokenID string) (bool, error)
}

// AuthService implements registration, login, logout, and profile resolution.
type AuthService struct {
	repo      ports.IdentityRepository
	sessions  SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.IdentityRepository, sessions SessionStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates the role-specific profile and its identity in one atomic
// unit, then issues a session token.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	fields := map[string]string{}
	if in.Email == "" {
		fields["email"] = "email is required"
	}
	if in.Password == "" {
		fields["password"] = "password is required"
	}
	if !domain.ValidRole(in.Role) {
		fields["role"] = "role must be citizen or association"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	profile, err := profileFromInput(in)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	createdIdentity, createdProfile, err := s.repo.Register(ctx, identity, profile)
	if err != nil {
		return nil, err
	}

	result, err := s.issueSession(ctx, createdIdentity)
	if err != nil {
		return nil, err
	}
	result.Profile = createdProfile

	s.log.Info().Str("email", createdIdentity.Email).Str("role", createdIdentity.Role).Msg("identity registered")
	return result, nil
}

// profileFromInput builds the concrete profile record matching the requested
// role. Self-service registration covers citizens and associations; recycler
// identities are created by their association through RegisterRecycler.
// Missing fields come back as a ValidationError, never as a credential error.
func profileFromInput(in ports.RegisterInput) (domain.Profile, error) {
	switch in.Role {
	case domain.RoleCitizen:
		p := in.Citizen
		if p == nil {
			return nil, &domain.ValidationError{Fields: map[string]string{"profile": "citizen profile fields are required"}}
		}
		fields := requireFields(map[string]string{"name": p.Name, "address": p.Address, "city": p.City})
		if len(fields) > 0 {
			return nil, &domain.ValidationError{Fields: fields}
		}
		return &domain.Citizen{
			Name:          p.Name,
			Phone:         p.Phone,
			Address:       p.Address,
			City:          p.City,
			LocationNotes: p.LocationNotes,
		}, nil
	case domain.RoleAssociation:
		p := in.Association
		if p == nil {
			return nil, &domain.ValidationError{Fields: map[string]string{"profile": "association profile fields are required"}}
		}
		fields := requireFields(map[string]string{"name": p.Name, "phone": p.Phone, "city": p.City})
		if len(fields) > 0 {
			return nil, &domain.ValidationError{Fields: fields}
		}
		return &domain.Association{
			Name:        p.Name,
			Phone:       p.Phone,
			Address:     p.Address,
			City:        p.City,
			Description: p.Description,
		}, nil
	default:
		return nil, &domain.ValidationError{Fields: map[string]string{"role": "role must be citizen or association"}}
	}
}

// requireFields returns a message for every value that is empty.
func requireFields(values map[string]string) map[string]string {
	fields := map[string]string{}
	for name, value := range values {
		if value == "" {
			fields[name] = name + " is required"
		}
	}
	return fields
}

// Login authenticates the credential pair and issues a session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrIdentityNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.repo.ResolveProfile(ctx, identity)
	if err != nil {
		return nil, err
	}

	result, err := s.issueSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	result.Profile = profile

	s.log.Info().Str("email", identity.Email).Str("role", identity.Role).Msg("login")
	return result, nil
}

// Logout revokes the session. Deleting an already-absent session is a no-op.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	return s.sessions.Delete(ctx, tokenID)
}

// Profile returns the identity and resolved profile for the caller.
func (s *AuthService) Profile(ctx context.Context, caller ports.Caller) (*ports.ProfileResult, error) {
	identity, err := s.repo.FindByID(ctx, caller.IdentityID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.ResolveProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &ports.ProfileResult{Identity: identity, Profile: profile}, nil
}

// RegisterRecycler creates a worker profile owned by associationID plus its
// identity, atomically. The new recycler starts available.
func (s *AuthService) RegisterRecycler(ctx context.Context, associationID int64, in ports.RegisterRecyclerInput) (*ports.ProfileResult, error) {
	fields := requireFields(map[string]string{
		"email": in.Email, "password": in.Password,
		"name": in.Name, "phone": in.Phone, "city": in.City,
	})
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleRecycler,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	recycler := &domain.Recycler{
		Name:          in.Name,
		Phone:         in.Phone,
		City:          in.City,
		AssociationID: associationID,
		Status:        domain.RecyclerAvailable,
	}

	createdIdentity, createdProfile, err := s.repo.Register(ctx, identity, recycler)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("association_id", associationID).
		Str("email", createdIdentity.Email).
		Msg("recycler registered")

	return &ports.ProfileResult{Identity: createdIdentity, Profile: createdProfile}, nil
}

// issueSession signs a JWT carrying the caller triple and records the session
// so the token can be revoked before expiry.
func (s *AuthService) issueSession(ctx context.Context, identity *domain.Identity) (*ports.AuthResult, error) {
	tokenID := newTokenID()
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"sub":        strconv.FormatInt(identity.ID, 10),
		"role":       identity.Role,
		"profile_id": identity.ProfileID,
		"jti":        tokenID,
		"exp":        expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, tokenID, identity.ID, s.tokenTTL); err != nil {
		return nil, err
	}

	return &ports.AuthResult{Identity: identity, Token: token, ExpiresAt: expiresAt}, nil
}

// newTokenID returns a random 16-byte hex token identifier.
func newTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// fallback: nanosecond clock, still unique enough for a jti
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(b)
}

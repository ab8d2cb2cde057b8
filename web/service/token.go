package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/iceDeerStudio/Image-Repository-API/config"
	"github.com/iceDeerStudio/Image-Repository-API/database"
	"github.com/iceDeerStudio/Image-Repository-API/database/model"
	"github.com/iceDeerStudio/Image-Repository-API/logger"
	"github.com/iceDeerStudio/Image-Repository-API/util/random"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// TokenClaims is the payload of both access and refresh tokens.
type TokenClaims struct {
	Fresh     bool   `json:"fresh"`
	TokenKind string `json:"type"`
	jwt.RegisteredClaims
}

// UserId parses the subject claim.
func (c *TokenClaims) UserId() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// TokenService issues and verifies the signed access and refresh tokens and
// maintains the revocation list.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService() *TokenService {
	secret := config.GetJWTSecret()
	if secret == "" {
		secret = random.Seq(32)
		logger.Warning("IMGREPO_JWT_SECRET is not set, using an ephemeral secret; sessions will not survive a restart")
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  config.GetAccessTokenTTL(),
		refreshTTL: config.GetRefreshTokenTTL(),
	}
}

// NewJti returns a fresh token id. A login issues one jti shared by the access
// and refresh token, so revoking it invalidates the whole lineage.
func (s *TokenService) NewJti() string {
	return uuid.NewString()
}

// Issue signs a token of the given kind for the user. Refresh exchanges pass
// the refresh token's jti so derived access tokens stay revocable with it.
func (s *TokenService) Issue(userId int, fresh bool, kind string, jti string) (string, error) {
	now := time.Now()
	ttl := s.accessTTL
	if kind == TokenKindRefresh {
		ttl = s.refreshTTL
	}
	claims := TokenClaims{
		Fresh:     fresh,
		TokenKind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userId),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, expiry and the revocation list. The returned claims
// are trustworthy only for identity and kind; callers must still look the user
// up in the database.
func (s *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	revoked, err := s.IsRevoked(claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// VerifyKind additionally requires the token to be of the given kind.
func (s *TokenService) VerifyKind(tokenString string, kind string) (*TokenClaims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenKind != kind {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Revoke inserts the jti into the revocation list. Revoking an already revoked
// jti is a no-op.
func (s *TokenService) Revoke(jti string) error {
	db := database.GetDB()
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.RevokedToken{Jti: jti}).
		Error
}

func (s *TokenService) IsRevoked(jti string) (bool, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(&model.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PruneRevoked drops revocation rows older than the refresh token lifetime.
// Every token carrying such a jti has expired on its own, so validation
// results do not change.
func (s *TokenService) PruneRevoked() (int64, error) {
	db := database.GetDB()
	cutoff := time.Now().Add(-s.refreshTTL - 24*time.Hour)
	result := db.Where("created_at < ?", cutoff).Delete(&model.RevokedToken{})
	return result.RowsAffected, result.Error
}

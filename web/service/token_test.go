package service

import (
	"testing"
	"time"

	"github.com/iceDeerStudio/Image-Repository-API/database"
	"github.com/iceDeerStudio/Image-Repository-API/database/model"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndVerify(t *testing.T) {
	setup(t)
	defer teardown()

	tokens := newTestTokenService()
	jti := tokens.NewJti()

	tokenString, err := tokens.Issue(42, true, TokenKindAccess, jti)
	assert.NoError(t, err)

	claims, err := tokens.VerifyKind(tokenString, TokenKindAccess)
	assert.NoError(t, err)
	assert.True(t, claims.Fresh)
	assert.Equal(t, jti, claims.ID)

	userId, err := claims.UserId()
	assert.NoError(t, err)
	assert.Equal(t, 42, userId)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	setup(t)
	defer teardown()

	tokens := newTestTokenService()
	refreshToken, err := tokens.Issue(1, false, TokenKindRefresh, tokens.NewJti())
	assert.NoError(t, err)

	_, err = tokens.VerifyKind(refreshToken, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	setup(t)
	defer teardown()

	tokens := newTestTokenService()
	tokenString, err := tokens.Issue(1, true, TokenKindAccess, tokens.NewJti())
	assert.NoError(t, err)

	forger := &TokenService{secret: []byte("other-secret"), accessTTL: time.Minute, refreshTTL: time.Hour}
	forged, err := forger.Issue(1, true, TokenKindAccess, forger.NewJti())
	assert.NoError(t, err)

	_, err = tokens.Verify(tokenString + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = tokens.Verify(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	setup(t)
	defer teardown()

	tokens := &TokenService{secret: []byte("test-secret"), accessTTL: -time.Minute, refreshTTL: time.Hour}
	tokenString, err := tokens.Issue(1, true, TokenKindAccess, tokens.NewJti())
	assert.NoError(t, err)

	_, err = tokens.Verify(tokenString)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRevokeKillsWholeLineage(t *testing.T) {
	setup(t)
	defer teardown()

	tokens := newTestTokenService()
	jti := tokens.NewJti()

	accessToken, err := tokens.Issue(1, true, TokenKindAccess, jti)
	assert.NoError(t, err)
	refreshToken, err := tokens.Issue(1, false, TokenKindRefresh, jti)
	assert.NoError(t, err)
	derivedAccess, err := tokens.Issue(1, false, TokenKindAccess, jti)
	assert.NoError(t, err)

	assert.NoError(t, tokens.Revoke(jti))
	// Revocation is idempotent.
	assert.NoError(t, tokens.Revoke(jti))

	for _, tokenString := range []string{accessToken, refreshToken, derivedAccess} {
		_, err := tokens.Verify(tokenString)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	}

	// Tokens with a different jti stay valid.
	other, err := tokens.Issue(1, true, TokenKindAccess, tokens.NewJti())
	assert.NoError(t, err)
	_, err = tokens.Verify(other)
	assert.NoError(t, err)
}

func TestPruneRevokedKeepsLiveEntries(t *testing.T) {
	setup(t)
	defer teardown()

	tokens := newTestTokenService()
	staleJti := tokens.NewJti()
	liveJti := tokens.NewJti()

	assert.NoError(t, tokens.Revoke(staleJti))
	assert.NoError(t, tokens.Revoke(liveJti))

	// Age one entry past the refresh lifetime; its tokens have expired anyway.
	db := database.GetDB()
	cutoff := time.Now().Add(-tokens.refreshTTL - 48*time.Hour)
	err := db.Model(&model.RevokedToken{}).
		Where("jti = ?", staleJti).
		Update("created_at", cutoff).
		Error
	assert.NoError(t, err)

	pruned, err := tokens.PruneRevoked()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	revoked, err := tokens.IsRevoked(liveJti)
	assert.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = tokens.IsRevoked(staleJti)
	assert.NoError(t, err)
	assert.False(t, revoked)
}

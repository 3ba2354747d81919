// Package services contains server-side business logic. This file implements
// AuthService, which provisions company credentials, verifies logins, issues
// session keys, and keeps the employee profile on a live session up to date.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ticketapi/internal/common"
	"github.com/dmitrijs2005/ticketapi/internal/cryptox"
	"github.com/dmitrijs2005/ticketapi/internal/dbx"
	"github.com/dmitrijs2005/ticketapi/internal/server/config"
	"github.com/dmitrijs2005/ticketapi/internal/server/models"
	"github.com/dmitrijs2005/ticketapi/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AuthService provides the credential and session operations:
// - ProvisionCredential: create a company login record
// - Authenticate: verify credentials and mint a session key
// - CheckAuth: report whether a session key is live
// - UpdateProfile: replace the employee contact fields on a live session
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	crypto      *cryptox.Crypto
	sessionTTL  time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, crypto *cryptox.Crypto, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		crypto:      crypto,
		sessionTTL:  cfg.SessionTTL,
	}
}

// ProvisionCredential hashes the password and stores a new company login
// record. An existing companyID yields common.ErrorAlreadyExists.
func (s *AuthService) ProvisionCredential(ctx context.Context, companyID, companyName, password string) error {
	repo := s.repomanager.Credentials(s.db)

	_, err := repo.Find(ctx, companyID)
	if err == nil {
		return common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error searching credential: %v", err)
	}

	digest, salt, err := s.crypto.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %v", err)
	}

	credential := &models.Credential{
		CompanyID:    companyID,
		CompanyName:  companyName,
		PasswordHash: digest,
		Salt:         salt,
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Credentials(tx).Create(ctx, credential)
	})
}

// Authenticate verifies the company password against the stored digest and,
// on success, issues and persists a fresh session key. Unknown company and
// wrong password both map to common.ErrorUnauthorized; a scrypt check is run
// either way so the two cases cost about the same.
func (s *AuthService) Authenticate(ctx context.Context, companyID, password string) (string, error) {
	repo := s.repomanager.Credentials(s.db)

	credential, err := repo.Find(ctx, companyID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.crypto.Check(password, nil, nil)
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !s.crypto.Check(password, credential.PasswordHash, credential.Salt) {
		return "", common.ErrorUnauthorized
	}

	session := &models.Session{
		AuthKey:   uuid.NewString(),
		CompanyID: credential.CompanyID,
	}
	if s.sessionTTL > 0 {
		expires := time.Now().Add(s.sessionTTL)
		session.ExpiresAt = &expires
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Sessions(tx).Create(ctx, session)
	})
	if err != nil {
		return "", common.ErrorInternal
	}

	return session.AuthKey, nil
}

// CheckAuth reports whether authKey identifies a live session.
func (s *AuthService) CheckAuth(ctx context.Context, authKey string) (bool, error) {
	return s.repomanager.Sessions(s.db).IsLive(ctx, authKey)
}

// UpdateProfile replaces the employee contact fields on the live session for
// authKey. A stale or unknown key yields common.ErrorUnauthorized.
func (s *AuthService) UpdateProfile(ctx context.Context, authKey string, profile models.Profile) error {
	var found bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var updErr error
		found, updErr = s.repomanager.Sessions(tx).UpdateProfile(ctx, authKey, profile)
		return updErr
	})
	if err != nil {
		return fmt.Errorf("error updating profile: %v", err)
	}

	if !found {
		return common.ErrorUnauthorized
	}

	return nil
}

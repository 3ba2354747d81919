package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ticketapi/internal/common"
	"github.com/dmitrijs2005/ticketapi/internal/cryptox"
	"github.com/dmitrijs2005/ticketapi/internal/dbx"
	"github.com/dmitrijs2005/ticketapi/internal/server/config"
	"github.com/dmitrijs2005/ticketapi/internal/server/models"
	credentialsrepo "github.com/dmitrijs2005/ticketapi/internal/server/repositories/credentials"
	sessionsrepo "github.com/dmitrijs2005/ticketapi/internal/server/repositories/sessions"
	ticketsrepo "github.com/dmitrijs2005/ticketapi/internal/server/repositories/tickets"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// fast scrypt parameters so the tests do not pay the production cost
func newTestCrypto(t *testing.T) *cryptox.Crypto {
	t.Helper()
	c, err := cryptox.New([]byte("test-pepper"), cryptox.Params{
		N: 1 << 4, R: 8, P: 1, SaltBytes: 16, HashBytes: 32,
	})
	if err != nil {
		t.Fatalf("cryptox.New error: %v", err)
	}
	return c
}

func newAuthService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *AuthService {
	t.Helper()
	cfg := &config.Config{SessionTTL: time.Hour}
	return NewAuthService(db, rm, newTestCrypto(t), cfg)
}

type fakeCredentialsRepo struct {
	findOut *models.Credential
	findErr error

	created   *models.Credential
	createErr error
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, c *models.Credential) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = c
	return nil
}

func (f *fakeCredentialsRepo) Find(ctx context.Context, companyID string) (*models.Credential, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

type fakeSessionsRepo struct {
	created   *models.Session
	createErr error

	liveOut bool
	liveErr error

	updFound   bool
	updErr     error
	updProfile models.Profile
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = s
	return nil
}

func (f *fakeSessionsRepo) IsLive(ctx context.Context, authKey string) (bool, error) {
	return f.liveOut, f.liveErr
}

func (f *fakeSessionsRepo) UpdateProfile(ctx context.Context, authKey string, profile models.Profile) (bool, error) {
	if f.updErr != nil {
		return false, f.updErr
	}
	f.updProfile = profile
	return f.updFound, nil
}

type fakeTicketsRepo struct {
	createID  int64
	createErr error
	created   *models.Ticket

	findOut *models.Ticket
	findErr error
}

func (f *fakeTicketsRepo) Create(ctx context.Context, ticket *models.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	ticket.ID = f.createID
	f.created = ticket
	return nil
}

func (f *fakeTicketsRepo) Find(ctx context.Context, ticketID int64) (*models.Ticket, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

type fakeRepoManager struct {
	c  *fakeCredentialsRepo
	s  *fakeSessionsRepo
	tk *fakeTicketsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error         { return nil }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentialsrepo.Repository   { return m.c }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository         { return m.s }
func (m *fakeRepoManager) Tickets(db dbx.DBTX) ticketsrepo.Repository           { return m.tk }

// --- ProvisionCredential ---

func TestProvisionCredential_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{c: &fakeCredentialsRepo{findErr: common.ErrorNotFound}}
	s := newAuthService(t, db, rm)

	if err := s.ProvisionCredential(context.Background(), "acme", "Acme Inc", "pw1"); err != nil {
		t.Fatalf("ProvisionCredential error: %v", err)
	}

	created := rm.c.created
	if created == nil || created.CompanyID != "acme" || created.CompanyName != "Acme Inc" {
		t.Fatalf("unexpected credential: %+v", created)
	}
	if len(created.PasswordHash) == 0 || len(created.Salt) == 0 {
		t.Fatal("credential stored without digest or salt")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestProvisionCredential_AlreadyExists(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{c: &fakeCredentialsRepo{findOut: &models.Credential{CompanyID: "acme"}}}
	s := newAuthService(t, db, rm)

	err := s.ProvisionCredential(context.Background(), "acme", "Acme Inc", "pw1")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestProvisionCredential_CreateErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{c: &fakeCredentialsRepo{
		findErr:   common.ErrorNotFound,
		createErr: errors.New("boom"),
	}}
	s := newAuthService(t, db, rm)

	if err := s.ProvisionCredential(context.Background(), "acme", "Acme Inc", "pw1"); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// --- Authenticate ---

func TestAuthenticate_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	crypto := newTestCrypto(t)
	digest, salt, err := crypto.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	rm := &fakeRepoManager{
		c: &fakeCredentialsRepo{findOut: &models.Credential{
			CompanyID: "acme", PasswordHash: digest, Salt: salt,
		}},
		s: &fakeSessionsRepo{},
	}
	s := NewAuthService(db, rm, crypto, &config.Config{SessionTTL: time.Hour})

	key, err := s.Authenticate(context.Background(), "acme", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if key == "" {
		t.Fatal("empty auth key")
	}

	created := rm.s.created
	if created == nil || created.AuthKey != key || created.CompanyID != "acme" {
		t.Fatalf("unexpected session: %+v", created)
	}
	if created.ExpiresAt == nil || !created.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", created.ExpiresAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestAuthenticate_NoExpiryWhenTTLDisabled(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	crypto := newTestCrypto(t)
	digest, salt, err := crypto.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	rm := &fakeRepoManager{
		c: &fakeCredentialsRepo{findOut: &models.Credential{CompanyID: "acme", PasswordHash: digest, Salt: salt}},
		s: &fakeSessionsRepo{},
	}
	s := NewAuthService(db, rm, crypto, &config.Config{SessionTTL: 0})

	if _, err := s.Authenticate(context.Background(), "acme", "pw"); err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if rm.s.created.ExpiresAt != nil {
		t.Fatalf("expected nil expiry, got %v", rm.s.created.ExpiresAt)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	crypto := newTestCrypto(t)
	digest, salt, err := crypto.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	rm := &fakeRepoManager{
		c: &fakeCredentialsRepo{findOut: &models.Credential{CompanyID: "acme", PasswordHash: digest, Salt: salt}},
	}
	s := NewAuthService(db, rm, crypto, &config.Config{SessionTTL: time.Hour})

	_, authErr := s.Authenticate(context.Background(), "acme", "battery-staple")
	if !errors.Is(authErr, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", authErr)
	}
}

func TestAuthenticate_UnknownCompany(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{c: &fakeCredentialsRepo{findErr: common.ErrorNotFound}}
	s := newAuthService(t, db, rm)

	_, err := s.Authenticate(context.Background(), "ghost", "pw")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestAuthenticate_StoreErr(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{c: &fakeCredentialsRepo{findErr: errors.New("db down")}}
	s := newAuthService(t, db, rm)

	_, err := s.Authenticate(context.Background(), "acme", "pw")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

// --- CheckAuth ---

func TestCheckAuth(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{s: &fakeSessionsRepo{liveOut: true}}
	s := newAuthService(t, db, rm)

	live, err := s.CheckAuth(context.Background(), "key-1")
	if err != nil {
		t.Fatalf("CheckAuth error: %v", err)
	}
	if !live {
		t.Fatal("want live=true")
	}
}

// --- UpdateProfile ---

func TestUpdateProfile_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{s: &fakeSessionsRepo{updFound: true}}
	s := newAuthService(t, db, rm)

	first := "Jane"
	profile := models.Profile{FirstName: &first}

	if err := s.UpdateProfile(context.Background(), "key-1", profile); err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if rm.s.updProfile.FirstName == nil || *rm.s.updProfile.FirstName != "Jane" {
		t.Fatalf("profile not passed through: %+v", rm.s.updProfile)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUpdateProfile_StaleKey(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{s: &fakeSessionsRepo{updFound: false}}
	s := newAuthService(t, db, rm)

	err := s.UpdateProfile(context.Background(), "stale", models.Profile{})
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestUpdateProfile_StoreErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{s: &fakeSessionsRepo{updErr: errors.New("db down")}}
	s := newAuthService(t, db, rm)

	if err := s.UpdateProfile(context.Background(), "key-1", models.Profile{}); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

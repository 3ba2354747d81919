package tickets

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ticketapi/internal/common"
	"github.com/dmitrijs2005/ticketapi/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strptr(s string) *string { return &s }

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `INSERT\s+INTO\s+tickets\s*\(auth_key,\s*description,\s*location,\s*photo\)(?s:.*)RETURNING\s+ticket_id`

	mock.ExpectQuery(q).
		WithArgs("key-1", "printer on fire", strptr("floor 2"), nil).
		WillReturnRows(sqlmock.NewRows([]string{"ticket_id"}).AddRow(int64(42)))

	ticket := &models.Ticket{AuthKey: "key-1", Description: "printer on fire", Location: strptr("floor 2")}
	if err := repo.Create(context.Background(), ticket); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if ticket.ID != 42 {
		t.Fatalf("want generated ID 42, got %d", ticket.ID)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+tickets`).
		WillReturnError(errors.New("db down"))

	ticket := &models.Ticket{AuthKey: "key-1", Description: "printer on fire"}
	err := repo.Create(context.Background(), ticket)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFind_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `SELECT\s+ticket_id,\s*auth_key,\s*description,\s*location,\s*photo,\s*created_at\s+FROM\s+tickets`

	created := time.Now()
	rows := sqlmock.NewRows([]string{"ticket_id", "auth_key", "description", "location", "photo", "created_at"}).
		AddRow(int64(42), "key-1", "printer on fire", "floor 2", "aGVsbG8=", created)
	mock.ExpectQuery(q).
		WithArgs(int64(42)).
		WillReturnRows(rows)

	got, err := repo.Find(context.Background(), 42)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got.ID != 42 || got.Description != "printer on fire" {
		t.Fatalf("unexpected ticket: %+v", got)
	}
	if got.Photo == nil || *got.Photo != "aGVsbG8=" {
		t.Fatalf("unexpected photo: %v", got.Photo)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+ticket_id`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFind_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+ticket_id`).
		WithArgs(int64(42)).
		WillReturnError(errors.New("db err"))

	_, err := repo.Find(context.Background(), 42)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

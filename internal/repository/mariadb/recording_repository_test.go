package mariadb

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

var recordingColumns = []string{
	"id", "parent_id", "name", "url", "essence", "category_id", "age_id", "gender_id",
	"location", "occupation", "created_at", "updated_at", "deleted_at",
}

func TestRecordingRepository_Insert(t *testing.T) {
	loc := "Lyon"
	rec := model.NewRecording{
		ID:       tokenID,
		ParentID: &parentID,
		Metadata: model.UploadMetadata{Name: "Anna", Category: 1, Location: &loc},
	}

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "success"},
		{
			name:    "name conflict",
			execErr: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Anna' for key 'recordings_name'"},
			wantErr: recording.ErrNameConflict,
		},
		{
			name:    "id conflict",
			execErr: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'PRIMARY'"},
			wantErr: recording.ErrIDConflict,
		},
		{
			name: "unknown category",
			execErr: &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails " +
				"(`recordings`.`recordings`, CONSTRAINT `recordings_category` FOREIGN KEY (`category_id`) REFERENCES `categories` (`id`))"},
			wantErr: recording.ErrUnknownLabel,
		},
		{
			name: "unknown gender",
			execErr: &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails " +
				"(`recordings`.`recordings`, CONSTRAINT `recordings_gender` FOREIGN KEY (`gender_id`) REFERENCES `genders` (`id`))"},
			wantErr: recording.ErrUnknownLabel,
		},
		{
			name:    "foreign key on another column",
			execErr: &mysql.MySQLError{Number: 1452, Message: "CONSTRAINT `recordings_mime_type` FOREIGN KEY"},
		},
		{
			name:    "other error",
			execErr: errors.New("db.Exec failed"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("unexpected error when opening stub database: %s", err)
			}
			defer func() { _ = sqlDB.Close() }()

			exp := mock.ExpectExec(regexp.QuoteMeta(`
      INSERT INTO recordings
        (id, parent_id, name, category_id, age_id, gender_id, location, occupation)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `)).WithArgs(rec.ID, parentID, "Anna", int16(1), nil, nil, "Lyon", nil)
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err = NewRecordingRepository(sqlDB).Insert(context.Background(), rec)
			switch {
			case tc.execErr == nil && err != nil:
				t.Fatalf("Insert() returned unexpected error: %v", err)
			case tc.wantErr != nil && !errors.Is(err, tc.wantErr):
				t.Fatalf("Insert() error = %v; want %v", err, tc.wantErr)
			case tc.execErr != nil && tc.wantErr == nil && !errors.Is(err, tc.execErr):
				t.Fatalf("Insert() error = %v; want %v", err, tc.execErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestRecordingRepository_GetByID(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	deleted := created.Add(time.Hour)

	t.Run("active", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("unexpected error when opening stub database: %s", err)
		}
		defer func() { _ = sqlDB.Close() }()

		mock.ExpectQuery("SELECT r.id").WithArgs(tokenID).
			WillReturnRows(sqlmock.NewRows(recordingColumns).AddRow(
				tokenID[:], nil, "Anna", "https://cdn/x", "audio/ogg; codecs=opus", 1, 2, nil,
				"Lyon", nil, created, created, nil,
			))

		got, err := NewRecordingRepository(sqlDB).GetByID(context.Background(), tokenID)
		if err != nil {
			t.Fatalf("GetByID() returned unexpected error: %v", err)
		}
		active, ok := got.(*model.ActiveRecording)
		if !ok {
			t.Fatalf("GetByID() = %T; want *model.ActiveRecording", got)
		}
		if active.Name != "Anna" || *active.URL != "https://cdn/x" || *active.Age != 2 || active.Gender != nil || active.ParentID != nil {
			t.Errorf("unexpected recording: %+v", active)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("unexpected error when opening stub database: %s", err)
		}
		defer func() { _ = sqlDB.Close() }()

		mock.ExpectQuery("SELECT r.id").WithArgs(tokenID).
			WillReturnRows(sqlmock.NewRows(recordingColumns).AddRow(
				tokenID[:], parentID[:], nil, nil, nil, nil, nil, nil,
				nil, nil, created, deleted, deleted,
			))

		got, err := NewRecordingRepository(sqlDB).GetByID(context.Background(), tokenID)
		if err != nil {
			t.Fatalf("GetByID() returned unexpected error: %v", err)
		}
		tomb, ok := got.(*model.DeletedRecording)
		if !ok {
			t.Fatalf("GetByID() = %T; want *model.DeletedRecording", got)
		}
		if !tomb.DeletedAt.Equal(deleted) || *tomb.ParentID != parentID {
			t.Errorf("unexpected tombstone: %+v", tomb)
		}
	})

	t.Run("missing", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("unexpected error when opening stub database: %s", err)
		}
		defer func() { _ = sqlDB.Close() }()

		mock.ExpectQuery("SELECT r.id").WithArgs(tokenID).
			WillReturnRows(sqlmock.NewRows(recordingColumns))

		_, err = NewRecordingRepository(sqlDB).GetByID(context.Background(), tokenID)
		if !errors.Is(err, recording.ErrRecordingNotFound) {
			t.Errorf("GetByID() error = %v; want ErrRecordingNotFound", err)
		}
	})
}

func TestRecordingRepository_Delete(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "tombstoned",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("SET deleted_at")).WithArgs(tokenID).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE parent_id = ?")).WithArgs(tokenID).
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectCommit()
			},
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("SET deleted_at")).WithArgs(tokenID).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT deleted_at IS NOT NULL")).WithArgs(tokenID).
					WillReturnRows(sqlmock.NewRows([]string{"deleted"}))
				mock.ExpectRollback()
			},
			wantErr: recording.ErrRecordingNotFound,
		},
		{
			name: "already deleted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("SET deleted_at")).WithArgs(tokenID).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT deleted_at IS NOT NULL")).WithArgs(tokenID).
					WillReturnRows(sqlmock.NewRows([]string{"deleted"}).AddRow(true))
				mock.ExpectRollback()
			},
			wantErr: recording.ErrRecordingDeleted,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("unexpected error when opening stub database: %s", err)
			}
			defer func() { _ = sqlDB.Close() }()

			tc.setup(mock)

			err = NewRecordingRepository(sqlDB).Delete(context.Background(), tokenID)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("Delete() returned unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("Delete() error = %v; want %v", err, tc.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestRecordingRepository_UpdateURL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewRecordingRepository(sqlDB)

	mock.ExpectExec(regexp.QuoteMeta("SET url = ?, mime_type_id = ?")).
		WithArgs("https://cdn/x", int16(3), tokenID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET url = ?, mime_type_id = ?")).
		WithArgs("https://cdn/y", int16(3), parentID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateURL(context.Background(), tokenID, "https://cdn/x", 3); err != nil {
		t.Fatalf("UpdateURL() returned unexpected error: %v", err)
	}
	if err := repo.UpdateURL(context.Background(), parentID, "https://cdn/y", 3); !errors.Is(err, recording.ErrRecordingNotFound) {
		t.Fatalf("UpdateURL() error = %v; want ErrRecordingNotFound", err)
	}
}

func TestRecordingRepository_Listings(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewRecordingRepository(sqlDB)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE parent_id = ?")).WithArgs(parentID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location"}).AddRow(tokenID[:], "Anna", nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY RAND()")).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location"}).
			AddRow(tokenID[:], "Anna", "Lyon").
			AddRow(parentID[:], "Bob", nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).WithArgs("Anna").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	children, err := repo.ListChildren(ctx, parentID)
	if err != nil || len(children) != 1 || children[0].Name != "Anna" || children[0].Location != nil {
		t.Errorf("ListChildren() = %+v, %v", children, err)
	}
	n, err := repo.CountActive(ctx)
	if err != nil || n != 7 {
		t.Errorf("CountActive() = %d, %v", n, err)
	}
	random, err := repo.Random(ctx, 2)
	if err != nil || len(random) != 2 || *random[0].Location != "Lyon" {
		t.Errorf("Random() = %+v, %v", random, err)
	}
	exists, err := repo.NameExists(ctx, "Anna")
	if err != nil || !exists {
		t.Errorf("NameExists() = %v, %v", exists, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestMimeTypeRepository_FindByFormat(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewMimeTypeRepository(sqlDB)
	cols := []string{"id", "container", "codec", "essence", "extension"}

	mock.ExpectQuery("FROM mime_types").WithArgs("ogg", "opus").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "ogg", "opus", "audio/ogg; codecs=opus", "ogg"))
	mock.ExpectQuery("FROM mime_types").WithArgs("avi", "mp3").
		WillReturnRows(sqlmock.NewRows(cols))

	m, err := repo.FindByFormat(context.Background(), model.AudioFormat{Container: "ogg", Codec: "opus"})
	if err != nil {
		t.Fatalf("FindByFormat() returned unexpected error: %v", err)
	}
	if m.ID != 1 || m.Essence != "audio/ogg; codecs=opus" || m.Format.String() != "ogg/opus" {
		t.Errorf("FindByFormat() = %+v", m)
	}

	_, err = repo.FindByFormat(context.Background(), model.AudioFormat{Container: "avi", Codec: "mp3"})
	if !errors.Is(err, recording.ErrMimeTypeNotFound) {
		t.Errorf("FindByFormat() error = %v; want ErrMimeTypeNotFound", err)
	}
}

func TestLabelRepository_ListLabels(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewLabelRepository(sqlDB)

	mock.ExpectQuery(regexp.QuoteMeta("FROM genders")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "description"}).
			AddRow(1, "female", "Female").
			AddRow(2, "male", "Male"))

	labels, err := repo.ListLabels(context.Background(), model.LabelGenders)
	if err != nil {
		t.Fatalf("ListLabels() returned unexpected error: %v", err)
	}
	if len(labels) != 2 || labels[1].Label != "male" {
		t.Errorf("ListLabels() = %+v", labels)
	}

	if _, err := repo.ListLabels(context.Background(), model.LabelKind("planets")); err == nil {
		t.Error("expected error for unknown label kind")
	}
}

func TestKeyRepository(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewKeyRepository(sqlDB)
	key := uuid.NewUUID()
	repo.newID = func() uuid.UUID { return key }
	email := "a@b.co"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO management_keys")).
		WithArgs(key, tokenID, email).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM management_keys")).WithArgs(key).
		WillReturnRows(sqlmock.NewRows([]string{"recording_id"}).AddRow(tokenID[:]))
	mock.ExpectQuery(regexp.QuoteMeta("FROM management_keys")).WithArgs(parentID).
		WillReturnRows(sqlmock.NewRows([]string{"recording_id"}))

	got, err := repo.CreateKey(context.Background(), tokenID, &email)
	if err != nil || got != key {
		t.Fatalf("CreateKey() = %s, %v", got, err)
	}
	id, err := repo.FindRecordingByKey(context.Background(), key)
	if err != nil || id != tokenID {
		t.Fatalf("FindRecordingByKey() = %s, %v", id, err)
	}
	if _, err := repo.FindRecordingByKey(context.Background(), parentID); !errors.Is(err, recording.ErrKeyNotFound) {
		t.Errorf("FindRecordingByKey() error = %v; want ErrKeyNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

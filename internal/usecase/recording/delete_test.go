package recording_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fhuszti/recordings-ms-go/internal/mock"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

func TestDeleteRecording(t *testing.T) {
	storeDown := errors.New("minio unreachable")
	dbDown := errors.New("mariadb unreachable")

	tests := []struct {
		name      string
		storeErr  error
		dbErr     error
		wantErr   bool
		wantKind  recording.Kind
		wantParts []string
	}{
		{name: "both succeed"},
		{name: "object already gone", storeErr: recording.ErrObjectNotFound},
		{
			name:     "row missing",
			dbErr:    recording.ErrRecordingNotFound,
			wantErr:  true,
			wantKind: recording.KindNonExistentID,
		},
		{
			name:     "row already tombstoned",
			storeErr: recording.ErrObjectNotFound,
			dbErr:    recording.ErrRecordingDeleted,
			wantErr:  true,
			wantKind: recording.KindAlreadyDeleted,
		},
		{
			name:      "store fails",
			storeErr:  storeDown,
			wantErr:   true,
			wantKind:  recording.KindSummarizedDeleteFailed,
			wantParts: []string{recording.PartObjectStore},
		},
		{
			name:      "database fails",
			dbErr:     dbDown,
			wantErr:   true,
			wantKind:  recording.KindSummarizedDeleteFailed,
			wantParts: []string{recording.PartDatabase},
		},
		{
			name:      "both fail",
			storeErr:  storeDown,
			dbErr:     dbDown,
			wantErr:   true,
			wantKind:  recording.KindSummarizedDeleteFailed,
			wantParts: []string{recording.PartObjectStore, recording.PartDatabase},
		},
		{
			name:      "store fails and row missing",
			storeErr:  storeDown,
			dbErr:     recording.ErrRecordingNotFound,
			wantErr:   true,
			wantKind:  recording.KindSummarizedDeleteFailed,
			wantParts: []string{recording.PartObjectStore, recording.PartDatabase},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := uuid.NewUUID()
			store := &mock.Storage{DeleteErr: tc.storeErr}
			recs := &mock.MockRecordingRepo{DeleteErr: tc.dbErr}
			svc := recording.NewRecordingDeleter(recs, store)

			err := svc.DeleteRecording(context.Background(), id)

			if !store.DeleteCalled || store.DeletedID != id {
				t.Error("stored audio should be deleted")
			}
			if !recs.DeleteCalled || recs.DeletedID != id {
				t.Error("row should be deleted even when the store fails")
			}
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			e := assertKind(t, err, tc.wantKind)
			if e.ID == nil || *e.ID != id {
				t.Errorf("error id = %v; want %v", e.ID, id)
			}
			if !reflect.DeepEqual(e.Parts, tc.wantParts) {
				t.Errorf("parts = %v; want %v", e.Parts, tc.wantParts)
			}
			if tc.storeErr == storeDown && !errors.Is(err, storeDown) {
				t.Error("store cause should be kept")
			}
			if tc.dbErr == dbDown && !errors.Is(err, dbDown) {
				t.Error("database cause should be kept")
			}
		})
	}
}

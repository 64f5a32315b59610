package mariadb

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

const (
	errDuplicateEntry  = 1062
	errNoReferencedRow = 1452
)

var labelConstraints = []string{"recordings_category", "recordings_age", "recordings_gender"}

// mapInsertErr turns unique-key and label foreign-key violations on
// recordings into the errors the upload saga distinguishes.
func mapInsertErr(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	if me.Number == errNoReferencedRow {
		for _, c := range labelConstraints {
			if strings.Contains(me.Message, c) {
				return recording.ErrUnknownLabel
			}
		}
		return err
	}
	if me.Number != errDuplicateEntry {
		return err
	}
	switch {
	case strings.Contains(me.Message, "recordings_name"):
		return recording.ErrNameConflict
	case strings.Contains(me.Message, "PRIMARY"):
		return recording.ErrIDConflict
	default:
		return err
	}
}

package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core/classroom"
)

// Load replaces every table's content with ds, keeping its ids, then moves the id sequences past them.
func Load(ctx context.Context, db *sqlx.DB, ds classroom.Dataset) (err error) {
	repo := NewRepository(db).(*repository)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `TRUNCATE attendance, grade, assignment, student, "class" RESTART IDENTITY`); err != nil {
		return errors.Wrap(err, "truncating tables")
	}

	if err = seed(ctx, tx, repo.class, ds.Classes); err != nil {
		return err
	}
	if err = seed(ctx, tx, repo.student, ds.Students); err != nil {
		return err
	}
	if err = seed(ctx, tx, repo.assignment, ds.Assignments); err != nil {
		return err
	}
	if err = seed(ctx, tx, repo.grade, ds.Grades); err != nil {
		return err
	}
	if err = seed(ctx, tx, repo.attendance, ds.Attendance); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}

func seed[T any](ctx context.Context, tx *sqlx.Tx, t table[T], rows []T) error {
	cols := append([]string{"id"}, t.columns...)
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)", t.name, strings.Join(cols, ", "), strings.Join(cols, ", :"))
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, q, row); err != nil {
			return errors.Wrapf(err, "seeding %s", t.name)
		}
	}

	// keep the serial in step with the ids for inserts made outside the repository
	setval := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %[1]s",
		t.name,
	)
	if _, err := tx.ExecContext(ctx, setval); err != nil {
		return errors.Wrapf(err, "resetting %s id sequence", t.name)
	}
	return nil
}

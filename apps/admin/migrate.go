package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/fs"
	"github.com/trezcool/classbook/storage/database"
	"github.com/trezcool/classbook/storage/database/sqlx"
)

var (
	gooseRunFunc = database.Migrate // mockable
	loadFunc     = sqlxrepos.Load   // mockable
)

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.openDB()
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	return gooseRunFunc(db, args[0], args[1:]...)
}

// seed migrates the database then replaces its content with the embedded fixtures.
func (cli *commandLine) seed() error {
	ds, err := classroom.LoadDataset(appfs.FS, appfs.FixturesDir)
	if err != nil {
		return errors.Wrap(err, "loading fixtures")
	}

	db, err := cli.openDB()
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = gooseRunFunc(db, "up"); err != nil {
		return err
	}
	if err = loadFunc(context.Background(), db, ds); err != nil {
		return errors.Wrap(err, "seeding database")
	}
	_, _ = fmt.Fprintf(cli.out, "seeded %d classes, %d students, %d assignments, %d grades, %d attendance records\n",
		len(ds.Classes), len(ds.Students), len(ds.Assignments), len(ds.Grades), len(ds.Attendance))
	return nil
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/classbook/apps/shared"
	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/report"
	"github.com/trezcool/classbook/storage/database/inmem"
	"github.com/trezcool/classbook/tests"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	repo := inmemdb.NewRepository(inmemdb.OpenWithDataset(inmemdb.Options{}, testutil.Dataset()))
	validate, translator := classroom.NewValidator()
	svc := classroom.NewService(repo, validate, translator)

	out := new(bytes.Buffer)
	return &commandLine{
		out: out,
		backend: &shared.Backend{
			Repo:         repo,
			ClassroomSvc: svc,
			ReportSvc:    report.NewService(svc),
		},
		openDB: func() (*sqlx.DB, error) {
			// lazy: never connects
			return sqlx.Open("postgres", "postgres://localhost/classbook_test?sslmode=disable")
		},
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		if err != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "export: no out", args: []string{"export"}, wantErr: errHelp},
		{name: "import: no file", args: []string{"import", "-class", "1"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	gooseRunFunc = func(db *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_room_capacity", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli, out := setup(t)

	var migrated []string
	gooseRunFunc = func(db *sqlx.DB, command string, args ...string) error {
		migrated = append(migrated, command)
		return nil
	}
	var seeded classroom.Dataset
	loadFunc = func(ctx context.Context, db *sqlx.DB, ds classroom.Dataset) error {
		seeded = ds
		return nil
	}

	require.NoError(t, cli.run([]string{"admin", "seed"}))
	assert.Equal(t, []string{"up"}, migrated)
	assert.Len(t, seeded.Classes, 3)
	assert.Len(t, seeded.Students, 8)
	assert.Equal(t, "seeded 3 classes, 8 students, 6 assignments, 11 grades, 14 attendance records\n", out.String())
}

func Test_commandLine_report(t *testing.T) {
	cli, out := setup(t)

	t.Run("json", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "report", "-class", "1", "-top", "1", "-json"}))

		want, err := cli.backend.ReportSvc.Summary(context.Background(), 1, 1)
		require.NoError(t, err)
		wantData, err := json.Marshal(want)
		require.NoError(t, err)
		assert.JSONEq(t, string(wantData), out.String())
	})

	t.Run("json when not a terminal", func(t *testing.T) {
		isTerminalFunc = func() bool { return false }
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "report"}))
		assert.True(t, json.Valid(out.Bytes()))
	})

	t.Run("table", func(t *testing.T) {
		isTerminalFunc = func() bool { return true }
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "report"}))

		assert.Contains(t, out.String(), "All Classes")
		assert.Contains(t, out.String(), "Emma Johnson")
		assert.Contains(t, out.String(), "Algebra I")
	})

	t.Run("unknown class", func(t *testing.T) {
		err := cli.run([]string{"admin", "report", "-class", "9"})
		assert.EqualError(t, err, "building summary: getting class: class 9 not found")
	})
}

func Test_commandLine_exportAndImport(t *testing.T) {
	cli, out := setup(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "report.xlsx")
	require.NoError(t, cli.run([]string{"admin", "export", "-out", path, "-class", "1", "-month", "2024-10"}))
	assert.Equal(t, "report written to "+path+"\n", out.String())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, f.GetSheetList(), 5)
	require.NoError(t, f.Close())

	// import
	roster := excelize.NewFile()
	rows := [][]interface{}{
		{"firstName", "lastName", "email", "grade"},
		{"Noah", "Davis", "noah@school.test", "10th Grade"},
		{"Ghost", "", "ghost@school.test", "10th Grade"},
	}
	for i := range rows {
		require.NoError(t, roster.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &rows[i]))
	}
	rosterPath := filepath.Join(dir, "roster.xlsx")
	require.NoError(t, roster.SaveAs(rosterPath))
	require.NoError(t, roster.Close())

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "import", "-file", rosterPath, "-class", "2"}))
	assert.Equal(t, "imported 1 students\nrow 3: lastName: this field is required\n", out.String())

	students, err := cli.backend.ClassroomSvc.QueryStudents(context.Background(), classroom.StudentFilter{ClassID: 2})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Noah", students[0].FirstName)
}

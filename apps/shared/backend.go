// Package shared wires the data gateway selected by the configuration; it is used by every app.
package shared

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/report"
	"github.com/trezcool/classbook/storage/database"
	"github.com/trezcool/classbook/storage/database/inmem"
	"github.com/trezcool/classbook/storage/database/sqlx"
	"github.com/trezcool/classbook/storage/recordsapi"
)

// Backend is an opened data gateway along with the services built on it.
type Backend struct {
	Repo         classroom.Repository
	ClassroomSvc *classroom.Service
	ReportSvc    *report.Service
	DB           *sqlx.DB // only set by the postgres backend
}

func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// OpenBackend opens the gateway named by conf.Backend. The postgres database is created and
// migrated when needed.
func OpenBackend(ctx context.Context, conf *core.Config) (*Backend, error) {
	b := new(Backend)

	switch conf.Backend {
	case core.BackendFixture:
		db, err := inmemdb.OpenFixtures(inmemdb.Options{Latency: conf.Fixture.Latency})
		if err != nil {
			return nil, err
		}
		b.Repo = inmemdb.NewRepository(db)

	case core.BackendRemote:
		client := recordsapi.NewClient(recordsapi.Options{
			BaseURL:   conf.Remote.BaseURL,
			ProjectID: conf.Remote.ProjectID,
			PublicKey: conf.Remote.PublicKey,
			Timeout:   conf.Remote.Timeout,
		}, &http.Client{Timeout: conf.Remote.Timeout})
		b.Repo = recordsapi.NewRepository(client)

	case core.BackendPostgres:
		db, err := setUpDB(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "setting up database")
		}
		b.DB = db
		b.Repo = sqlxrepos.NewRepository(db)

	default:
		return nil, errors.Errorf("unknown backend %q", conf.Backend)
	}

	validate, translator := classroom.NewValidator()
	b.ClassroomSvc = classroom.NewService(b.Repo, validate, translator)
	b.ReportSvc = report.NewService(b.ClassroomSvc)
	return b, nil
}

func setUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

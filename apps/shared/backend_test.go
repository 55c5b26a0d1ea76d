package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/tests"
)

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("fixture", func(t *testing.T) {
		b, err := OpenBackend(ctx, &core.Config{Backend: core.BackendFixture})
		require.NoError(t, err)
		defer func() { _ = b.Close() }()

		classes, err := b.ClassroomSvc.QueryClasses(ctx)
		require.NoError(t, err)
		assert.Len(t, classes, 3)
		assert.Nil(t, b.DB)
	})

	t.Run("remote", func(t *testing.T) {
		api := testutil.NewRecordsAPI(t, testutil.Dataset())
		opts := api.Options()
		conf := &core.Config{
			Backend: core.BackendRemote,
			Remote:  core.RemoteConfig{BaseURL: opts.BaseURL, ProjectID: opts.ProjectID, PublicKey: opts.PublicKey},
		}
		b, err := OpenBackend(ctx, conf)
		require.NoError(t, err)

		students, err := b.ClassroomSvc.QueryStudents(ctx, classroom.StudentFilter{})
		require.NoError(t, err)
		assert.Equal(t, testutil.Dataset().Students, students)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := OpenBackend(ctx, &core.Config{Backend: "mongo"})
		assert.EqualError(t, err, `unknown backend "mongo"`)
	})
}

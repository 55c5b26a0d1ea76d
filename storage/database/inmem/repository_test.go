package inmemdb_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/storage/database/inmem"
	"github.com/trezcool/classbook/tests"
)

func TestRepository(t *testing.T) {
	testutil.RunRepositoryTests(t, func(t *testing.T, ds classroom.Dataset) classroom.Repository {
		return inmemdb.NewRepository(inmemdb.OpenWithDataset(inmemdb.Options{}, ds))
	})
}

func TestOpenFixtures(t *testing.T) {
	db, err := inmemdb.OpenFixtures(inmemdb.Options{})
	require.NoError(t, err)

	ds := db.Dump()
	assert.NotEmpty(t, ds.Students)
	assert.NotEmpty(t, ds.Classes)
	assert.NotEmpty(t, ds.Assignments)
	assert.NotEmpty(t, ds.Grades)
	assert.NotEmpty(t, ds.Attendance)

	for _, s := range ds.Students {
		assert.NotZero(t, s.ID)
		assert.NotEmpty(t, s.Status, "status defaults to Active")
	}
}

func TestSharedStore(t *testing.T) {
	db := inmemdb.Open(inmemdb.Options{})
	repo1 := inmemdb.NewRepository(db)
	repo2 := inmemdb.NewRepository(db)

	c := testutil.CreateClass(t, repo1, "Algebra I", "Mathematics")
	got, err := repo2.GetClass(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestConcurrentCreates(t *testing.T) {
	repo := inmemdb.NewRepository(inmemdb.Open(inmemdb.Options{}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.CreateClass(context.Background(), classroom.Class{Name: "C", Subject: "S"})
		}()
	}
	wg.Wait()

	classes, err := repo.QueryClasses(context.Background())
	require.NoError(t, err)
	seen := make(map[int]bool)
	for _, c := range classes {
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 20)
}

func TestLatency(t *testing.T) {
	repo := inmemdb.NewRepository(inmemdb.Open(inmemdb.Options{Latency: 20 * time.Millisecond}))

	start := time.Now()
	_, err := repo.QueryStudents(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.QueryStudents(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueryReturnsCopies(t *testing.T) {
	repo := inmemdb.NewRepository(inmemdb.OpenWithDataset(inmemdb.Options{}, testutil.Dataset()))

	students, err := repo.QueryStudents(context.Background())
	require.NoError(t, err)
	students[0].FirstName = "Changed"

	s, err := repo.GetStudent(context.Background(), students[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Emma", s.FirstName)
}

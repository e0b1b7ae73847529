package store

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/res"
)

func newTestStore(t *testing.T, capacity int) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// every connection would get its own in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	s := New(db, capacity, zaptest.NewLogger(t))
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func projectWith(name string, imageIDs ...string) *model.Project {
	p := &model.Project{Name: name}
	p.Report.Header.ProjectName = name
	for _, id := range imageIDs {
		p.Report.Entries.Append(model.Entry{Description: name, Image: model.ImageRef{AssetID: id}})
	}
	return p
}

func putImage(t *testing.T, s *Store, payload string) string {
	t.Helper()
	id, err := s.PutImage(context.Background(), []byte(payload))
	require.NoError(t, err)
	return id
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0)
	assert.Equal(t, DefaultCapacity, s.Capacity())

	img := putImage(t, s, "jpeg bytes")
	p := projectWith("Bridge", img)
	p.Report.Entries.Append(model.Entry{Description: "inline", Image: model.ImageRef{Data: []byte{1, 2, 3}}})
	require.NoError(t, s.Put(ctx, p))
	require.NotEmpty(t, p.ID)
	assert.False(t, p.UpdatedAt.IsZero())

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bridge", got.Name)
	assert.Equal(t, p.Report.Header, got.Report.Header)
	require.Len(t, got.Report.Entries, 2)
	assert.Equal(t, img, got.Report.Entries[0].Image.AssetID)
	assert.Equal(t, []byte{1, 2, 3}, got.Report.Entries[1].Image.Data)
	assert.Equal(t, "2", got.Report.Entries[1].SequenceLabel)
}

func TestGetUnknown(t *testing.T) {
	_, err := newTestStore(t, 0).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestListMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0)
	a, b, c := projectWith("a"), projectWith("b"), projectWith("c")
	for _, p := range []*model.Project{a, b, c} {
		require.NoError(t, s.Put(ctx, p))
	}
	// saving again makes a the most recent
	require.NoError(t, s.Put(ctx, a))

	list, err := s.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "c", "b"}, names)
}

func TestPutBeyondCapacityEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultCapacity)

	shared := putImage(t, s, "shared")
	var projects []*model.Project
	var own []string
	for i := 0; i < DefaultCapacity+1; i++ {
		id := putImage(t, s, fmt.Sprintf("photo %d", i))
		own = append(own, id)
		p := projectWith(fmt.Sprintf("project %d", i), id)
		if i < 2 {
			p.Report.Entries.Append(model.Entry{Image: model.ImageRef{AssetID: shared}})
		}
		require.NoError(t, s.Put(ctx, p))
		projects = append(projects, p)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, DefaultCapacity)

	_, err = s.Get(ctx, projects[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	has, err := s.HasImage(ctx, own[0])
	require.NoError(t, err)
	assert.False(t, has, "image of the evicted project survived")

	has, err = s.HasImage(ctx, shared)
	require.NoError(t, err)
	assert.True(t, has, "image still referenced by project 1 was removed")

	for _, id := range own[1:] {
		has, err := s.HasImage(ctx, id)
		require.NoError(t, err)
		assert.True(t, has)
	}
}

func TestDeleteCascadesToUnreferencedImages(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0)
	only := putImage(t, s, "only")
	both := putImage(t, s, "both")

	p1 := projectWith("one", only, both)
	p2 := projectWith("two", both)
	require.NoError(t, s.Put(ctx, p1))
	require.NoError(t, s.Put(ctx, p2))

	require.NoError(t, s.Delete(ctx, p1.ID))

	has, err := s.HasImage(ctx, only)
	require.NoError(t, err)
	assert.False(t, has)
	has, err = s.HasImage(ctx, both)
	require.NoError(t, err)
	assert.True(t, has)

	assert.ErrorIs(t, s.Delete(ctx, p1.ID), ErrNotFound)
}

func TestPutDropsImagesNoLongerUsed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0)
	old := putImage(t, s, "old")
	p := projectWith("p", old)
	require.NoError(t, s.Put(ctx, p))

	replacement := putImage(t, s, "new")
	p.Report.Entries[0].Image.AssetID = replacement
	require.NoError(t, s.Put(ctx, p))

	has, err := s.HasImage(ctx, old)
	require.NoError(t, err)
	assert.False(t, has)
	has, err = s.HasImage(ctx, replacement)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestEvictOldest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0)

	_, err := s.EvictOldest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first, second := projectWith("first"), projectWith("second")
	require.NoError(t, s.Put(ctx, first))
	require.NoError(t, s.Put(ctx, second))

	id, err := s.EvictOldest(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, id)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestImages(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0)

	a := putImage(t, s, "same")
	b := putImage(t, s, "same")
	assert.Equal(t, a, b)

	data, err := s.GetImage(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []byte("same"), data)

	require.NoError(t, s.DeleteImage(ctx, a))
	_, err = s.GetImage(ctx, a)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteImage(ctx, a), ErrNotFound)

	_, err = s.PutImage(ctx, nil)
	assert.Error(t, err)
}

func TestLoaderTreatsMissingAssetAsNoImage(t *testing.T) {
	s := newTestStore(t, 0)
	l := res.NewLoader("", s, zaptest.NewLogger(t))
	_, err := l.Resolve(context.Background(), model.ImageRef{AssetID: "missing"})
	assert.ErrorIs(t, err, res.ErrNoImage)
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "projects.db")
	s, err := Open(ctx, path, 3, zaptest.NewLogger(t))
	require.NoError(t, err)
	p := projectWith("persisted")
	require.NoError(t, s.Put(ctx, p))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, 3, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
}

package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"

	"github.com/gompdf/photolog/internal/config"
	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/state"
)

const report = `
header:
  proponent: Northwind Energy
  project_name: Substation upgrade
entries:
  - description: Transformer pad
    image:
      url: pad.png
  - description: Gate
`

func testEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)

	cfg, err := config.LoadConfiguration("")
	require.NoError(t, err)
	cfg.Store.Path = filepath.Join(t.TempDir(), "projects.db")
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)
	t.Cleanup(func() { _ = env.CloseStore() })
	return ctx, env
}

func writeReport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for x := range 40 {
		for y := range 30 {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pad.png"), buf.Bytes(), 0644))

	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(report), 0644))
	return path
}

func run(ctx context.Context, t *testing.T, action cli.ActionFunc, args ...string) error {
	t.Helper()
	cmd := &cli.Command{
		Name:   "test",
		Action: action,
		Flags:  []cli.Flag{&cli.StringFlag{Name: "name"}, &cli.BoolFlag{Name: "default"}},
	}
	return cmd.Run(ctx, append([]string{"test"}, args...))
}

func TestRenderDefaultsDestination(t *testing.T) {
	ctx, _ := testEnv(t)
	src := writeReport(t)

	require.NoError(t, run(ctx, t, renderReport, src))

	data, err := os.ReadFile(filepath.Join(filepath.Dir(src), "site.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderNeedsReport(t *testing.T) {
	ctx, _ := testEnv(t)
	assert.ErrorIs(t, run(ctx, t, renderReport), errNoArgs)
}

func TestImportExportDelete(t *testing.T) {
	ctx, env := testEnv(t)
	src := writeReport(t)

	require.NoError(t, run(ctx, t, importProject, "--name", "Site visit", src))

	s, err := env.Store(ctx)
	require.NoError(t, err)
	projects, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	p := projects[0]
	assert.Equal(t, "Site visit", p.Name)
	require.Len(t, p.Report.Entries, 2)
	assert.NotEmpty(t, p.Report.Entries[0].Image.AssetID, "image moved into the store")
	assert.True(t, p.Report.Entries[1].Image.IsZero())

	dst := filepath.Join(t.TempDir(), "out", "site.pdf")
	require.NoError(t, run(ctx, t, exportProject, p.ID, dst))
	assert.FileExists(t, dst)

	require.NoError(t, run(ctx, t, listProjects))
	require.NoError(t, run(ctx, t, showProject, p.ID))

	require.NoError(t, run(ctx, t, deleteProject, p.ID))
	has, err := s.HasImage(ctx, p.Report.Entries[0].Image.AssetID)
	require.NoError(t, err)
	assert.False(t, has)
	assert.Error(t, run(ctx, t, showProject, p.ID))
}

func TestImportNamesProjectFromHeader(t *testing.T) {
	ctx, env := testEnv(t)
	require.NoError(t, run(ctx, t, importProject, writeReport(t)))

	s, err := env.Store(ctx)
	require.NoError(t, err)
	projects, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Substation upgrade", projects[0].Name)
}

func TestUsesStoredImages(t *testing.T) {
	r := &model.Report{}
	r.Entries.Append(model.Entry{Image: model.ImageRef{URL: "a.png"}})
	assert.False(t, usesStoredImages(r))
	r.Entries.Append(model.Entry{Image: model.ImageRef{AssetID: "x"}})
	assert.True(t, usesStoredImages(r))
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "substation-upgrade-lot-12.pdf", defaultFileName(&model.Project{ID: "x", Name: "Substation upgrade, Lot 12"}))
	assert.Equal(t, "abc.pdf", defaultFileName(&model.Project{ID: "abc"}))
}

func TestDumpConfiguration(t *testing.T) {
	ctx, _ := testEnv(t)
	dst := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, run(ctx, t, outputConfiguration, dst))
	_, err := config.LoadConfiguration(dst)
	require.NoError(t, err)

	require.NoError(t, run(ctx, t, outputConfiguration, "--default", dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, config.Prepare(), data)
}

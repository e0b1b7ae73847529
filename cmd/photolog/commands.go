package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gompdf/photolog/internal/config"
	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/reportfile"
	"github.com/gompdf/photolog/internal/res"
	"github.com/gompdf/photolog/internal/state"
	"github.com/gompdf/photolog/pkg/api"
)

var errNoArgs = errors.New("missing required arguments")

func usesStoredImages(report *model.Report) bool {
	for _, e := range report.Entries {
		if e.Image.AssetID != "" {
			return true
		}
	}
	return false
}

func exportReport(ctx context.Context, report *model.Report, assets res.AssetGetter, base, dst string) error {
	env := state.EnvFromContext(ctx)

	opts := append(env.Cfg.ExportOptions(), api.WithLogger(env.Log))
	if base != "" {
		opts = append(opts, api.WithBaseURL(base))
	}
	doc, err := api.New(assets, opts...).ExportFile(ctx, report, dst)
	if err != nil {
		return fmt.Errorf("unable to export report: %w", err)
	}
	env.Log.Info("Report written", zap.String("file", dst), zap.Int("pages", doc.PageCount))
	return nil
}

func renderReport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if src == "" {
		return fmt.Errorf("report file: %w", errNoArgs)
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	dst := cmd.Args().Get(1)
	if dst == "" {
		dst = strings.TrimSuffix(src, filepath.Ext(src)) + ".pdf"
	}

	report, err := reportfile.Load(src)
	if err != nil {
		return err
	}

	var assets res.AssetGetter
	if usesStoredImages(report) {
		s, err := env.Store(ctx)
		if err != nil {
			return fmt.Errorf("report refers to stored images: %w", err)
		}
		assets = s
	}
	return exportReport(ctx, report, assets, src, dst)
}

func listProjects(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)

	s, err := env.Store(ctx)
	if err != nil {
		return err
	}
	projects, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("unable to list projects: %w", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tENTRIES\tUPDATED")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.ID, p.Name, len(p.Report.Entries), p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func importProject(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if src == "" {
		return fmt.Errorf("report file: %w", errNoArgs)
	}
	report, err := reportfile.Load(src)
	if err != nil {
		return err
	}

	s, err := env.Store(ctx)
	if err != nil {
		return err
	}
	if err := reportfile.Import(ctx, report, res.NewLoader(src, s, env.Log), s); err != nil {
		if ctx.Err() != nil {
			return err
		}
		for _, e := range multierr.Errors(err) {
			env.Log.Warn("Image was not imported, keeping reference", zap.Error(e))
		}
	}

	name := cmd.String("name")
	if name == "" {
		name = report.Header.ProjectName
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
	p := &model.Project{Name: name, Report: *report}
	if err := s.Put(ctx, p); err != nil {
		return fmt.Errorf("unable to store project: %w", err)
	}
	env.Log.Info("Project stored", zap.String("id", p.ID), zap.String("name", p.Name), zap.Int("entries", len(report.Entries)))
	fmt.Println(p.ID)
	return nil
}

func storedProject(ctx context.Context, cmd *cli.Command) (*model.Project, error) {
	id := cmd.Args().Get(0)
	if id == "" {
		return nil, fmt.Errorf("project id: %w", errNoArgs)
	}
	s, err := state.EnvFromContext(ctx).Store(ctx)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// defaultFileName derives an ascii file name from the project name
func defaultFileName(p *model.Project) string {
	name := slug.Make(p.Name)
	if name == "" {
		name = p.ID
	}
	return name + ".pdf"
}

func showProject(ctx context.Context, cmd *cli.Command) error {
	p, err := storedProject(ctx, cmd)
	if err != nil {
		return err
	}
	return reportfile.Encode(os.Stdout, &p.Report)
}

func exportProject(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	p, err := storedProject(ctx, cmd)
	if err != nil {
		return err
	}
	dst := cmd.Args().Get(1)
	if dst == "" {
		dst = defaultFileName(p)
	}
	s, err := env.Store(ctx)
	if err != nil {
		return err
	}
	env.Log.Debug("Exporting project", zap.String("id", p.ID), zap.String("name", p.Name))
	return exportReport(ctx, &p.Report, s, "", dst)
}

func deleteProject(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	id := cmd.Args().Get(0)
	if id == "" {
		return fmt.Errorf("project id: %w", errNoArgs)
	}
	s, err := env.Store(ctx)
	if err != nil {
		return err
	}
	if err := s.Delete(ctx, id); err != nil {
		return fmt.Errorf("unable to delete project: %w", err)
	}
	env.Log.Info("Project deleted", zap.String("id", id))
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	return err
}

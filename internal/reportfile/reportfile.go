// Package reportfile reads photo log reports from YAML files and moves their
// images into the project store.
package reportfile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/gompdf/photolog/internal/model"
)

// Decode reads a report, unknown fields are rejected
func Decode(r io.Reader) (*model.Report, error) {
	var report model.Report
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&report); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	report.Entries.Renumber()
	return &report, nil
}

// Load reads the report file at path
func Load(path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	report, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

// Encode writes report as yaml. Inline image data is not written.
func Encode(w io.Writer, report *model.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

// Fetcher loads the bytes behind an image url or path
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageSink stores image payloads
type ImageSink interface {
	PutImage(ctx context.Context, data []byte) (string, error)
}

// Import replaces every inline or url image of report with a stored asset.
// Entries whose image cannot be loaded keep their reference; the failures
// are returned together.
func Import(ctx context.Context, report *model.Report, fetch Fetcher, sink ImageSink) error {
	var errs error
	for i := range report.Entries {
		e := &report.Entries[i]
		if e.Image.AssetID != "" || e.Image.IsZero() {
			continue
		}

		data := e.Image.Data
		if len(data) == 0 {
			var err error
			if data, err = fetch.Fetch(ctx, e.Image.URL); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("entry %s: %w", e.SequenceLabel, err))
				continue
			}
		}

		id, err := sink.PutImage(ctx, data)
		if err != nil {
			if ctx.Err() != nil {
				return multierr.Append(errs, err)
			}
			errs = multierr.Append(errs, fmt.Errorf("entry %s: %w", e.SequenceLabel, err))
			continue
		}
		e.Image = model.ImageRef{AssetID: id}
	}
	return errs
}

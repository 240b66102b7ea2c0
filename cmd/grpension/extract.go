package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rgehrsitz/grpension/internal/output"
	"github.com/rgehrsitz/grpension/internal/pipeline"
)

func extractCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Extract facts from insurance documents and calculate the pension",
		Long: fmt.Sprintf(`Read one or more insurance statements, recover the facts they contain,
fill the gaps with defaults and calculate the pension for each.

Supported suffixes: %s

Files are processed concurrently (extract.concurrency in the settings). A file
that cannot be processed is reported and the others still complete.`, strings.Join(pipeline.SupportedExtensions(), " ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.pipeline()
			reports := make([]*output.Report, len(args))
			failures := make([]error, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.settings.Extract.Concurrency)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					r, err := analyzeFile(ctx, p, path, a)
					if err != nil {
						a.logger.Warnf("%s: %v", path, err)
						failures[i] = fmt.Errorf("%s: %w", path, err)
						return nil
					}
					a.logger.Infof("%s", output.Summary(path, r.Result))
					reports[i] = r
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			f, err := output.Lookup(a.outputFormat(cmd))
			if err != nil {
				return err
			}
			if err := emit(cmd, batchFormatter(f, reports), output.FileExtension(f), nil); err != nil {
				return err
			}
			return errors.Join(failures...)
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func analyzeFile(ctx context.Context, p *pipeline.Pipeline, path string, a *app) (*output.Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	runCtx, cancel := context.WithTimeout(ctx, a.settings.OCR.Timeout)
	defer cancel()

	analysis, err := p.Analyze(runCtx, raw, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return &output.Report{
		Source:      path,
		GeneratedAt: a.now(),
		Extracted:   analysis.Partial,
		Facts:       analysis.Facts,
		Result:      analysis.Result,
	}, nil
}

// batchFormatter renders every report in argument order as one document:
// a single table for csv, one block per file otherwise.
func batchFormatter(f output.Formatter, reports []*output.Report) output.Formatter {
	return output.FormatterFunc{ID: f.Name(), F: func(*output.Report) ([]byte, error) {
		if csvf, ok := f.(output.CSVFormatter); ok {
			return csvf.FormatBatch(reports)
		}
		separate := output.FileExtension(f) != "ndjson"
		var buf bytes.Buffer
		for _, r := range reports {
			if r == nil {
				continue
			}
			if separate && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			data, err := f.Format(r)
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		return buf.Bytes(), nil
	}}
}

package sieve

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/logsieve/logsieve/pkg/filter"
	"github.com/logsieve/logsieve/pkg/log"
)

// Result summarizes one read-filter-write step.
type Result struct {
	Lines int   // Lines read from the source file.
	Kept  int   // Lines retained by the filter.
	Bytes int64 // Bytes written to the destination file, terminators included.
}

// Processor applies the line filter to a single file pair. It holds no
// per-file state, so one Processor serves the whole run.
type Processor struct {
	tracer trace.Tracer
	filter *filter.Filter
}

// NewProcessor creates a [Processor] using the given filter,
// or [filter.Default] if nil.
func NewProcessor(f *filter.Filter) *Processor {
	if f == nil {
		f = filter.Default()
	}

	return &Processor{
		tracer: otel.Tracer("sieve"),
		filter: f,
	}
}

// Process reads src line by line, writes each retained line followed by the
// platform line terminator to dst (created or truncated), and reports totals.
// Destination line order equals source line order restricted to retained
// lines. Both handles are released on every exit path. The source file is
// left in place; deletion is the caller's decision.
func (p *Processor) Process(ctx context.Context, src, dst string) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "process_file", trace.WithAttributes(
		attribute.String("src", src),
		attribute.String("dst", dst),
	))
	defer span.End()

	res, err := p.process(src, dst)
	if err != nil {
		span.RecordError(err)

		return res, err
	}

	log.WithContext(ctx).DebugContext(ctx, "filtered file",
		slog.String("src", src),
		slog.Int("lines", res.Lines),
		slog.Int("kept", res.Kept),
	)

	return res, nil
}

func (p *Processor) process(src, dst string) (Result, error) {
	var res Result

	in, err := os.Open(src)
	if err != nil {
		return res, fmt.Errorf("open source: %w", err)
	}
	defer in.Close() //nolint:errcheck // Read-only handle.

	out, err := os.Create(dst)
	if err != nil {
		return res, fmt.Errorf("create destination: %w", err)
	}
	defer out.Close() //nolint:errcheck // Close is checked on the success path.

	w := bufio.NewWriter(out)

	// ReadString has no line length bound, so arbitrarily long lines never
	// fail the file.
	r := bufio.NewReader(in)

	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return res, fmt.Errorf("read %q: %w", src, err)
		}

		if line == "" && errors.Is(err, io.EOF) {
			break
		}

		res.Lines++

		trimmed := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if p.filter.Match(trimmed) {
			n, werr := w.WriteString(trimmed + newline)
			if werr != nil {
				return res, fmt.Errorf("write %q: %w", dst, werr)
			}

			res.Kept++
			res.Bytes += int64(n)
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	if err := w.Flush(); err != nil {
		return res, fmt.Errorf("flush %q: %w", dst, err)
	}

	if err := out.Close(); err != nil {
		return res, fmt.Errorf("close %q: %w", dst, err)
	}

	return res, nil
}

package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gdasset/internal/ui/pretty"
	"github.com/yaklabco/gdasset/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No asset documents found."))
		}
		return 0, nil
	}

	outline := pretty.OutlineOptions{Properties: r.opts.Properties, Ranges: r.opts.Ranges}
	var unresolved int

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if r.opts.Outline {
			fmt.Fprint(r.bw, r.styles.FormatOutline(path, file.State.Symbols, outline))
		}
		if file.State.Truncated {
			fmt.Fprint(r.bw, r.styles.FormatTruncated(path, file.State.TruncatedAt))
		}
		for _, ref := range file.State.Unresolved() {
			fmt.Fprint(r.bw, r.styles.FormatUnresolved(path, ref))
			unresolved++
		}
		if r.opts.Outline {
			fmt.Fprintln(r.bw)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return unresolved, nil
}

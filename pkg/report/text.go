package report

import (
	"fmt"
	"io"
)

// RenderText writes the human-readable form of the report.
func RenderText(r *Report, w io.Writer) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, "No hits recorded.")
		return err
	}

	for i, section := range r.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  (%d hits)\n", section.Day, section.Total)
		for _, row := range section.Rows {
			fmt.Fprintf(w, "  %-50s %8d\n", row.Key, row.Count)
		}
	}

	if len(r.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Parse failures:")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %s: %d (first at line %d: %s)\n",
				f.SourceFile, f.Count, f.Sample.LineNumber, f.Sample.Reason)
		}
	}

	if len(r.Drift) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failure patterns:")
		for _, c := range r.Drift {
			fmt.Fprintf(w, "  %6dx  %s\n", c.Count, c.Pattern)
		}
	}

	if len(r.FileErrors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Unreadable files:")
		for _, fe := range r.FileErrors {
			fmt.Fprintf(w, "  %s: %s\n", fe.Path, fe.Reason)
		}
	}

	fmt.Fprintln(w)
	_, err := fmt.Fprintf(w, "Total: %d hits across %d days\n", r.TotalHits, len(r.Sections))
	return err
}

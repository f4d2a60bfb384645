package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

// RenderCSV writes the report as two CSV tables: the hit counts, then the
// per-file parse failure summary, separated by a blank line.
func RenderCSV(r *Report, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"day", "key", "count"}); err != nil {
		return err
	}
	for _, section := range r.Sections {
		for _, row := range section.Rows {
			rec := []string{section.Day, row.Key, strconv.FormatInt(row.Count, 10)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	if len(r.Failures) == 0 {
		return nil
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	cw = csv.NewWriter(w)
	if err := cw.Write([]string{"source_file", "failures", "first_line", "first_reason"}); err != nil {
		return err
	}
	for _, f := range r.Failures {
		rec := []string{
			f.SourceFile,
			strconv.Itoa(f.Count),
			strconv.Itoa(f.Sample.LineNumber),
			f.Sample.Reason,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Package report encodes run results into the stable on-disk JSON format and
// renders the console summary.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sitescout/internal/catalog"
	"sitescout/internal/scout"
)

// TimestampLayout is the wire format for the report timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

type siteEntry struct {
	Status scout.Status `json:"status"`
	URL    string       `json:"url"`
	// Error is emitted as null unless the check itself failed.
	Error *string `json:"error"`
}

// Encode renders the report as JSON. Categories and sites are written in
// catalog order, so two runs over the same catalog produce byte-identical
// output apart from the timestamp.
func Encode(rep scout.Report, cat *catalog.Catalog, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	if err := writeKey(&buf, "timestamp"); err != nil {
		return nil, err
	}
	if err := writeValue(&buf, rep.Timestamp.Format(TimestampLayout)); err != nil {
		return nil, err
	}
	buf.WriteByte(',')

	if err := writeKey(&buf, "categories"); err != nil {
		return nil, err
	}
	buf.WriteByte('{')
	for i, category := range cat.Categories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, category.Name); err != nil {
			return nil, err
		}
		if err := encodeCategory(&buf, rep.Categories[category.Name], category.Sites); err != nil {
			return nil, fmt.Errorf("category %q: %w", category.Name, err)
		}
	}
	buf.WriteString("}}")

	if !pretty {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeCategory(buf *bytes.Buffer, results scout.CategoryResult, sites []scout.SiteSpec) error {
	buf.WriteByte('{')
	for i, site := range sites {
		if i > 0 {
			buf.WriteByte(',')
		}
		res, ok := results[site.Name]
		if !ok {
			return fmt.Errorf("no result for site %q", site.Name)
		}
		if err := writeKey(buf, site.Name); err != nil {
			return err
		}
		entry := siteEntry{Status: res.Status, URL: site.URL}
		if res.Err != "" {
			entry.Error = &res.Err
		}
		if err := writeValue(buf, entry); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// Write lands the encoded report at path via a temp file and rename, so a
// crash mid-write never leaves a truncated report behind.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("place report: %w", err)
	}
	return nil
}

// Counts tallies the per-status totals of a report.
type Counts struct {
	Total   int
	Up      int
	Down    int
	Unknown int
	Error   int
}

// Tally counts results by status.
func Tally(rep scout.Report) Counts {
	var c Counts
	for _, results := range rep.Categories {
		for _, res := range results {
			c.Total++
			switch res.Status {
			case scout.StatusUp:
				c.Up++
			case scout.StatusDown:
				c.Down++
			case scout.StatusUnknown:
				c.Unknown++
			default:
				c.Error++
			}
		}
	}
	return c
}

// Summary prints a human-readable rundown in catalog order.
func Summary(w io.Writer, rep scout.Report, cat *catalog.Catalog) {
	fmt.Fprintf(w, "\nWebsite status check, %s\n", rep.Timestamp.Format(TimestampLayout))
	for _, category := range cat.Categories() {
		fmt.Fprintf(w, "\n%s\n", category.Name)
		results := rep.Categories[category.Name]
		for _, site := range category.Sites {
			res := results[site.Name]
			fmt.Fprintf(w, "  %s %-30s %s\n", marker(res.Status), site.Name, res.Status)
		}
	}
	c := Tally(rep)
	fmt.Fprintf(w, "\n%d sites checked: %d up, %d down, %d unknown, %d errors\n",
		c.Total, c.Up, c.Down, c.Unknown, c.Error)
}

func marker(s scout.Status) string {
	switch s {
	case scout.StatusUp:
		return "✅"
	case scout.StatusDown:
		return "❌"
	case scout.StatusUnknown:
		return "❓"
	default:
		return "⚠️"
	}
}

// Package export writes scenario results as JSON, CSV and PDF files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// Format is an export file type.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ErrUnknownFormat is returned for an unsupported export type.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormats parses a comma separated list such as "json,pdf". Duplicates
// are collapsed and order is kept.
func ParseFormats(list string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(list, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		switch f {
		case FormatJSON, FormatCSV, FormatPDF:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, part)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Report is a result plus the context printed alongside it.
type Report struct {
	Title   string
	Source  string
	Profile string
	RunID   string
	Result  *model.Result
}

// Write renders the report in the given format.
func Write(w io.Writer, format Format, report Report) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, report.Result)
	case FormatCSV:
		return WriteCSV(w, report.Result)
	case FormatPDF:
		return WritePDF(w, report)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Exporter writes report files into a directory.
type Exporter struct {
	dir string
	now func() time.Time
}

// NewExporter creates an exporter. An empty dir means the working directory.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir, now: time.Now}
}

// Export writes one file per format and returns their absolute paths.
func (e *Exporter) Export(report Report, base string, formats []Format) ([]string, error) {
	if report.Result == nil {
		return nil, errors.New("export: nil result")
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		name, err := e.generateFilename(base, string(format))
		if err != nil {
			return paths, err
		}
		if err := writeFile(name, format, report); err != nil {
			return paths, err
		}
		abs, err := filepath.Abs(name)
		if err != nil {
			return paths, fmt.Errorf("resolve path %s: %w", name, err)
		}
		paths = append(paths, abs)
	}
	return paths, nil
}

func writeFile(name string, format Format, report Report) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s file: %w", format, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s file: %w", format, cerr)
		}
	}()

	if err := Write(f, format, report); err != nil {
		return fmt.Errorf("write %s file: %w", format, err)
	}
	return nil
}

func (e *Exporter) generateFilename(base, ext string) (string, error) {
	dir := e.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", dir, err)
	}
	if base == "" {
		base = "cur_scenarios"
	}
	timestamp := e.now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, timestamp, ext)), nil
}

// BaseName derives a file name stem from an export location.
func BaseName(location string) string {
	name := filepath.Base(strings.TrimSuffix(location, "/"))
	for _, ext := range []string{".gz", ".csv"} {
		name = strings.TrimSuffix(strings.ToLower(name), ext)
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || strings.Trim(name, "_") == "" {
		return "cur_scenarios"
	}
	return name
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }

func percent(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }

package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// ParseFormat maps a flag value to an OutputFormat
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatSummary, FormatTable, FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	case "":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Reporter renders a ScanReport. It consumes the report read-only; all
// detection logic lives behind the engine boundary.
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report renders the scan report in the configured format
func (r *Reporter) Report(report *scanner.ScanReport) error {
	switch r.format {
	case FormatSummary:
		return r.reportSummary(report)
	case FormatTable:
		return r.reportTable(report)
	case FormatJSON:
		return r.reportJSON(report)
	case FormatYAML:
		return r.reportYAML(report)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) reportSummary(report *scanner.ScanReport) error {
	fmt.Fprintf(r.writer, "=== Duplicate Scan Summary ===\n")
	fmt.Fprintf(r.writer, "Root: %s\n", report.Root)
	fmt.Fprintf(r.writer, "Files scanned: %d (%s)\n", report.TotalFiles, humanize.IBytes(uint64(report.TotalBytes)))

	if len(report.Groups) == 0 {
		fmt.Fprintf(r.writer, "\nNo duplicates found.\n")
	} else {
		fmt.Fprintf(r.writer, "Duplicate groups: %d\n", len(report.Groups))
		fmt.Fprintf(r.writer, "Duplicate files: %d\n", report.DuplicateFiles())
		fmt.Fprintf(r.writer, "Reclaimable: %s\n", humanize.IBytes(uint64(report.TotalDuplicateBytes)))

		fmt.Fprintf(r.writer, "\nGroups:\n")
		for _, g := range report.Groups {
			fmt.Fprintf(r.writer, "  %s (%s each, %d copies)\n",
				shortDigest(g.Digest), humanize.IBytes(uint64(g.Members[0].Size)), len(g.Members))
			for i, m := range g.Members {
				marker := "keep  "
				if i > 0 {
					marker = "dupe  "
				}
				fmt.Fprintf(r.writer, "    %s %s\n", marker, m.Path)
			}
		}
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintf(r.writer, "\nSkipped: %d\n", len(report.Skipped))
		for _, s := range report.Skipped {
			fmt.Fprintf(r.writer, "  %s (%s)\n", s.Path, s.Reason)
		}
	}

	return nil
}

func (r *Reporter) reportTable(report *scanner.ScanReport) error {
	fmt.Fprintf(r.writer, "%-16s | %-60s | %-10s | %s\n", "Digest", "Path", "Size", "Modified")

	for _, g := range report.Groups {
		for _, m := range g.Members {
			path := m.Path
			if len(path) > 60 {
				path = "..." + path[len(path)-57:]
			}

			fmt.Fprintf(r.writer, "%-16s | %-60s | %-10s | %s\n",
				shortDigest(g.Digest),
				path,
				humanize.IBytes(uint64(m.Size)),
				m.ModTime.Format("2006-01-02 15:04:05"))
		}
	}

	fmt.Fprintf(r.writer, "\nTotal: %d groups, %d duplicate files, %s reclaimable\n",
		len(report.Groups), report.DuplicateFiles(), humanize.IBytes(uint64(report.TotalDuplicateBytes)))

	return nil
}

// jsonReport wraps the raw report with display-friendly fields
type jsonReport struct {
	Timestamp            string              `json:"timestamp" yaml:"timestamp"`
	Report               *scanner.ScanReport `json:"report" yaml:"report"`
	ReclaimableFormatted string              `json:"reclaimable_formatted" yaml:"reclaimable_formatted"`
	DuplicateFiles       int                 `json:"duplicate_files" yaml:"duplicate_files"`
}

func wrap(report *scanner.ScanReport) jsonReport {
	return jsonReport{
		Timestamp:            time.Now().Format(time.RFC3339),
		Report:               report,
		ReclaimableFormatted: humanize.IBytes(uint64(report.TotalDuplicateBytes)),
		DuplicateFiles:       report.DuplicateFiles(),
	}
}

func (r *Reporter) reportJSON(report *scanner.ScanReport) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(wrap(report))
}

func (r *Reporter) reportYAML(report *scanner.ScanReport) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(wrap(report))
}

// SaveToFile saves the report to a file
func SaveToFile(report *scanner.ScanReport, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return New(file, format).Report(report)
}

func shortDigest(d scanner.Digest) string {
	return d.String()[:12]
}

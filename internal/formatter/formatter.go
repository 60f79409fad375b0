// package formatter renders run reports and upload history as text, JSON or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/cloudup/internal/models"
	"github.com/desertthunder/cloudup/internal/repositories"
	"github.com/desertthunder/cloudup/internal/shared"
	"github.com/desertthunder/cloudup/internal/tasks"
)

// Format is an output format name.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const timeLayout = "2006-01-02 15:04:05"

// ParseFormat validates s, defaulting to [FormatText] when empty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: format must be text, json or csv, got %q", shared.ErrInvalidArgument, s)
	}
}

// FormatReport renders a run report.
func FormatReport(report *tasks.RunReport, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return marshal(report)
	case FormatCSV:
		return writeCSV([]string{"path", "status"}, func(write func([]string) error) error {
			for _, p := range report.FailedPaths {
				if err := write([]string{p, string(models.UploadFailed)}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "Total: %d\nProcessed: %d\nFailed: %d\n", report.Total, report.Processed, report.Failed)
		for _, p := range report.FailedPaths {
			fmt.Fprintf(&buf, "  - %s\n", p)
		}
		return buf.Bytes(), nil
	}
}

type runJSON struct {
	ID         string     `json:"id"`
	Sequence   int        `json:"sequence"`
	Source     string     `json:"source"`
	Path       string     `json:"path"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type uploadJSON struct {
	Position int    `json:"position"`
	Path     string `json:"path"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	MD5      string `json:"md5,omitempty"`
	Size     int64  `json:"size"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

func toRunJSON(r *models.Run) runJSON {
	return runJSON{
		ID: r.ID, Sequence: r.Sequence, Source: r.Source, Path: r.Path,
		Total: r.Total, Processed: r.Processed, Failed: r.Failed,
		StartedAt: r.StartedAt, FinishedAt: r.FinishedAt,
	}
}

// FormatRuns renders a list of runs.
func FormatRuns(runs []*models.Run, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		out := make([]runJSON, len(runs))
		for i, r := range runs {
			out[i] = toRunJSON(r)
		}
		return marshal(out)
	case FormatCSV:
		header := []string{"sequence", "id", "source", "path", "total", "processed", "failed", "started_at", "finished_at"}
		return writeCSV(header, func(write func([]string) error) error {
			for _, r := range runs {
				if err := write(runRecord(r)); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		if len(runs) == 0 {
			return []byte("No runs recorded.\n"), nil
		}
		var buf bytes.Buffer
		tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tSTARTED\tSOURCE\tUPLOADED\tFAILED\tPATH")
		for _, r := range runs {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d/%d\t%d\t%s\n",
				r.Sequence, r.StartedAt.Local().Format(timeLayout), r.Source, r.Processed-r.Failed, r.Total, r.Failed, r.Path)
		}
		if err := tw.Flush(); err != nil {
			return nil, fmt.Errorf("failed to write table: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// FormatRunDetail renders one run with its uploads.
func FormatRunDetail(detail *repositories.RunDetail, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		out := struct {
			Run     runJSON      `json:"run"`
			Uploads []uploadJSON `json:"uploads"`
		}{Run: toRunJSON(detail.Run), Uploads: make([]uploadJSON, len(detail.Uploads))}
		for i, u := range detail.Uploads {
			out.Uploads[i] = uploadJSON{
				Position: u.Position, Path: u.Path, Title: u.Title, Artist: u.Artist, Album: u.Album,
				MD5: u.MD5, Size: u.Size, Status: string(u.Status), Error: u.Error,
			}
		}
		return marshal(out)
	case FormatCSV:
		header := []string{"position", "path", "title", "artist", "album", "md5", "size", "status", "error"}
		return writeCSV(header, func(write func([]string) error) error {
			for _, u := range detail.Uploads {
				record := []string{
					strconv.Itoa(u.Position), u.Path, u.Title, u.Artist, u.Album,
					u.MD5, strconv.FormatInt(u.Size, 10), string(u.Status), u.Error,
				}
				if err := write(record); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		r := detail.Run
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "Run #%d (%s)\n", r.Sequence, r.ID)
		fmt.Fprintf(&buf, "Path: %s\nSource: %s\nStarted: %s\n", r.Path, r.Source, r.StartedAt.Local().Format(timeLayout))
		if r.FinishedAt != nil {
			fmt.Fprintf(&buf, "Finished: %s\n", r.FinishedAt.Local().Format(timeLayout))
		}
		fmt.Fprintf(&buf, "Uploaded: %d/%d, failed: %d\n\n", r.Processed-r.Failed, r.Total, r.Failed)

		for _, u := range detail.Uploads {
			mark := "✓"
			if u.Status == models.UploadFailed {
				mark = "✗"
			}
			line := fmt.Sprintf("%d. %s %s", u.Position, mark, u.Path)
			if u.Title != "" {
				line += fmt.Sprintf(" [%s]", strings.TrimSpace(u.Artist+" - "+u.Title))
			}
			if u.Error != "" {
				line += ": " + u.Error
			}
			buf.WriteString(line + "\n")
		}
		return buf.Bytes(), nil
	}
}

func runRecord(r *models.Run) []string {
	finished := ""
	if r.FinishedAt != nil {
		finished = r.FinishedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		strconv.Itoa(r.Sequence), r.ID, r.Source, r.Path,
		strconv.Itoa(r.Total), strconv.Itoa(r.Processed), strconv.Itoa(r.Failed),
		r.StartedAt.UTC().Format(time.RFC3339), finished,
	}
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func writeCSV(header []string, rows func(write func([]string) error) error) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := rows(writer.Write); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

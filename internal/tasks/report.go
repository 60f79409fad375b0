package tasks

import "fmt"

// RunReport summarizes one upload run.
//
// Processed always ends equal to Total; Failed equals len(FailedPaths) and FailedPaths keeps input order.
type RunReport struct {
	Total       int      `json:"total"`
	Processed   int      `json:"processed"`
	Failed      int      `json:"failed"`
	FailedPaths []string `json:"failed_paths"`
}

// NewRunReport creates an empty report for total files.
func NewRunReport(total int) *RunReport {
	return &RunReport{Total: total, FailedPaths: []string{}}
}

// record counts one processed item, and a failure when err is non-nil.
func (r *RunReport) record(path string, err error) {
	r.Processed++
	if err != nil {
		r.Failed++
		r.FailedPaths = append(r.FailedPaths, path)
	}
}

// Succeeded returns the number of files uploaded without error.
func (r *RunReport) Succeeded() int {
	return r.Processed - r.Failed
}

// HasFailures reports whether any file failed.
func (r *RunReport) HasFailures() bool {
	return r.Failed > 0
}

// Summarize sends the end-of-run summary to sink: the failure count and failed paths when
// there were failures, then a final "Finished." line.
func Summarize(sink Sink, report *RunReport) {
	sink = sinkOrNop(sink)
	if report == nil {
		return
	}

	if report.HasFailures() {
		sink.Send(ProgressUpdate{
			Phase:   SummaryPhase,
			Level:   LevelError,
			Step:    report.Processed,
			Total:   report.Total,
			Message: fmt.Sprintf("Failed to upload %d songs.", report.Failed),
		})
		for _, path := range report.FailedPaths {
			sink.Send(ProgressUpdate{Phase: SummaryPhase, Level: LevelWarn, Path: path, Message: path})
		}
	}

	sink.Send(ProgressUpdate{
		Phase:   SummaryPhase,
		Level:   LevelSuccess,
		Step:    report.Processed,
		Total:   report.Total,
		Message: "Finished.",
	})
}

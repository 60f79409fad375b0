package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during an upload run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Level   Level  // Severity used by sinks to pick a style
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Path    string // File the update is about, if any
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	Authenticate Phase = iota
	ResolveFilesPhase
	UploadPhase
	SummaryPhase
)

func (p Phase) String() string {
	switch p {
	case Authenticate:
		return "authenticate"
	case ResolveFilesPhase:
		return "resolve_files"
	case UploadPhase:
		return "upload"
	case SummaryPhase:
		return "summary"
	default:
		return ""
	}
}

// Level is the severity of a [ProgressUpdate].
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
	LevelSuccess
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return ""
	}
}

// Sink receives progress updates. Implementations must not block the caller for long.
type Sink interface {
	Send(ProgressUpdate)
}

// NopSink discards every update.
type NopSink struct{}

func (NopSink) Send(ProgressUpdate) {}

// ChanSink forwards updates to a channel without blocking.
// Updates are dropped when the channel is full.
type ChanSink chan<- ProgressUpdate

// Send forwards u using select with default so progress reporting never blocks execution.
func (c ChanSink) Send(u ProgressUpdate) {
	if c == nil {
		return
	}
	select {
	case c <- u:
	default:
	}
}

func sinkOrNop(s Sink) Sink {
	if s == nil {
		return NopSink{}
	}
	return s
}

func authUpdate(level Level, msg string) ProgressUpdate {
	return ProgressUpdate{Phase: Authenticate, Level: level, Step: 1, Total: 1, Message: msg}
}

func loginAttemptUpdate(phone string) ProgressUpdate {
	return authUpdate(LevelInfo, fmt.Sprintf("Logging in with phone %s...", maskPhone(phone)))
}

func loginSucceededUpdate(source AuthSource) ProgressUpdate {
	return authUpdate(LevelSuccess, fmt.Sprintf("Login successful (%s).", source))
}

func sessionInvalidUpdate() ProgressUpdate {
	return authUpdate(LevelWarn, "Session expired or invalid.")
}

func fallbackTargetUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveFilesPhase,
		Level:   LevelWarn,
		Message: "File or dir parameter not found, trying config...",
	}
}

func filesFoundUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveFilesPhase,
		Level:   LevelInfo,
		Step:    count,
		Total:   count,
		Path:    path,
		Message: fmt.Sprintf("Found %d file(s) in %s", count, path),
	}
}

func overrideDroppedUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveFilesPhase,
		Level:   LevelWarn,
		Path:    path,
		Message: "Custom name/artist/album only apply to a single file, ignoring.",
	}
}

func uploadingUpdate(step, total int, path, display string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadPhase,
		Level:   LevelInfo,
		Step:    step - 1,
		Total:   total,
		Path:    path,
		Message: fmt.Sprintf("[%d/%d] Uploading %s...", step, total, display),
	}
}

func uploadFailedUpdate(step, total int, path string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadPhase,
		Level:   LevelError,
		Step:    step,
		Total:   total,
		Path:    path,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, path, err),
	}
}

func processedUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadPhase,
		Level:   LevelInfo,
		Step:    step,
		Total:   total,
		Path:    path,
		Message: fmt.Sprintf("Processed %d/%d songs...", step, total),
	}
}

// maskPhone keeps the last four digits of phone.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return fmt.Sprintf("%s%s", "****", phone[len(phone)-4:])
}

package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a lesson order.
type Status string

const (
	StatusPending           Status = "pending"
	StatusGeneratingScript  Status = "generating_script"
	StatusScriptReady       Status = "script_ready"
	StatusVerifyingQA       Status = "verifying_qa"
	StatusQAVerified        Status = "qa_verified"
	StatusGeneratingAudio   Status = "generating_audio"
	StatusAudioReady        Status = "audio_ready"
	StatusGeneratingVisuals Status = "generating_visuals"
	StatusVisualsReady      Status = "visuals_ready"
	StatusRenderingVideo    Status = "rendering_video"
	StatusVideoRendered     Status = "video_rendered"
	StatusGeneratingSheets  Status = "generating_sheets"
	StatusCompleted         Status = "completed"
	StatusFailed            Status = "failed"
	StatusReview            Status = "review"
)

// DaemonStopReason is the error message set when orders are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusGeneratingScript,
	StatusScriptReady,
	StatusVerifyingQA,
	StatusQAVerified,
	StatusGeneratingAudio,
	StatusAudioReady,
	StatusGeneratingVisuals,
	StatusVisualsReady,
	StatusRenderingVideo,
	StatusVideoRendered,
	StatusGeneratingSheets,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusGeneratingScript:  {},
	StatusVerifyingQA:       {},
	StatusGeneratingAudio:   {},
	StatusGeneratingVisuals: {},
	StatusRenderingVideo:    {},
	StatusGeneratingSheets:  {},
}

// stageRollbacks maps each processing status to the status an interrupted
// order should return to so the stage reruns from its start.
var stageRollbacks = map[Status]Status{
	StatusGeneratingScript:  StatusPending,
	StatusVerifyingQA:       StatusScriptReady,
	StatusGeneratingAudio:   StatusQAVerified,
	StatusGeneratingVisuals: StatusAudioReady,
	StatusRenderingVideo:    StatusVisualsReady,
	StatusGeneratingSheets:  StatusVideoRendered,
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Review     int
	Completed  int
}

// DatabaseHealth captures diagnostic information about the queue database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalOrders      int
	Error            string
}

// Order represents a lesson order persisted in SQLite.
type Order struct {
	ID              int64
	SessionID       string
	ChildName       string
	LessonTitle     string
	Status          Status
	IntakeJSON      string
	ScriptJSON      string
	QAReportJSON    string
	VisualsJSON     string
	AudioPath       string
	VideoPath       string
	SheetPath       string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	QAAttempts      int
	FallbackUsed    bool
	LastHeartbeat   *time.Time
	NeedsReview     bool
	ReviewReason    string
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing reports whether the order is mid-stage.
func (o Order) IsProcessing() bool {
	return IsProcessingStatus(o.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// RollbackStatus returns the status an interrupted processing order should
// return to, and whether the input status is a processing status.
func RollbackStatus(status Status) (Status, bool) {
	to, ok := stageRollbacks[status]
	return to, ok
}

// InitProgress resets progress fields for a new stage. ErrorMessage is
// cleared so stale failures do not linger across retries.
func (o *Order) InitProgress(stage, message string) {
	o.ProgressStage = stage
	o.ProgressMessage = message
	o.ProgressPercent = 0
	o.ErrorMessage = ""
}

// SetProgress updates all three progress fields together.
func (o *Order) SetProgress(stage, message string, percent float64) {
	o.ProgressStage = stage
	o.ProgressMessage = message
	o.ProgressPercent = percent
}

// SetProgressComplete sets progress to 100% with the given stage and message.
func (o *Order) SetProgressComplete(stage, message string) {
	o.SetProgress(stage, message, 100)
}

// SetFailed marks the order as failed with the given error message.
func (o *Order) SetFailed(message string) {
	o.Status = StatusFailed
	o.ErrorMessage = message
	o.ProgressPercent = 0
	o.ProgressMessage = message
	o.LastHeartbeat = nil
	o.ProgressStage = "Failed"
}

// SetReview flags the order for manual review with a reason.
func (o *Order) SetReview(reason string) {
	o.Status = StatusReview
	o.NeedsReview = true
	o.ReviewReason = reason
	o.LastHeartbeat = nil
}

// Label returns a short human identifier for logs and tables.
func (o Order) Label() string {
	switch {
	case o.ChildName != "" && o.LessonTitle != "":
		return o.ChildName + " - " + o.LessonTitle
	case o.LessonTitle != "":
		return o.LessonTitle
	case o.ChildName != "":
		return o.ChildName
	default:
		return "untitled lesson"
	}
}

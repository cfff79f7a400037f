// Package upload implements the upload-and-generate workflow: a short-lived
// state machine that turns one selected file into a content identifier,
// optionally triggers server-side video generation, and reports progress
// and phase changes to the caller.
package upload

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkosarev/vidgen/internal/api"
	"github.com/nkosarev/vidgen/internal/logging"
	"github.com/nkosarev/vidgen/internal/models"
)

// MaxFileSize is the upload size limit. Larger files are rejected locally,
// before any network call.
const MaxFileSize = 50 << 20 // 50 MiB

// settleDelay is how long a completed job stays visible before the
// workflow resets itself for the next one.
const settleDelay = 3 * time.Second

// Phase is the processing state of the current job.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseUploading  Phase = "uploading"
	PhaseGenerating Phase = "generating"
	PhaseCompleted  Phase = "completed"
	PhaseError      Phase = "error"
)

// Validation and concurrency errors. These are returned from Start before
// any phase transition; everything that happens after acceptance is
// expressed through the job record instead.
var (
	ErrNoFile       = errors.New("no file selected")
	ErrFileTooLarge = errors.New("file size must be less than 50 MiB")
	ErrJobInFlight  = errors.New("an upload is already in progress")
)

// Gateway is the slice of the content API the workflow needs.
type Gateway interface {
	Upload(ctx context.Context, f models.FileRef, onProgress api.ProgressFunc) (*models.UploadResult, error)
	GenerateVideo(ctx context.Context, f models.FileRef, title string) (string, error)
}

// Job is the state of one workflow run. ContentID is set only on
// completion; Err only in the error phase.
type Job struct {
	ID        string
	File      models.FileRef
	Progress  int
	ContentID string
	Phase     Phase
	Err       string
}

// Sinks receive workflow events. Either callback may be nil. OnPhase is
// called with a snapshot of the job at every phase transition; OnProgress
// forwards upload percentages verbatim.
type Sinks struct {
	OnProgress func(percent int)
	OnPhase    func(job Job)
}

// Orchestrator runs at most one job at a time. A completed job resets
// itself after a settling delay; a failed one persists until Reset.
type Orchestrator struct {
	gw     Gateway
	log    logging.Logger
	settle time.Duration

	mu   sync.Mutex
	busy bool
	job  Job
}

func NewOrchestrator(gw Gateway, log logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Orchestrator{
		gw:     gw,
		log:    log.With("component", "upload"),
		settle: settleDelay,
		job:    Job{Phase: PhaseIdle},
	}
}

// IsTextLike reports whether the file is eligible for the video generation
// step: its declared media type contains "text", or its name ends in .txt.
func IsTextLike(f models.FileRef) bool {
	return strings.Contains(f.MIME, "text") || strings.HasSuffix(f.Name, ".txt")
}

// Title derives the generation title from the file name by stripping the
// final extension.
func Title(f models.FileRef) string {
	return strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
}

// Job returns a snapshot of the current job record.
func (o *Orchestrator) Job() Job {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.job
}

// Start validates the file and runs the workflow to a terminal phase.
//
// It returns an error only for local rejections (no file, oversized file,
// a job already in flight); in those cases the phase never leaves idle.
// Once accepted, the run always returns nil: transport failures surface as
// the error phase on the job record, and a generation failure is folded
// into a successful completion carrying the upload's content id.
func (o *Orchestrator) Start(ctx context.Context, f models.FileRef, sinks Sinks) error {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return ErrJobInFlight
	}
	if f.Open == nil || f.Name == "" {
		o.mu.Unlock()
		return ErrNoFile
	}
	if f.Size > MaxFileSize {
		o.mu.Unlock()
		return ErrFileTooLarge
	}
	o.busy = true
	o.job = Job{ID: uuid.NewString(), File: f, Phase: PhaseIdle}
	o.mu.Unlock()

	log := o.log.With("job", o.Job().ID, "file", f.Name)

	o.setPhase(PhaseUploading, sinks)

	res, err := o.gw.Upload(ctx, f, func(p int) { o.setProgress(p, sinks) })
	if err != nil {
		msg := api.Reason(err, "Failed to upload file")
		log.Error(ctx, "upload failed", "err", err)
		o.fail(msg, sinks)
		return nil
	}
	contentID := res.ContentID

	if IsTextLike(f) {
		o.setPhase(PhaseGenerating, sinks)

		id, err := o.gw.GenerateVideo(ctx, f, Title(f))
		switch {
		case err != nil:
			// Best effort: a degraded generation step never turns a
			// successful upload into a failure.
			log.Warn(ctx, "video generation failed, using uploaded content", "err", err)
		case id != "":
			contentID = id
		}
	}

	log.Info(ctx, "workflow finished", "content_id", contentID)
	o.complete(contentID, sinks)
	return nil
}

// Reset clears a terminal job so a new one can start. Resetting while a
// job is running is rejected.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.job.Phase {
	case PhaseUploading, PhaseGenerating:
		return ErrJobInFlight
	}
	o.busy = false
	o.job = Job{Phase: PhaseIdle}
	return nil
}

func (o *Orchestrator) setPhase(p Phase, sinks Sinks) {
	o.mu.Lock()
	o.job.Phase = p
	snapshot := o.job
	o.mu.Unlock()

	if sinks.OnPhase != nil {
		sinks.OnPhase(snapshot)
	}
}

func (o *Orchestrator) setProgress(p int, sinks Sinks) {
	o.mu.Lock()
	o.job.Progress = p
	o.mu.Unlock()

	if sinks.OnProgress != nil {
		sinks.OnProgress(p)
	}
}

func (o *Orchestrator) fail(msg string, sinks Sinks) {
	o.mu.Lock()
	o.job.Phase = PhaseError
	o.job.Err = msg
	o.job.ContentID = ""
	o.busy = false // the user may retry right away
	snapshot := o.job
	o.mu.Unlock()

	if sinks.OnPhase != nil {
		sinks.OnPhase(snapshot)
	}
}

func (o *Orchestrator) complete(contentID string, sinks Sinks) {
	o.mu.Lock()
	o.job.Phase = PhaseCompleted
	o.job.ContentID = contentID
	snapshot := o.job
	o.mu.Unlock()

	if sinks.OnPhase != nil {
		sinks.OnPhase(snapshot)
	}

	// Stay busy through the settling delay, then make room for the next
	// job. The error phase has no such timer: it persists until Reset.
	time.AfterFunc(o.settle, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.job.Phase == PhaseCompleted {
			o.busy = false
			o.job = Job{Phase: PhaseIdle}
		}
	})
}

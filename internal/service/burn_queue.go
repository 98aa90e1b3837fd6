// Package service contains the background workers and outbound side
// effects that don't belong in a handler
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync/atomic"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BurnJob renders an SRT file onto a video. The handler blocks on Done,
// the queue only exists to cap how many ffmpeg processes run at once
type BurnJob struct {
	ID           string
	UserID       string
	InputPath    string
	SubtitlePath string
	OutputPath   string
	ForceStyle   string
	Ctx          context.Context
	Done         chan error
}

type BurnQueue struct {
	jobs    chan *BurnJob
	running atomic.Int32
	workers int
}

// NewBurnQueue initializes a new job queue that limits the max amount of
// concurrent ffmpeg runs
func NewBurnQueue() *BurnQueue {
	workers := viper.GetInt("ffmpeg.workers")
	if workers <= 0 {
		workers = 1
	}

	zap.L().Debug("Initializing burn-in job queue", zap.Int("workers", workers))

	return &BurnQueue{
		jobs:    make(chan *BurnJob),
		workers: workers,
	}
}

func (q *BurnQueue) StartWorkerPool() {
	for range q.workers {
		go q.worker()
	}
}

func (q *BurnQueue) worker() {
	for job := range q.jobs {
		err := runBurnJob(job)

		job.Done <- err
		close(job.Done)

		q.running.Add(-1)

		if err != nil {
			zap.L().Error("Burn-in job finished with an error",
				zap.String("user_id", job.UserID),
				zap.String("job_id", job.ID),
				zap.Error(err))
		} else {
			zap.L().Debug("Burn-in job finished successfully", zap.String("job_id", job.ID))
		}
	}
}

func (q *BurnQueue) Enqueue(job *BurnJob) error {
	select {
	case q.jobs <- job:
		q.running.Add(1)
		zap.L().Debug("New burn-in job enqueued", zap.Int32("enqueued", q.running.Load()), zap.String("user_id", job.UserID))
		return nil
	default:
		return errors.New("job queue full")
	}
}

// MakeBurnArgs builds the ffmpeg invocation that renders the subtitle
// file onto the video with the requested style
func MakeBurnArgs(job *BurnJob) []string {
	filter := fmt.Sprintf("subtitles=%s:force_style='%s'", job.SubtitlePath, job.ForceStyle)

	return []string{
		"-i", job.InputPath,
		"-vf", filter,
		"-c:a", "copy",
		"-loglevel", "error",
		"-y",
		job.OutputPath,
	}
}

func runBurnJob(job *BurnJob) error {
	args := MakeBurnArgs(job)

	cmd := exec.CommandContext(job.Ctx, viper.GetString("ffmpeg.path"), args...)

	zap.L().Debug("Running FFmpeg command", zap.String("cmd", cmd.String()))

	stderrBuf := &bytes.Buffer{}
	cmd.Stderr = stderrBuf

	if err := cmd.Run(); err != nil {
		zap.L().Error("FFmpeg failed", zap.Error(err), zap.String("stderr", stderrBuf.String()))
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	return nil
}

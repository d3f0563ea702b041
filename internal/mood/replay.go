package mood

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/moodtunes/internal/shared"
)

// replayLine is one line of a replay file: {"expressions":{"happy":0.9}} or {"expressions":null}.
type replayLine struct {
	Expressions *Expressions `json:"expressions"`
}

// ReadFrames parses a JSON-lines replay. Blank lines are skipped.
// A frame whose expressions are null carries a nil payload and detects as "no face".
func ReadFrames(r io.Reader) ([]Frame, error) {
	var frames []Frame

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rl replayLine
		if err := json.Unmarshal([]byte(text), &rl); err != nil {
			return nil, fmt.Errorf("%w: replay line %d: %v", shared.ErrInvalidInput, line, err)
		}

		frame := Frame{Index: len(frames)}
		if rl.Expressions != nil {
			frame.Payload = *rl.Expressions
		}
		frames = append(frames, frame)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read replay: %w", err)
	}
	return frames, nil
}

// ReplayCamera is a [Camera] that plays back recorded frames in a loop.
type ReplayCamera struct {
	path   string
	frames []Frame
	now    func() time.Time
}

// NewReplayCamera reads frames from the JSON-lines file at path when opened.
func NewReplayCamera(path string) *ReplayCamera {
	return &ReplayCamera{path: path, now: time.Now}
}

// NewReplayCameraFrames plays back the given frames.
func NewReplayCameraFrames(frames []Frame) *ReplayCamera {
	return &ReplayCamera{frames: frames, now: time.Now}
}

// Open implements [Camera].
func (c *ReplayCamera) Open(ctx context.Context) (Stream, error) {
	frames := c.frames
	if c.path != "" {
		f, err := os.Open(c.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCameraUnavailable, err)
		}
		defer f.Close()

		frames, err = ReadFrames(f)
		if err != nil {
			return nil, err
		}
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: replay has no frames", shared.ErrCameraUnavailable)
	}

	return &replayStream{frames: frames, now: c.now, track: &replayTrack{}}, nil
}

type replayTrack struct {
	mu      sync.Mutex
	stopped bool
}

func (t *replayTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *replayTrack) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type replayStream struct {
	mu     sync.Mutex
	frames []Frame
	next   int
	now    func() time.Time
	track  *replayTrack
}

func (s *replayStream) Capture(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.track.Stopped() {
		return Frame{}, fmt.Errorf("%w: stream stopped", shared.ErrCameraUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	frame := s.frames[s.next%len(s.frames)]
	frame.Index = s.next
	frame.CapturedAt = s.now()
	s.next++
	return frame, nil
}

func (s *replayStream) Tracks() []Track {
	return []Track{s.track}
}

// ReplayDetector is the [ExpressionDetector] paired with [ReplayCamera]: frames already carry their scores.
type ReplayDetector struct{}

// DetectSingleFace implements [ExpressionDetector].
func (ReplayDetector) DetectSingleFace(ctx context.Context, frame Frame) (*Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exprs, ok := frame.Payload.(Expressions)
	if !ok || exprs == nil {
		return nil, nil
	}
	return &Detection{Expressions: exprs}, nil
}

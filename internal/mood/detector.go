package mood

import (
	"context"
	"time"
)

// Frame is a single captured image.
//
// Payload is whatever the paired [ExpressionDetector] understands: raw pixels for a real model,
// pre-computed [Expressions] for the replay camera.
type Frame struct {
	Index      int
	CapturedAt time.Time
	Payload    any
}

// Track is one media track of an open camera stream.
type Track interface {
	Stop()
}

// Stream is an open camera.
type Stream interface {
	Capture(ctx context.Context) (Frame, error)
	Tracks() []Track
}

// Camera opens frame streams.
type Camera interface {
	Open(ctx context.Context) (Stream, error)
}

// Detection is the result of finding one face in a frame.
type Detection struct {
	Expressions Expressions
}

// ExpressionDetector finds at most one face in a frame and scores its expressions.
//
// A nil [*Detection] with a nil error means no face was found.
type ExpressionDetector interface {
	DetectSingleFace(ctx context.Context, frame Frame) (*Detection, error)
}

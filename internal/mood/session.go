package mood

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodtunes/internal/services"
	"github.com/desertthunder/moodtunes/internal/shared"
)

// DefaultInterval is the sampling period when none is configured.
const DefaultInterval = 2 * time.Second

// State is the detection state of a [Session].
type State int

const (
	Idle State = iota
	Detecting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Detecting:
		return "detecting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Fetcher retrieves recommendations for a mood.
type Fetcher interface {
	services.PlaylistSearcher
	services.VideoSearcher
}

// Change describes a mood change whose recommendations have been applied.
type Change struct {
	Mood      string
	Score     float64
	Playlists int
	Videos    int
}

// Recorder persists applied mood changes.
type Recorder interface {
	Record(ctx context.Context, change Change) error
}

// UpdateKind identifies what an [Update] carries.
type UpdateKind int

const (
	MoodChanged UpdateKind = iota
	PlaylistsUpdated
	VideosUpdated
)

// Update is delivered to the session observer when state visible to a presentation layer changes.
type Update struct {
	Kind      UpdateKind
	Mood      string
	Score     float64
	Playlists []services.PlaylistResult
	Videos    []services.VideoResult
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	State     State
	Mood      string
	Playlists []services.PlaylistResult
	Videos    []services.VideoResult
}

// SessionOpts configures a [Session].
type SessionOpts struct {
	Camera   Camera
	Detector ExpressionDetector
	Fetcher  Fetcher
	Recorder Recorder      // optional
	Observer func(Update) // optional; called from session goroutines, never while a lock is held
	Interval time.Duration
	Logger   *log.Logger

	// Ticker overrides the sampling clock; it returns the tick channel and a stop function.
	Ticker func(time.Duration) (<-chan time.Time, func())
}

// run is one Detecting period.
type run struct {
	id     uint64
	cancel context.CancelFunc
	stream Stream
	wg     sync.WaitGroup
}

// Session samples a camera on a fixed interval, tracks the dominant expression as the current mood and
// fetches recommendations each time it changes.
//
// Results are applied only while Detecting and only for the most recent mood change, so a slow response
// never overwrites newer state and nothing lands after [Session.Stop].
type Session struct {
	camera   Camera
	detector ExpressionDetector
	fetcher  Fetcher
	recorder Recorder
	observer func(Update)
	interval time.Duration
	ticker   func(time.Duration) (<-chan time.Time, func())
	logger   *log.Logger

	mu        sync.Mutex
	state     State
	runs      uint64
	current   *run
	gen       uint64
	mood      string
	score     float64
	playlists []services.PlaylistResult
	videos    []services.VideoResult
}

// NewSession creates an idle session.
func NewSession(opts SessionOpts) *Session {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Observer == nil {
		opts.Observer = func(Update) {}
	}
	if opts.Ticker == nil {
		opts.Ticker = func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		}
	}

	return &Session{
		camera:   opts.Camera,
		detector: opts.Detector,
		fetcher:  opts.Fetcher,
		recorder: opts.Recorder,
		observer: opts.Observer,
		interval: opts.Interval,
		ticker:   opts.Ticker,
		logger:   opts.Logger,
	}
}

// Start opens the camera and begins sampling. It returns [shared.ErrAlreadyRunning] while Detecting.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Detecting {
		return shared.ErrAlreadyRunning
	}

	stream, err := s.camera.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCameraUnavailable, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.runs++
	r := &run{id: s.runs, cancel: cancel, stream: stream}

	s.current = r
	s.state = Detecting
	s.gen++

	r.wg.Add(1)
	go s.loop(runCtx, r)

	s.logger.Info("detection started", "interval", s.interval)
	return nil
}

// Stop ends sampling, waits for the in-flight tick and fetches to return, stops every camera track and
// clears the mood and results. Stopping an idle session does nothing.
//
// Stop does not notify the observer.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == Idle {
		s.mu.Unlock()
		return
	}

	r := s.current
	s.current = nil
	s.state = Idle
	s.gen++
	s.mood = ""
	s.score = 0
	s.playlists = nil
	s.videos = nil
	s.mu.Unlock()

	r.cancel()
	r.wg.Wait()

	for _, track := range r.stream.Tracks() {
		track.Stop()
	}

	s.logger.Info("detection stopped")
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		State:     s.state,
		Mood:      s.mood,
		Playlists: append([]services.PlaylistResult(nil), s.playlists...),
		Videos:    append([]services.VideoResult(nil), s.videos...),
	}
}

func (s *Session) loop(ctx context.Context, r *run) {
	defer r.wg.Done()

	ticks, stop := s.ticker(s.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.sample(ctx, r)
		}
	}
}

// sample runs one detection tick.
func (s *Session) sample(ctx context.Context, r *run) {
	frame, err := r.stream.Capture(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("frame capture failed", "error", err)
		}
		return
	}

	det, err := s.detector.DetectSingleFace(ctx, frame)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("expression detection failed", "frame", frame.Index, "error", err)
		}
		return
	}
	if det == nil {
		return
	}

	dominant, ok := det.Expressions.Dominant()
	if !ok {
		return
	}

	s.mu.Lock()
	if s.state != Detecting || s.current != r || ctx.Err() != nil || dominant.Label == s.mood {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.mood = dominant.Label
	s.score = dominant.Score
	s.mu.Unlock()

	s.logger.Info("mood changed", "mood", dominant.Label, "score", dominant.Score)
	s.observer(Update{Kind: MoodChanged, Mood: dominant.Label, Score: dominant.Score})

	r.wg.Add(1)
	go s.fetch(ctx, r, gen, dominant)
}

// fetch requests playlists and videos for one mood change concurrently and applies each list as it arrives.
func (s *Session) fetch(ctx context.Context, r *run, gen uint64, e Expression) {
	defer r.wg.Done()

	var (
		wg        sync.WaitGroup
		playlists []services.PlaylistResult
		videos    []services.VideoResult
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		res, err := s.fetcher.SearchPlaylists(ctx, e.Label)
		if err != nil {
			s.logFetchError("playlists", e.Label, err)
			res = []services.PlaylistResult{}
		}
		playlists = res
		if s.applyPlaylists(gen, res) {
			s.observer(Update{Kind: PlaylistsUpdated, Mood: e.Label, Playlists: res})
		}
	}()

	go func() {
		defer wg.Done()
		res, err := s.fetcher.SearchVideos(ctx, e.Label)
		if err != nil {
			s.logFetchError("videos", e.Label, err)
			res = []services.VideoResult{}
		}
		videos = res
		if s.applyVideos(gen, res) {
			s.observer(Update{Kind: VideosUpdated, Mood: e.Label, Videos: res})
		}
	}()

	wg.Wait()

	if s.recorder == nil || !s.isCurrent(gen) {
		return
	}

	change := Change{Mood: e.Label, Score: e.Score, Playlists: len(playlists), Videos: len(videos)}
	if err := s.recorder.Record(ctx, change); err != nil {
		s.logger.Warn("failed to record mood change", "mood", e.Label, "error", err)
	}
}

func (s *Session) logFetchError(what, mood string, err error) {
	if ue, ok := services.AsUpstream(err); ok {
		s.logger.Error("error fetching "+what, append([]any{"mood", mood}, ue.KeyVals()...)...)
		return
	}
	s.logger.Error("error fetching "+what, "mood", mood, "error", err)
}

func (s *Session) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Detecting && s.gen == gen
}

func (s *Session) applyPlaylists(gen uint64, res []services.PlaylistResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Detecting || s.gen != gen {
		return false
	}
	s.playlists = res
	return true
}

func (s *Session) applyVideos(gen uint64, res []services.VideoResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Detecting || s.gen != gen {
		return false
	}
	s.videos = res
	return true
}

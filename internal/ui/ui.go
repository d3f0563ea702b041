package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/moodtunes/internal/mood"
	"github.com/desertthunder/moodtunes/internal/shared"
)

const (
	defaultWidth  = 80
	defaultHeight = 14
)

// Grid identifies one of the two result grids.
type Grid int

const (
	PlaylistGrid Grid = iota
	VideoGrid
)

// Controller starts and stops mood detection. [*mood.Session] satisfies it.
type Controller interface {
	Start(ctx context.Context) error
	Stop()
}

// Sink carries session updates into the bubbletea program.
//
// Its Observe method is the session observer. Observe blocks until the model receives the update or the
// sink is closed, so the session never races ahead of the screen.
type Sink struct {
	ch   chan mood.Update
	done chan struct{}
	once sync.Once
}

func NewSink() *Sink {
	return &Sink{ch: make(chan mood.Update), done: make(chan struct{})}
}

// Observe hands u to the model. It returns immediately once the sink is closed.
func (s *Sink) Observe(u mood.Update) {
	select {
	case s.ch <- u:
	case <-s.done:
	}
}

// Close releases any blocked [Sink.Observe] call. Safe to call more than once.
func (s *Sink) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Sink) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-s.ch:
			return sessionUpdateMsg(u)
		case <-s.done:
			return nil
		}
	}
}

// Model is the TUI application state.
type Model struct {
	ctx     context.Context
	session Controller
	sink    *Sink
	open    func(string) error

	cameraOn bool
	starting bool
	stopping bool
	// stop was requested while a start was still in flight
	stopPending bool
	mood     string
	score    float64
	focus    Grid
	grids    [2]list.Model
	status   string
	err      error

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a TUI model driving session, receiving its updates through sink.
func NewModel(ctx context.Context, session Controller, sink *Sink) *Model {
	return &Model{
		ctx:     ctx,
		session: session,
		sink:    sink,
		open:    shared.OpenBrowser,
		grids:   [2]list.Model{newGrid("Playlists"), newGrid("Videos")},
		width:   defaultWidth,
		height:  defaultHeight * 2,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// CameraOn reports whether detection is running.
func (m *Model) CameraOn() bool { return m.cameraOn }

// Mood returns the mood currently on screen.
func (m *Model) Mood() string { return m.mood }

// Focus returns the focused grid.
func (m *Model) Focus() Grid { return m.focus }

// Init starts listening for session updates.
func (m *Model) Init() tea.Cmd {
	return m.sink.wait()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max((msg.Height-8)/2, 4)
		for i := range m.grids {
			m.grids[i].SetSize(msg.Width-4, h)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionUpdate:
		m.apply(msg.data.(mood.Update))
		return m, m.sink.wait()

	case MsgCameraStarted:
		m.starting = false
		err := msg.err()
		if err != nil && !errors.Is(err, shared.ErrAlreadyRunning) {
			m.err = err
			m.status = ""
			m.stopPending = false
			m.setCamera(false)
			return m, nil
		}
		if m.stopPending {
			m.stopPending = false
			return m, m.beginStop()
		}
		if err != nil {
			m.err = err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = "Camera on, looking for a face"

	case MsgCameraStopped:
		m.stopping = false
		m.status = "Camera off"

	case MsgLinkOpened:
		if err := msg.err(); err != nil {
			m.err = err
			return m, nil
		}
		m.status = "Opened " + msg.data.(linkResult).url
	}
	return m, nil
}

// apply merges a session update. Updates are dropped while the camera is off.
func (m *Model) apply(u mood.Update) {
	if !m.cameraOn {
		return
	}

	switch u.Kind {
	case mood.MoodChanged:
		m.mood = u.Mood
		m.score = u.Score
	case mood.PlaylistsUpdated:
		m.grids[PlaylistGrid].SetItems(playlistItems(u.Playlists))
		m.grids[PlaylistGrid].Select(0)
	case mood.VideosUpdated:
		m.grids[VideoGrid].SetItems(videoItems(u.Videos))
		m.grids[VideoGrid].Select(0)
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.start):
		if m.stopping {
			return m, nil
		}
		m.setCamera(true)
		m.starting = true
		m.err = nil
		m.status = "Starting camera"
		return m, m.start()

	case key.Matches(msg, m.keys.stop):
		if m.starting {
			m.stopPending = true
			m.status = "Stopping camera"
			return m, nil
		}
		return m, m.beginStop()

	case key.Matches(msg, m.keys.tab):
		m.focus = (m.focus + 1) % 2
		return m, nil

	case key.Matches(msg, m.keys.enter):
		item, ok := m.grids[m.focus].SelectedItem().(linkItem)
		if !ok {
			return m, nil
		}
		return m, m.openLink(item.Link())

	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		m.grids[m.focus], cmd = m.grids[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setCamera(on bool) {
	m.cameraOn = on
	m.keys.setCamera(on)
}

// beginStop turns the camera off on screen and stops the session in the background.
func (m *Model) beginStop() tea.Cmd {
	m.setCamera(false)
	m.clear()
	m.stopping = true
	m.status = "Stopping camera"
	return m.stop()
}

func (m *Model) clear() {
	m.mood = ""
	m.score = 0
	for i := range m.grids {
		m.grids[i].SetItems(nil)
	}
}

// start and stop run as commands because session calls block until the sampling goroutine exits.
func (m *Model) start() tea.Cmd {
	return func() tea.Msg {
		return cameraStartedMsg(m.session.Start(m.ctx))
	}
}

func (m *Model) stop() tea.Cmd {
	return func() tea.Msg {
		m.session.Stop()
		return cameraStoppedMsg()
	}
}

func (m *Model) quit() tea.Cmd {
	if !m.cameraOn {
		return tea.Quit
	}
	m.setCamera(false)
	m.status = "Stopping camera"
	return func() tea.Msg {
		m.session.Stop()
		return tea.Quit()
	}
}

func (m *Model) openLink(url string) tea.Cmd {
	open := m.open
	return func() tea.Msg {
		return linkOpenedMsg(url, open(url))
	}
}

// View renders the camera controls, the current mood and both grids.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("moodtunes"))
	b.WriteString("\n")
	b.WriteString(m.renderCamera())
	b.WriteString("\n")
	b.WriteString(m.renderMood())
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid(PlaylistGrid, "No playlists yet."))
	b.WriteString("\n")
	b.WriteString(m.renderGrid(VideoGrid, "No videos yet."))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(styles.help.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderCamera() string {
	if m.cameraOn {
		return "Camera: " + styles.ok.Render("● on")
	}
	return "Camera: " + styles.warn.Render("○ off")
}

func (m *Model) renderMood() string {
	switch {
	case m.mood != "":
		return fmt.Sprintf("Mood: %s (%.2f)", styles.ok.Render(m.mood), m.score)
	case m.cameraOn:
		return "Mood: " + styles.help.Render("waiting for a face…")
	default:
		return "Mood: " + styles.help.Render("start the camera to detect your mood")
	}
}

func (m *Model) renderGrid(g Grid, placeholder string) string {
	style := styles.pane
	if g == m.focus {
		style = styles.focus
	}

	grid := m.grids[g]
	if len(grid.Items()) == 0 {
		body := lipgloss.JoinVertical(lipgloss.Left, styles.title.Render(grid.Title), styles.help.Render(placeholder))
		return style.Render(body)
	}
	return style.Render(grid.View())
}

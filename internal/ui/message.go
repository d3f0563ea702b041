package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodtunes/internal/mood"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionUpdate MsgKind = iota
	MsgCameraStarted
	MsgCameraStopped
	MsgLinkOpened
)

// sessionUpdateMsg is the constructor for [MsgSessionUpdate]
func sessionUpdateMsg(u mood.Update) Msg {
	return Msg{kind: MsgSessionUpdate, data: u}
}

// cameraStartedMsg is the constructor for [MsgCameraStarted]. A non-nil err means the camera stayed off.
func cameraStartedMsg(err error) Msg {
	return Msg{kind: MsgCameraStarted, data: err}
}

// cameraStoppedMsg is the constructor for [MsgCameraStopped]
func cameraStoppedMsg() Msg {
	return Msg{kind: MsgCameraStopped}
}

// linkResult is the payload of [MsgLinkOpened].
type linkResult struct {
	url string
	err error
}

// linkOpenedMsg is the constructor for [MsgLinkOpened]
func linkOpenedMsg(url string, err error) Msg {
	return Msg{kind: MsgLinkOpened, data: linkResult{url, err}}
}

func (m Msg) err() error {
	switch m.kind {
	case MsgCameraStarted:
		err, _ := m.data.(error)
		return err
	case MsgLinkOpened:
		return m.data.(linkResult).err
	default:
		return nil
	}
}

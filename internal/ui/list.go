package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moodtunes/internal/services"
)

var (
	_ linkItem = playlistItem{}
	_ linkItem = videoItem{}
)

// linkItem is a [list.Item] that opens in the browser.
type linkItem interface {
	list.DefaultItem
	Link() string
}

// playlistItem wraps [services.PlaylistResult] to implement [list.Item].
type playlistItem struct {
	playlist services.PlaylistResult
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string { return i.playlist.URL }
func (i playlistItem) Link() string        { return i.playlist.URL }

// videoItem wraps [services.VideoResult] to implement [list.Item].
type videoItem struct {
	video services.VideoResult
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string { return i.video.VideoURL }
func (i videoItem) Link() string        { return i.video.VideoURL }

func playlistItems(playlists []services.PlaylistResult) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func videoItems(videos []services.VideoResult) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v}
	}
	return items
}

// newGrid builds a result list with filtering, its own help and its own quit binding turned off.
func newGrid(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}

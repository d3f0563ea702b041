// Package ui implements the interactive terminal front end using bubbletea's Elm architecture.
//
// The [Model] keeps four pieces of state: the current mood, the playlist grid, the video grid and whether
// the camera is on. Keys map to the camera controls:
//
//	s      start the camera (disabled while it is on)
//	x      stop the camera (disabled while it is off)
//	tab    switch the focused grid
//	j/k    move the cursor
//	enter  open the selected link in the browser
//	q      stop the camera and quit
//
// Session events reach the model through a [Sink]: the session's observer pushes [mood.Update] values into
// it and the model turns each one into a tea message. Updates that arrive while the camera is off are
// dropped, and each result list fully replaces the previous one.
package ui

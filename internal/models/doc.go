// Package models defines the persisted entities of moodtunes and the generic repository contract.
//
// [MoodEntry] is a mood change recorded by the terminal client: the dominant expression label, its score,
// and how many playlists and videos the gateway returned for it.
//
// All persistent entities implement the [Model] interface providing ID, timestamps, and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models

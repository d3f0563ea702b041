// Package mood turns camera frames into a mood and keeps recommendations in step with it.
//
// # Session
//
// A [Session] is either [Idle] or [Detecting]. [Session.Start] opens the [Camera] and samples a frame every
// interval (2s by default). Each frame goes through an [ExpressionDetector]; when a face is found the
// highest-scoring expression becomes the candidate mood, ties going to the first label reported.
//
// A candidate that differs from the recorded mood is recorded, announced to the observer as [MoodChanged],
// and triggers one concurrent playlist and video fetch. Each mood change bumps a generation counter; a
// fetch result is applied only if its generation is still current and the session is still Detecting.
// A failed fetch empties its list.
//
// [Session.Stop] cancels sampling, waits for the in-flight tick and fetches, stops every camera track
// and clears the mood and results.
//
// # Replay
//
// [ReplayCamera] and [ReplayDetector] play back a JSON-lines file of pre-computed expression scores:
//
//	{"expressions":{"happy":0.9,"sad":0.05,"neutral":0.05}}
//	{"expressions":null}
//
// A null line is a frame without a face. Frames loop.
package mood

// Package session stitches together plays of a song that were split by a
// manual pause.
package session

import "github.com/jnadelneuro/apple-music-history/internal/activity"

// IsContinuation reports whether cur resumes prev: both are plays of the same
// song, prev was manually paused, and cur starts where prev ended. Artist is
// not compared, since it may have been resolved differently for each segment.
func IsContinuation(prev, cur *activity.Event) bool {
	if prev == nil || cur == nil {
		return false
	}
	return activity.IsPlay(*prev) &&
		activity.IsPlay(*cur) &&
		prev.Song == cur.Song &&
		prev.EndPosition.Equal(cur.StartPosition) &&
		prev.EndReason == activity.ReasonManuallyPaused
}

// WillContinue reports whether next resumes cur.
func WillContinue(cur, next *activity.Event) bool {
	return IsContinuation(cur, next)
}

// MissedTime is the part of the track that was not played, in milliseconds.
// A segment that will be resumed has missed nothing yet.
func MissedTime(e activity.Event, willContinue bool) int64 {
	if willContinue {
		return 0
	}
	var start int64
	if e.StartPosition.Valid {
		start = e.StartPosition.Millis
	}
	return max(0, e.MediaDuration-(start+e.PlayDuration))
}

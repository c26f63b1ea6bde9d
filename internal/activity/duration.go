package activity

// NormalizeDuration caps a play duration that is more than 1.5 times the
// track's media duration, which happens when the exporter's timer gets stuck.
// The capped value is the media duration. If either value is not positive the
// play duration is returned unchanged.
func NormalizeDuration(play, media int64) int64 {
	if play <= 0 || media <= 0 {
		return play
	}
	// play > 1.5 * media, without leaving integers.
	if 2*play > 3*media {
		return media
	}
	return play
}

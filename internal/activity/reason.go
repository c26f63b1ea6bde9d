package activity

// End reason codes written by the exporter.
const (
	ReasonScrubEnd              = "SCRUB_END"
	ReasonSelectedDifferentItem = "MANUALLY_SELECTED_PLAYBACK_OF_A_DIFF_ITEM"
	ReasonManuallyPaused        = "PLAYBACK_MANUALLY_PAUSED"
	ReasonFailedToLoad          = "FAILED_TO_LOAD"
	ReasonSkippedForwards       = "TRACK_SKIPPED_FORWARDS"
	ReasonScrubBegin            = "SCRUB_BEGIN"
	ReasonNaturalEnd            = "NATURAL_END_OF_TRACK"
	ReasonSkippedBackwards      = "TRACK_SKIPPED_BACKWARDS"
	ReasonNotApplicable         = "NOT_APPLICABLE"
	ReasonSessionTimeout        = "PLAYBACK_STOPPED_DUE_TO_SESSION_TIMEOUT"
	ReasonBanned                = "TRACK_BANNED"
	ReasonQuickPlay             = "QUICK_PLAY"
	ReasonNone                  = ""
)

const (
	ItemTypeOriginalContentShows = "ORIGINAL_CONTENT_SHOWS"
	MediaTypeVideo               = "VIDEO"
)

// ReasonCodes lists every known end reason. Reason histograms start with
// each of these at zero, in this order.
var ReasonCodes = []string{
	ReasonScrubEnd,
	ReasonSelectedDifferentItem,
	ReasonManuallyPaused,
	ReasonFailedToLoad,
	ReasonSkippedForwards,
	ReasonScrubBegin,
	ReasonNaturalEnd,
	ReasonSkippedBackwards,
	ReasonNotApplicable,
	ReasonSessionTimeout,
	ReasonBanned,
	ReasonQuickPlay,
	ReasonNone,
}

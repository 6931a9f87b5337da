package models

// Content-type keys. They name generation tracks, entries in a source's
// suitability analysis, and entries in its used_for ledger list.
const (
	TrackWisdom         = "wisdom"
	TrackGreeting       = "greeting"
	TrackMotivational   = "motivational"
	TrackFacts          = "facts"
	TrackMultipleChoice = "multiple_choice"
	TrackTrueFalse      = "true_false"
	TrackWhoAmI         = "who_am_i"
)

// SuitabilityTrackKeys are the content types assessed at ingestion time.
// Greetings are generated interactively only and are never part of the
// suitability analysis or the batch fan-out.
var SuitabilityTrackKeys = []string{
	TrackMultipleChoice,
	TrackTrueFalse,
	TrackWhoAmI,
	TrackMotivational,
	TrackFacts,
	TrackWisdom,
}

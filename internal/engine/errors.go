package engine

import "errors"

// Error codes carried by DraftError. Handlers map these onto HTTP statuses;
// everything else can switch on them without string-matching messages.
const (
	CodeInvalidConfig    = "invalid_config"
	CodeDraftComplete    = "draft_complete"
	CodeNotYourTurn      = "not_your_turn"
	CodePickOutOfRange   = "pick_out_of_range"
	CodePickTaken        = "pick_taken"
	CodeInvalidTeam      = "invalid_team"
	CodeMissingField     = "missing_field"
	CodeNoPicks          = "no_picks"
	CodeBadStateDocument = "bad_state_document"
)

// DraftError is a rejected operation. Every failure is local and recoverable;
// the engine never panics on caller input.
type DraftError struct {
	Code    string
	Message string
}

func (e *DraftError) Error() string {
	return e.Message
}

// ErrorCode extracts the DraftError code from err, or "" if err is not a
// DraftError.
func ErrorCode(err error) string {
	var de *DraftError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

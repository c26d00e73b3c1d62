package klondike

import "errors"

// Status is the result class of an applied action
type Status uint8

const (
	OnGoing Status = iota
	Victory
	Failed
)

func (s Status) String() string {
	switch s {
	case OnGoing:
		return "ongoing"
	case Victory:
		return "victory"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Reasons reported with a Failed outcome
const (
	ReasonNoSourceCard       = "no source card"
	ReasonInvalidRank        = "invalid rank"
	ReasonInvalidDestination = "invalid destination"
	ReasonInvalidSource      = "invalid source"
	ReasonInvalidTarget      = "invalid target"
	ReasonAlreadyWon         = "game already won"
	ReasonUnknownAction      = "unknown action"
)

// ErrInvalidMove is matched by every MoveError
var ErrInvalidMove = errors.New("invalid move")

// MoveError reports an illegal move. The game is unchanged.
type MoveError struct {
	Reason string
}

func (e *MoveError) Error() string {
	return "invalid move: " + e.Reason
}

func (e *MoveError) Unwrap() error {
	return ErrInvalidMove
}

// Outcome is what Apply returns
type Outcome struct {
	Status Status
	Reason string // set when Status is Failed
}

func ongoing() Outcome { return Outcome{Status: OnGoing} }

func victory() Outcome { return Outcome{Status: Victory} }

func failed(reason string) Outcome { return Outcome{Status: Failed, Reason: reason} }

// Failed reports whether the action was rejected
func (o Outcome) Failed() bool {
	return o.Status == Failed
}

// Victory reports whether the action completed all four foundations
func (o Outcome) Victory() bool {
	return o.Status == Victory
}

// Err returns a *MoveError for a failed outcome and nil otherwise
func (o Outcome) Err() error {
	if o.Status != Failed {
		return nil
	}
	return &MoveError{Reason: o.Reason}
}

// FailedOutcome builds a Failed outcome for a rejection reported elsewhere,
// such as by a remote server.
func FailedOutcome(reason string) Outcome {
	return failed(reason)
}

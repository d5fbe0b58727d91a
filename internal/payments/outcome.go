package payments

type OutcomeStatus string

const (
	OutcomeCompleted            OutcomeStatus = "completed"
	OutcomeRequiresChallenge    OutcomeStatus = "requires_challenge"
	OutcomeRequiresConfirmation OutcomeStatus = "requires_confirmation"
	OutcomeFailed               OutcomeStatus = "failed"
)

type Outcome struct {
	Status       OutcomeStatus
	IntentID     string
	ClientSecret string
	ReturnURL    string
	Err          error
}

// Classify maps the processor intent status onto the client-facing outcome.
func Classify(intent *Intent) Outcome {
	switch intent.Status {
	case StatusRequiresAction, StatusRequiresSourceAction:
		return Outcome{
			Status:       OutcomeRequiresChallenge,
			IntentID:     intent.ID,
			ClientSecret: intent.ClientSecret,
			ReturnURL:    intent.redirectURL(),
		}
	case StatusRequiresConfirmation:
		return Outcome{
			Status:       OutcomeRequiresConfirmation,
			IntentID:     intent.ID,
			ClientSecret: intent.ClientSecret,
		}
	default:
		return Outcome{Status: OutcomeCompleted, IntentID: intent.ID}
	}
}

func Failed(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Err: err}
}

// ErrorType of a failed outcome, empty otherwise.
func (o Outcome) ErrorType() string {
	if o.Err == nil {
		return ""
	}
	return ErrorType(o.Err)
}

package notify

// Event types pushed to a user's live connection
const (
	EventNewSwapRequest = "new_swap_request"
	EventSwapAccepted   = "swap_accepted"
	EventSwapRejected   = "swap_rejected"
)

// Event a live notification: a type tag, a human-readable message and the
// proposal snapshot it is about.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Request interface{} `json:"request,omitempty"`
}

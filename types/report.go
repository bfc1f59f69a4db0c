package types

// AttachmentKind separates the single photo slot from the single
// supplementary file slot.
type AttachmentKind string

const (
	PrimaryPhoto      AttachmentKind = "primary_photo"
	SupplementaryFile AttachmentKind = "supplementary_file"
)

// Attachment is one uploaded file held in memory for the duration of a
// report attempt. Nothing is written to disk.
type Attachment struct {
	Filename string
	Data     []byte
	Kind     AttachmentKind
}

// Report is assembled fresh on every send and discarded afterwards; the
// service never persists it. Attachments travel alongside as binary
// multipart parts, never inside the JSON payload. The ID lets the
// receiving side deduplicate and lets users quote a reference.
type Report struct {
	ID        string         `json:"id"`
	User      string         `json:"user"`
	Message   string         `json:"message"`
	Severity  Severity       `json:"severity"`
	Location  LocationResult `json:"location"`
	Timestamp string         `json:"timestamp"` // RFC3339, UTC
}

// SubmitOutcomeKind is the terminal state of one submission attempt.
type SubmitOutcomeKind string

const (
	SubmitSuccess        SubmitOutcomeKind = "success"
	SubmitNonFatalStatus SubmitOutcomeKind = "non_fatal_status"
	SubmitTransportError SubmitOutcomeKind = "transport_error"
)

// SubmitOutcome classifies what came back from POSTing a report to the
// government endpoint. A non-2xx status is a warning, not an error: the
// request completed and the UI stays usable.
type SubmitOutcome struct {
	Kind       SubmitOutcomeKind
	StatusCode int   // set for Success and NonFatalStatus
	Err        error // set for TransportError
}

package coach

import (
	"runcoach/internal/signature"
	"runcoach/internal/snapshot"
)

// ResponseType discriminates what the coaching service wants next.
// The set is closed; anything else is a protocol violation.
type ResponseType string

const (
	TypeAnswerNow            ResponseType = "ANSWER_NOW"
	TypeRecommendation       ResponseType = "RECOMMENDATION"
	TypeRequestSnapshot      ResponseType = "REQUEST_SNAPSHOT"
	TypeRequestSnapshotBatch ResponseType = "REQUEST_SNAPSHOT_BATCH"
)

// Meta keys understood by the coaching service.
const (
	MetaSessionID      = "session_id"
	MetaRequestedStart = "requested_start"
	MetaRequestedEnd   = "requested_end"
	MetaMetric         = "metric"
	MetaReplyMode      = "reply_mode"
	MetaPeriodContext  = "period_context"
)

// SnapshotPair carries the two sides of a period comparison.
type SnapshotPair struct {
	Left  snapshot.Snapshot `json:"left"`
	Right snapshot.Snapshot `json:"right"`
}

// PeriodPair names the two ranges the service wants snapshots for.
type PeriodPair struct {
	Left  snapshot.Period `json:"left"`
	Right snapshot.Period `json:"right"`
}

// Request is the wire request sent to the coaching service.
type Request struct {
	Message   string               `json:"message"`
	Snapshot  snapshot.Snapshot    `json:"snapshot"`
	Snapshots *SnapshotPair        `json:"snapshots,omitempty"`
	Meta      map[string]string    `json:"meta,omitempty"`
	Signature *signature.Signature `json:"signature,omitempty"`
}

// Response is the wire response from the coaching service. Period is set for
// REQUEST_SNAPSHOT, Snapshots for REQUEST_SNAPSHOT_BATCH.
type Response struct {
	Reply     string            `json:"reply"`
	Type      ResponseType      `json:"type"`
	Period    *snapshot.Period  `json:"period,omitempty"`
	Snapshots *PeriodPair       `json:"snapshots,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

package coach

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"runcoach/internal/signature"
	"runcoach/internal/snapshot"
)

// User-facing strings for the degraded outcomes. Every failure in the
// exchange surfaces as one of these; nothing is retried beyond the single
// built-in retry round.
const (
	ReplyFallback           = "The coach has nothing to add."
	ReplyComparisonFallback = "I couldn't put that comparison into words, but both periods are loaded."
	ReplyUnavailable        = "Sorry, the coach isn't responding right now. Please try again in a moment."
	ReplyInternalError      = "internal error: snapshot requested twice"
	ReplyUnrecognized       = "unrecognized response"
)

// signatureWeeks is the history window the runner signature is built over.
const signatureWeeks = 52

// exchange states. One exchange per user message; the session carries state
// that outlives a single exchange (id, cached signature).
type state int

const (
	stateInit state = iota
	stateSentPrimary
	stateSentRetry
	stateDone
	stateErr
)

// Session is the client half of the coaching protocol. It pairs a stable
// session id with a lazily built runner signature and drives the
// request/retry exchange for each user message.
type Session struct {
	id      string
	client  *Client
	builder *snapshot.Builder

	// The signature is built at most once per session, even when several
	// exchanges race to trigger it and even when the build fails.
	sigOnce sync.Once
	sig     *signature.Signature
}

// NewSession creates a Session with a fresh stable identifier.
func NewSession(client *Client, builder *snapshot.Builder) *Session {
	return &Session{
		id:      uuid.NewString(),
		client:  client,
		builder: builder,
	}
}

// ID returns the stable per-session identifier carried in request meta.
func (s *Session) ID() string {
	return s.id
}

// Signature returns the session's runner signature, building it on first
// use from the trailing year of weekly snapshots. A nil result means the
// history is too short; the exchange proceeds without a signature.
func (s *Session) Signature(ctx context.Context) *signature.Signature {
	s.sigOnce.Do(func() {
		weeks := s.builder.BuildWeeks(ctx, signatureWeeks, time.Now())
		// Weeks before the athlete's first run are padding, not history
		for len(weeks) > 0 && !weeks[0].HasRuns() {
			weeks = weeks[1:]
		}
		sig, err := signature.Build(weeks)
		if err != nil {
			if errors.Is(err, signature.ErrInsufficientHistory) {
				log.Printf("coach: no signature yet: %v", err)
				return
			}
			log.Printf("coach: building signature: %v", err)
			return
		}
		s.sig = sig
	})
	return s.sig
}

// Ask sends one user message through the protocol and returns the text to
// show the user. All failures degrade to a fixed string; Ask never returns
// an error.
func (s *Session) Ask(ctx context.Context, message string) string {
	e := &exchange{session: s, state: stateInit}
	return e.run(ctx, message)
}

// exchange tracks one message's trip through the protocol. An exchange is
// single-use: run consumes it, and a finished or failed exchange refuses to
// run again.
type exchange struct {
	session *Session
	state   state
}

func (e *exchange) run(ctx context.Context, message string) string {
	if e.state != stateInit {
		e.state = stateErr
		log.Printf("coach: exchange reused after completion (session %s)", e.session.id)
		return ReplyInternalError
	}

	now := time.Now()
	weekStart := snapshot.WeekStart(now)

	primary := e.session.builder.Build(ctx, weekStart, weekStart.AddDate(0, 0, 7))
	primary.WeekLabel = "Current week"

	req := Request{
		Message:   message,
		Snapshot:  primary,
		Meta:      e.meta(nil),
		Signature: e.session.Signature(ctx),
	}

	e.state = stateSentPrimary
	resp, err := e.session.client.Ask(ctx, req)
	if err != nil {
		return e.fail("network", err)
	}

	switch resp.Type {
	case TypeAnswerNow, TypeRecommendation, "":
		e.state = stateDone
		return replyOr(resp.Reply, ReplyFallback)

	case TypeRequestSnapshot:
		return e.retrySingle(ctx, message, resp)

	case TypeRequestSnapshotBatch:
		return e.retryBatch(ctx, message, resp)

	default:
		return e.violation("unrecognized response type %q", string(resp.Type))
	}
}

// retrySingle rebuilds a snapshot for the period the service asked for and
// resends once.
func (e *exchange) retrySingle(ctx context.Context, message string, resp *Response) string {
	if resp.Period == nil {
		return e.violation("snapshot requested without a period")
	}

	start, end, err := parsePeriod(*resp.Period)
	if err != nil {
		return e.violation("snapshot requested with bad period: %v", err)
	}

	meta := e.meta(resp.Meta)
	meta[MetaRequestedStart] = resp.Period.Start
	meta[MetaRequestedEnd] = resp.Period.End
	if meta[MetaMetric] == "" {
		meta[MetaMetric] = "DISTANCE"
	}
	if meta[MetaReplyMode] == "" {
		meta[MetaReplyMode] = "FACTUAL"
	}

	snap := e.session.builder.Build(ctx, start, end)

	req := Request{
		Message:   message,
		Snapshot:  snap,
		Meta:      meta,
		Signature: e.session.Signature(ctx),
	}

	e.state = stateSentRetry
	retry, err := e.session.client.Ask(ctx, req)
	if err != nil {
		return e.fail("network", err)
	}

	switch retry.Type {
	case TypeAnswerNow, TypeRecommendation, "":
		e.state = stateDone
		return replyOr(retry.Reply, ReplyFallback)

	case TypeRequestSnapshot, TypeRequestSnapshotBatch:
		e.state = stateErr
		log.Printf("coach: protocol violation: snapshot requested twice (session %s)", e.session.id)
		return ReplyInternalError

	default:
		return e.violation("unrecognized response type %q on retry", string(retry.Type))
	}
}

// retryBatch builds the two requested snapshots concurrently and resends
// once with the pair attached. The left snapshot doubles as the primary.
func (e *exchange) retryBatch(ctx context.Context, message string, resp *Response) string {
	if resp.Snapshots == nil || resp.Meta == nil {
		return e.violation("snapshot batch requested without ranges or meta")
	}

	var left, right snapshot.Snapshot
	var buildErr error

	if resp.Meta[MetaPeriodContext] == "YEAR" {
		leftYear, lerr := periodYear(resp.Snapshots.Left)
		rightYear, rerr := periodYear(resp.Snapshots.Right)
		if lerr != nil || rerr != nil {
			return e.violation("snapshot batch with bad year periods: %v / %v", lerr, rerr)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); left = e.session.builder.BuildYear(ctx, leftYear) }()
		go func() { defer wg.Done(); right = e.session.builder.BuildYear(ctx, rightYear) }()
		wg.Wait()
	} else {
		leftStart, leftEnd, lerr := parsePeriod(resp.Snapshots.Left)
		rightStart, rightEnd, rerr := parsePeriod(resp.Snapshots.Right)
		if lerr != nil {
			buildErr = lerr
		} else if rerr != nil {
			buildErr = rerr
		}
		if buildErr != nil {
			return e.violation("snapshot batch with bad periods: %v", buildErr)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); left = e.session.builder.Build(ctx, leftStart, leftEnd) }()
		go func() { defer wg.Done(); right = e.session.builder.Build(ctx, rightStart, rightEnd) }()
		wg.Wait()
	}

	req := Request{
		Message:   message,
		Snapshot:  left,
		Snapshots: &SnapshotPair{Left: left, Right: right},
		Meta:      e.meta(resp.Meta),
		Signature: e.session.Signature(ctx),
	}

	e.state = stateSentRetry
	retry, err := e.session.client.Ask(ctx, req)
	if err != nil {
		return e.fail("network", err)
	}

	switch retry.Type {
	case TypeAnswerNow, TypeRecommendation, "":
		e.state = stateDone
		return replyOr(retry.Reply, ReplyComparisonFallback)

	case TypeRequestSnapshot, TypeRequestSnapshotBatch:
		e.state = stateErr
		log.Printf("coach: protocol violation: snapshot requested twice (session %s)", e.session.id)
		return ReplyInternalError

	default:
		return e.violation("unrecognized response type %q on retry", string(retry.Type))
	}
}

// meta merges the service's echoed meta (if any) under the session id, which
// every outbound request carries.
func (e *exchange) meta(echoed map[string]string) map[string]string {
	merged := make(map[string]string, len(echoed)+1)
	for k, v := range echoed {
		merged[k] = v
	}
	merged[MetaSessionID] = e.session.id
	return merged
}

func (e *exchange) fail(kind string, err error) string {
	e.state = stateErr
	log.Printf("coach: %s failure (session %s): %v", kind, e.session.id, err)
	return ReplyUnavailable
}

func (e *exchange) violation(format string, args ...any) string {
	e.state = stateErr
	log.Printf("coach: protocol violation (session %s): %s", e.session.id, fmt.Sprintf(format, args...))
	return ReplyUnrecognized
}

func replyOr(reply, fallback string) string {
	if reply == "" {
		return fallback
	}
	return reply
}

// parsePeriod parses the wire period's yyyy-MM-dd boundaries.
func parsePeriod(p snapshot.Period) (start, end time.Time, err error) {
	start, err = time.ParseInLocation(snapshot.DateLayout, p.Start, time.Local)
	if err != nil {
		return
	}
	end, err = time.ParseInLocation(snapshot.DateLayout, p.End, time.Local)
	return
}

// periodYear extracts the calendar year of a period's start date.
func periodYear(p snapshot.Period) (int, error) {
	start, err := time.ParseInLocation(snapshot.DateLayout, p.Start, time.Local)
	if err != nil {
		return 0, err
	}
	return start.Year(), nil
}

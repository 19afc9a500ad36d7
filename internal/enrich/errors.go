package enrich

import (
	"errors"
	"fmt"

	"github.com/sells-group/leadgen-cli/pkg/clearbit"
	"github.com/sells-group/leadgen-cli/pkg/fullcontact"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/mailboxlayer"
	"github.com/sells-group/leadgen-cli/pkg/twiliolookup"
)

// ErrorKind classifies enrichment stage failures.
type ErrorKind string

const (
	KindAPIUnavailable ErrorKind = "api_unavailable"
	KindRateLimited    ErrorKind = "rate_limited"
	KindInvalidData    ErrorKind = "invalid_data"
)

// EnrichmentError is a typed per-stage failure. Enrichment always fails
// open, so these surface only in stage reports and logs.
type EnrichmentError struct {
	Stage string
	Kind  ErrorKind
	Err   error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich %s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// classify maps a client error onto the enrichment taxonomy. Rate-limit
// responses are distinguished so operators can tell quota exhaustion from
// outages.
func classify(stage string, err error) *EnrichmentError {
	kind := KindAPIUnavailable
	if code, ok := statusCodeOf(err); ok && code == 429 {
		kind = KindRateLimited
	}
	return &EnrichmentError{Stage: stage, Kind: kind, Err: err}
}

func statusCodeOf(err error) (int, bool) {
	var (
		he *hunter.StatusError
		me *mailboxlayer.StatusError
		ce *clearbit.StatusError
		fe *fullcontact.StatusError
		te *twiliolookup.StatusError
	)
	switch {
	case errors.As(err, &he):
		return he.StatusCode, true
	case errors.As(err, &me):
		return me.StatusCode, true
	case errors.As(err, &ce):
		return ce.StatusCode, true
	case errors.As(err, &fe):
		return fe.StatusCode, true
	case errors.As(err, &te):
		return te.StatusCode, true
	}
	return 0, false
}

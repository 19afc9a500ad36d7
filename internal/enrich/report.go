package enrich

// StageOutcome records what one enrichment stage did to a lead.
type StageOutcome string

const (
	// OutcomeApplied means the stage changed the lead.
	OutcomeApplied StageOutcome = "applied"
	// OutcomeSkipped means the stage had nothing to do: missing input,
	// disabled collaborator, or no matching data.
	OutcomeSkipped StageOutcome = "skipped"
	// OutcomeFailed means the stage errored and the lead kept its prior
	// values for that field.
	OutcomeFailed StageOutcome = "failed"
)

// StageResult is one entry in a lead's enrichment report.
type StageResult struct {
	Stage   string
	Outcome StageOutcome
	Err     error
}

// Report lists, in execution order, what each stage did. Failures never
// propagate to the caller; the report is how they stay observable.
type Report struct {
	Stages []StageResult
}

func (r *Report) applied(stage string) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Outcome: OutcomeApplied})
}

func (r *Report) skipped(stage string) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Outcome: OutcomeSkipped})
}

func (r *Report) failed(stage string, err error) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Outcome: OutcomeFailed, Err: err})
}

// Outcome returns the recorded outcome for a stage name, or ok=false if the
// stage never ran.
func (r *Report) Outcome(stage string) (StageOutcome, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s.Outcome, true
		}
	}
	return "", false
}

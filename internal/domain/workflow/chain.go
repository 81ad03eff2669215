package workflow

// ChainResolver computes the ordered approval stages an invoice walks
// through, based on the construction site's configuration.
//
// The default chain is supervisor → department manager → accounting →
// executive. Sites without an assigned supervisor skip the supervisor
// stage. The re-entry stage after a correction cycle is a fixed business
// rule, not derived from where in the chain the return originated:
// earlier approvers already signed off on the uncorrected content, so a
// corrected invoice resumes at the accounting stage.
type ChainResolver struct{}

// NewChainResolver creates a new ChainResolver
func NewChainResolver() *ChainResolver {
	return &ChainResolver{}
}

// Stages returns the ordered approval stages for a site
func (r *ChainResolver) Stages(hasSupervisor bool) []State {
	if hasSupervisor {
		return []State{
			StateSupervisorReview,
			StateManagerReview,
			StateFinalReview,
			StateExecutiveReview,
		}
	}
	return []State{
		StateManagerReview,
		StateFinalReview,
		StateExecutiveReview,
	}
}

// EntryStage returns the first stage a freshly submitted invoice lands in
func (r *ChainResolver) EntryStage(hasSupervisor bool) State {
	return r.Stages(hasSupervisor)[0]
}

// ReentryStage returns the stage a returned-and-acknowledged invoice
// resumes review at. Always the accounting stage.
func (r *ChainResolver) ReentryStage() State {
	return StateFinalReview
}

// NextStage returns the stage following current in the given chain.
// The second return is false when current is the chain's last stage.
func (r *ChainResolver) NextStage(stages []State, current State) (State, bool) {
	for i, s := range stages {
		if s == current && i+1 < len(stages) {
			return stages[i+1], true
		}
	}
	return "", false
}

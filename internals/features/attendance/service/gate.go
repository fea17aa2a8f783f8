package service

// FeedbackGate: check-out hanya boleh setelah feedback sesi ini terkirim.
type FeedbackGate struct {
	submitted bool
}

func (g *FeedbackGate) IsSatisfied() bool { return g.submitted }
func (g *FeedbackGate) Satisfy()          { g.submitted = true }
func (g *FeedbackGate) Reset()            { g.submitted = false }

package mcts

// Default search parameters, tuned for 2-player games with moderate
// branching factors. The exploration constant is close to sqrt(2),
// it has to be tuned for each problem.
const (
	DefaultExplorationParam  float64 = 1.40
	DefaultWideningConstant  float64 = 2.0
	DefaultWideningExponent  float64 = 0.5
	DefaultCutoffDepth       int     = 20
	DefaultInitialThreshold  float64 = 0.8
	DefaultDecayRate         float64 = 0.95
	DefaultCutoffLowerBound  float64 = 0.05
	DefaultCutoffUpperBound  float64 = 0.95
)

// Params bundle every numeric knob of the engine. Plain values, no
// environment or flag parsing here - the embedding application owns that.
type Params struct {
	// UCB1 exploration constant, higher values increase exploration,
	// lower values increase exploitation
	ExplorationParam float64

	// Progressive widening bound: floor(C * visits^alpha)
	WideningConstant float64
	WideningExponent float64

	// Rollout depth after which the cutoff simulation policies stop
	CutoffDepth int

	// Decaying score gate of the heuristic widening policy:
	// threshold(visits) = InitialThreshold * DecayRate^visits
	InitialThreshold float64
	DecayRate        float64

	// Confidence band of the depth-or-band cutoff policy, the rollout
	// stops once the heuristic value leaves (LowerBound, UpperBound)
	CutoffLowerBound float64
	CutoffUpperBound float64
}

func DefaultParams() *Params {
	return &Params{
		ExplorationParam: DefaultExplorationParam,
		WideningConstant: DefaultWideningConstant,
		WideningExponent: DefaultWideningExponent,
		CutoffDepth:      DefaultCutoffDepth,
		InitialThreshold: DefaultInitialThreshold,
		DecayRate:        DefaultDecayRate,
		CutoffLowerBound: DefaultCutoffLowerBound,
		CutoffUpperBound: DefaultCutoffUpperBound,
	}
}

// Set the exploration constant used in the UCB1 formula
func (p *Params) SetExplorationParam(c float64) *Params {
	p.ExplorationParam = max(0.0, c)
	return p
}

// Set the progressive widening bound parameters
func (p *Params) SetWidening(constant, exponent float64) *Params {
	p.WideningConstant = constant
	p.WideningExponent = exponent
	return p
}

// Set the rollout depth cutoff
func (p *Params) SetCutoffDepth(depth int) *Params {
	p.CutoffDepth = max(1, depth)
	return p
}

// Set the heuristic widening score gate
func (p *Params) SetThreshold(initial, decay float64) *Params {
	p.InitialThreshold = initial
	p.DecayRate = decay
	return p
}

// Set the confidence band of the depth-or-band cutoff policy
func (p *Params) SetCutoffBounds(lower, upper float64) *Params {
	p.CutoffLowerBound = lower
	p.CutoffUpperBound = upper
	return p
}

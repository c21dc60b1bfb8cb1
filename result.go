package fractal

// Convergence classifies how an orbit ended.
type Convergence string

const (
	Escaped    Convergence = "escaped"
	ReachedMax Convergence = "max_iterations"
	Converged  Convergence = "converged"
)

// IterationResult is the outcome of iterating a single point.
type IterationResult struct {
	Iterations  int            `json:"iterations"`
	Escaped     bool           `json:"escaped"`
	Final       Point          `json:"final"`
	Convergence Convergence    `json:"convergenceType"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// OnBoundary is a sampling heuristic: points that survive more than half of
// maxIterations but still escape are treated as lying near the set boundary.
func (r IterationResult) OnBoundary(maxIterations int) bool {
	if maxIterations <= 0 {
		return false
	}
	return float64(r.Iterations) > 0.5*float64(maxIterations) && r.Iterations < maxIterations
}

// escapeTime iterates z -> step(z) starting at z0. The escape test runs before
// each step, so at most maxIterations steps are taken.
func escapeTime(z0 complex128, maxIterations int, escapeRadius float64, step func(complex128) complex128) IterationResult {
	limit := escapeRadius * escapeRadius
	z := z0
	for i := 0; i < maxIterations; i++ {
		if real(z)*real(z)+imag(z)*imag(z) > limit {
			return IterationResult{
				Iterations:  i,
				Escaped:     true,
				Final:       pointOf(z),
				Convergence: Escaped,
			}
		}
		z = step(z)
	}
	return IterationResult{
		Iterations:  max(maxIterations, 0),
		Final:       pointOf(z),
		Convergence: ReachedMax,
	}
}

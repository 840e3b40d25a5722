package core

// ProgressFunc reports fractional progress on a long-running operation.
// fraction is in [0, 1]; description is a short human-readable label for
// the current stage ("junctions", "splitting ways", "writing", ...).
type ProgressFunc func(description string, fraction float64)

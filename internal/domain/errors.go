package domain

import "errors"

// Strategy error taxonomy. Callers match with errors.Is; every failure path
// carries one of these so rejections and fallbacks stay observable.
var (
	// ErrInsufficientHistory means an instrument's price series covers too
	// little of the required lookback. Per-instrument: skip and continue.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrNoValidCandidates means every instrument in the universe failed
	// scoring. The period's run aborts with no order.
	ErrNoValidCandidates = errors.New("no valid candidates")

	// ErrPriceUnavailable means the current price for the selected
	// instrument could not be obtained. The run aborts for this period.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrAllocationExceeded means a proposed trade's notional exceeds the
	// per-period allocation beyond tolerance. The order is dropped; no
	// state mutation.
	ErrAllocationExceeded = errors.New("trade exceeds period allocation")

	// ErrRiskGateRejected means the risk gate vetoed the trade. The order
	// is dropped; no state mutation.
	ErrRiskGateRejected = errors.New("risk gate rejected trade")

	// ErrCollaboratorUnavailable wraps failures reaching an external
	// collaborator where the failure cannot be absorbed locally.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

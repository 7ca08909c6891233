// README: Planning call stages and the transitions allowed between them.
package service

import "fmt"

// Stage is the state of a single Plan call.
type Stage string

const (
	StageReceived   Stage = "received"
	StageValidating Stage = "validating"
	StageCompiling  Stage = "compiling"
	StageInvoking   Stage = "invoking"
	StageAssembling Stage = "assembling"
	StageCompleted  Stage = "completed"
	StageFailed     Stage = "failed"
)

// allowedTransitions represents the planning flow as code. Every working
// stage may fail; Completed and Failed are terminal.
var allowedTransitions = map[Stage][]Stage{
	StageReceived:   {StageValidating, StageFailed},
	StageValidating: {StageCompiling, StageFailed},
	StageCompiling:  {StageInvoking, StageFailed},
	StageInvoking:   {StageAssembling, StageFailed},
	StageAssembling: {StageCompleted, StageFailed},
}

func canTransition(from, to Stage) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// run tracks one Plan call. It remembers the last working stage so a
// failure can be attributed.
type run struct {
	stage  Stage
	active Stage
}

func newRun() *run {
	return &run{stage: StageReceived, active: StageReceived}
}

func (r *run) advance(to Stage) {
	if !canTransition(r.stage, to) {
		panic(fmt.Sprintf("planner: invalid transition %s -> %s", r.stage, to))
	}
	r.stage = to
	if !to.Terminal() {
		r.active = to
	}
}

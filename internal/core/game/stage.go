package game

import "fmt"

// Stage is the phase of the game lifecycle. Stages only move forward and
// end back at StageUnloaded.
type Stage int32

const (
	StageUnloaded Stage = iota
	StageInitialization
	StageLoading
	StageStarting
	StageRenderLoop
	StageUnloading
)

func (s Stage) String() string {
	switch s {
	case StageUnloaded:
		return "unloaded"
	case StageInitialization:
		return "initialization"
	case StageLoading:
		return "loading"
	case StageStarting:
		return "starting"
	case StageRenderLoop:
		return "render_loop"
	case StageUnloading:
		return "unloading"
	default:
		return fmt.Sprintf("stage(%d)", int32(s))
	}
}

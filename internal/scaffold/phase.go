package scaffold

import "fmt"

// Phase is one step of the materialization pipeline.
type Phase string

const (
	PhasePending        Phase = "pending" // nothing has run yet
	PhaseDirectoryCheck Phase = "directory-check"
	PhaseScaffold       Phase = "scaffold"
	PhaseInstallDeps    Phase = "install-deps"
	PhaseWriteStubs     Phase = "write-stubs"
	PhaseInstallCSS     Phase = "install-css-framework"
	PhaseLinter         Phase = "configure-linter"
	PhaseInitGit        Phase = "init-git"
	PhaseDone           Phase = "done"
	PhaseFailed         Phase = "failed"
)

// Title is the short description shown next to the spinner.
func (p Phase) Title() string {
	switch p {
	case PhaseDirectoryCheck:
		return "Checking project directory"
	case PhaseScaffold:
		return "Creating project"
	case PhaseInstallDeps:
		return "Installing dependencies"
	case PhaseWriteStubs:
		return "Writing starter files"
	case PhaseInstallCSS:
		return "Installing Tailwind CSS"
	case PhaseLinter:
		return "Configuring linter"
	case PhaseInitGit:
		return "Initializing git repository"
	case PhaseDone:
		return "Done"
	case PhaseFailed:
		return "Failed"
	default:
		return string(p)
	}
}

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// validTransitions is the allow-list of phase moves. Optional phases may be
// skipped but the order never goes backwards.
var validTransitions = map[Phase]map[Phase]bool{
	PhasePending: {
		PhaseDirectoryCheck: true,
	},
	PhaseDirectoryCheck: {
		PhaseScaffold: true,
		PhaseFailed:   true,
	},
	PhaseScaffold: {
		PhaseInstallDeps: true,
		PhaseFailed:      true,
	},
	PhaseInstallDeps: {
		PhaseWriteStubs: true,
		PhaseFailed:     true,
	},
	PhaseWriteStubs: {
		PhaseInstallCSS: true,
		PhaseLinter:     true,
		PhaseInitGit:    true,
		PhaseDone:       true,
		PhaseFailed:     true,
	},
	PhaseInstallCSS: {
		PhaseLinter:  true,
		PhaseInitGit: true,
		PhaseDone:    true,
		PhaseFailed:  true,
	},
	PhaseLinter: {
		PhaseInitGit: true,
		PhaseDone:    true,
		PhaseFailed:  true,
	},
	PhaseInitGit: {
		PhaseDone:   true,
		PhaseFailed: true,
	},
}

// Transition validates whether a phase transition from → to is allowed.
func Transition(from, to Phase) error {
	if targets, ok := validTransitions[from]; ok {
		if targets[to] {
			return nil
		}
	}
	return fmt.Errorf("invalid phase transition: %s → %s", from, to)
}

// tracker records the active phase and every phase entered so far.
type tracker struct {
	current Phase
	history []Phase
}

func newTracker() *tracker {
	return &tracker{current: PhasePending}
}

func (t *tracker) advance(to Phase) error {
	if err := Transition(t.current, to); err != nil {
		return err
	}
	t.current = to
	t.history = append(t.history, to)
	return nil
}

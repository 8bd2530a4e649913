// Package display renders vitetail's terminal output: the banner, a
// spinner per pipeline phase and the final status boxes.
package display

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/jywlabs/vitetail/internal/executor"
	"github.com/jywlabs/vitetail/internal/scaffold"
)

// Spinner frames using braille characters
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Flusher is an optional interface for writers that support flushing.
type Flusher interface {
	Sync() error
}

// Display handles terminal output with spinners and formatted status. It
// implements scaffold.Reporter.
type Display struct {
	out         io.Writer
	interactive bool

	mu       sync.Mutex
	spinMu   sync.Mutex // separate mutex for spinner to avoid deadlock
	spinning bool
	spinStop chan struct{}
	spinDone chan struct{}
	spinMsg  string

	start      time.Time
	phaseStart time.Time
}

var _ scaffold.Reporter = (*Display)(nil)

// NewDisplay creates a display writing to out. Animation is enabled only
// when out is a terminal.
func NewDisplay(out io.Writer) *Display {
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = term.IsTerminal(f.Fd())
	}
	now := time.Now()
	return &Display{
		out:         out,
		interactive: interactive,
		start:       now,
		phaseStart:  now,
	}
}

// flush attempts to flush the output if it supports it.
func (d *Display) flush() {
	if f, ok := d.out.(Flusher); ok {
		f.Sync()
	}
}

// StartSpinner begins the loading spinner with a message. Without a
// terminal it prints the message once.
func (d *Display) StartSpinner(msg string) {
	d.spinMu.Lock()
	if d.spinning {
		d.spinMu.Unlock()
		return
	}
	if !d.interactive {
		d.spinMu.Unlock()
		fmt.Fprintf(d.out, "   %s %s...\n", StyleMuted.Render("▶"), msg)
		return
	}
	d.spinning = true
	d.spinMsg = msg
	d.spinStop = make(chan struct{})
	d.spinDone = make(chan struct{})
	d.spinMu.Unlock()

	go func() {
		defer close(d.spinDone)
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-d.spinStop:
				fmt.Fprint(d.out, "\r\033[K")
				d.flush()
				return
			case <-ticker.C:
				elapsed := formatElapsed(time.Since(d.phaseStart))
				fmt.Fprintf(d.out, "\r\033[K   %s %s %s",
					StyleAccent.Render(spinnerFrames[frame]), d.spinMsg, StyleMuted.Render("("+elapsed+")"))
				d.flush()
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// StopSpinner stops the loading spinner.
func (d *Display) StopSpinner() {
	d.spinMu.Lock()
	if !d.spinning {
		d.spinMu.Unlock()
		return
	}
	d.spinning = false
	close(d.spinStop)
	d.spinMu.Unlock()
	<-d.spinDone
}

// PhaseStarted starts the spinner for phase.
func (d *Display) PhaseStarted(phase scaffold.Phase) {
	d.mu.Lock()
	d.phaseStart = time.Now()
	d.mu.Unlock()
	d.StartSpinner(phase.Title())
}

// PhaseFinished replaces the spinner with a check mark.
func (d *Display) PhaseFinished(phase scaffold.Phase) {
	d.StopSpinner()
	d.mu.Lock()
	defer d.mu.Unlock()
	elapsed := time.Since(d.phaseStart)
	fmt.Fprintf(d.out, "   %s %s %s\n", StyleSuccess.Render("✓"), phase.Title(), StyleMuted.Render(formatDuration(elapsed)))
}

// PhaseFailed replaces the spinner with a cross. The error itself is shown
// by ShowError.
func (d *Display) PhaseFailed(phase scaffold.Phase, err error) {
	d.StopSpinner()
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "   %s %s\n", StyleError.Render("✗"), phase.Title())
}

// Warn prints a non-fatal warning between phase lines.
func (d *Display) Warn(msg string) {
	d.spinMu.Lock()
	spinning := d.spinning
	d.spinMu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if spinning {
		fmt.Fprint(d.out, "\r\033[K")
	}
	fmt.Fprintf(d.out, "   %s %s\n", StyleWarning.Render("!"), msg)
}

// Summary is what the success box reports.
type Summary struct {
	Name           string
	Dir            string
	PackageManager string
	Warnings       int
}

// ShowSuccess displays the success box with next steps.
func (d *Display) ShowSuccess(s Summary) {
	d.StopSpinner()
	elapsed := time.Since(d.start).Round(time.Second)

	var b strings.Builder
	b.WriteString(StyleSuccess.Render("Project created successfully! 🚀"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", StyleMuted.Render("Location:"), s.Dir)
	fmt.Fprintf(&b, "%s %s\n", StyleMuted.Render("Took:"), elapsed)
	if s.Warnings > 0 {
		fmt.Fprintf(&b, "%s %d\n", StyleMuted.Render("Warnings:"), s.Warnings)
	}
	b.WriteString("\n")
	b.WriteString(StyleBold.Render("Next steps:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  cd %s\n", s.Name)
	fmt.Fprintf(&b, "  %s", runScript(s.PackageManager, "dev"))

	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, SuccessBox().Render(b.String()))
}

// ShowError displays err in an error box, including captured stderr when
// a command failed.
func (d *Display) ShowError(err error) {
	d.StopSpinner()

	var b strings.Builder
	b.WriteString(StyleError.Render("Project creation failed"))
	b.WriteString("\n\n")

	var cmdErr *executor.CommandError
	if errors.As(err, &cmdErr) {
		var phaseErr *scaffold.PhaseError
		if errors.As(err, &phaseErr) {
			fmt.Fprintf(&b, "%s %s\n", StyleMuted.Render("Phase:"), phaseErr.Phase)
		}
		fmt.Fprintf(&b, "%s %s\n", StyleMuted.Render("Command:"), cmdErr.Command)
		if cmdErr.ExitCode >= 0 {
			fmt.Fprintf(&b, "%s %d\n", StyleMuted.Render("Exit code:"), cmdErr.ExitCode)
		} else if cmdErr.Err != nil {
			fmt.Fprintf(&b, "%s %v\n", StyleMuted.Render("Error:"), cmdErr.Err)
		}
		if stderr := strings.TrimSpace(cmdErr.Stderr); stderr != "" {
			b.WriteString("\n")
			b.WriteString(stderr)
		}
	} else {
		b.WriteString(err.Error())
	}

	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, ErrorBox().Render(strings.TrimRight(b.String(), "\n")))
}

// runScript returns how the package manager runs a package.json script.
func runScript(pm, script string) string {
	switch pm {
	case "", "npm":
		return "npm run " + script
	default:
		return pm + " " + script
	}
}

// formatElapsed formats duration with fixed width (always 6 chars like " 1.04s")
func formatElapsed(d time.Duration) string {
	secs := d.Seconds()
	if secs < 10 {
		return fmt.Sprintf("%5.2fs", secs)
	} else if secs < 100 {
		return fmt.Sprintf("%5.1fs", secs)
	}
	return fmt.Sprintf("%5.0fs", secs)
}

// formatDuration is the compact form used once a phase has finished.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}

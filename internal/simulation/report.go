package simulation

import (
	"fmt"
	"io"

	"flyer/internal/common"
)

// PrintState writes a human-readable summary of the world to out.
func (w *World) PrintState(out io.Writer) {
	fmt.Fprintln(out, "--- World State ---")
	fmt.Fprintf(out, "Time: %.2fs, steps: %d, timestep: %.3fs\n", w.time, w.steps, w.timestep)
	b := w.boundary
	fmt.Fprintf(out, "Boundary: %s - %s\n", common.FormatVec(b.Min), common.FormatVec(b.Max))
	fmt.Fprintf(out, "Objects: %d (timer1: %d)\n", len(w.allObjects), len(w.timer1Objects))
	for _, n := range objectTypeNames {
		if count := len(w.objects[n.t]); count > 0 {
			fmt.Fprintf(out, "  %-13s %d\n", n.name+":", count)
		}
	}
	if w.playerPlane != nil {
		fmt.Fprintf(out, "Player: %s\n", common.FormatVec(w.playerPlane.Bounds().Center()))
	} else {
		fmt.Fprintln(out, "Player: none")
	}
	fmt.Fprintln(out, "-------------------")
}

// Run advances the world by steps steps of dt seconds, stopping at the
// first error.
func (w *World) Run(steps int, dt float64) error {
	for i := 0; i < steps; i++ {
		if err := w.Simulate(dt); err != nil {
			return fmt.Errorf("step %d: %w", w.steps+1, err)
		}
	}
	return nil
}

package harness

import (
	"fmt"
	"io"

	"github.com/ezrec/up8/proc"
)

// Trace writes one line per clock cycle to an output stream. A nil Output
// discards the trace.
type Trace struct {
	Output io.Writer
}

// Capture records the outcome of one clock edge.
func (tr *Trace) Capture(cycle int, st *proc.Stimulus, p *proc.Proc) (err error) {
	if tr.Output == nil {
		return
	}

	for _, poke := range st.Pokes {
		_, err = fmt.Fprintf(tr.Output, "%4d: poke m%d %02X\n", cycle, poke.Cell, poke.Value)
		if err != nil {
			return
		}
	}

	if st.Reset {
		_, err = fmt.Fprintf(tr.Output, "%4d: reset\n", cycle)
		return
	}

	_, err = fmt.Fprintf(tr.Output, "%4d: %-11v res=%02X pc=%d\n",
		cycle, st.Code, p.Result, p.Pc)

	return
}

// Dump writes the full engine state snapshot to an output stream.
func (tr *Trace) Dump(w io.Writer, p *proc.Proc) (err error) {
	_, err = fmt.Fprintf(w, "%v", p.String())
	return
}

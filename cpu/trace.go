package cpu

import (
	"fmt"
	"strings"
)

// Trace is a read-only snapshot of the CPU taken before an instruction fetch.
type Trace struct {
	Pc       int             // Address of the instruction about to run.
	Bytes    []byte          // Up to three bytes of memory at Pc.
	Register [REG_COUNT]byte // r0-r7.
	Fl       Flags           // Flags register.
}

// String formats the trace as a single line:
//
//	TRACE: PC | B0 B1 B2 | R0 R1 R2 R3 R4 R5 R6 R7
func (trace Trace) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TRACE: %02X %v |", trace.Pc, trace.Fl)
	for n := range 3 {
		if n < len(trace.Bytes) {
			fmt.Fprintf(&sb, " %02X", trace.Bytes[n])
		} else {
			sb.WriteString(" --")
		}
	}
	sb.WriteString(" |")
	for _, value := range trace.Register {
		fmt.Fprintf(&sb, " %02X", value)
	}

	return sb.String()
}

// Tracer observes the CPU between instructions.
type Tracer interface {
	Trace(trace Trace)
}

// TracerFunc adapts a function to a Tracer.
type TracerFunc func(trace Trace)

func (tf TracerFunc) Trace(trace Trace) {
	tf(trace)
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/xelez/srun2/internal/humanize"
	"github.com/xelez/srun2/internal/process"
)

func printReport(proc *process.Process, human bool) {
	if human {
		printHumanReport(proc)
		return
	}
	fmt.Fprintf(os.Stderr, "SRUN_REPORT: %s %d %d %d %d %d %s\n",
		proc.Stats.Result.String(), int(proc.Stats.Result),
		proc.Stats.CPUMillis, proc.Stats.WallMillis, proc.Stats.PeakMemKB,
		proc.Stats.Status, statusTail(proc.Stats.Status))
}

func printHumanReport(proc *process.Process) {
	fmt.Fprintf(os.Stderr, "Result: %s\n", proc.Stats.Result.String())
	fmt.Fprintf(os.Stderr, "Time: %d ms\n", proc.Stats.CPUMillis)
	fmt.Fprintf(os.Stderr, "Real Time: %d ms\n", proc.Stats.WallMillis)
	fmt.Fprintf(os.Stderr, "Memory: %s\n", humanize.Bytes(uint64(proc.Stats.PeakMemKB)*1024).String())
	fmt.Fprintf(os.Stderr, "Status: %s\n", statusPhrase(proc.Stats.Status))
}

func statusTail(raw int) string {
	ws := syscall.WaitStatus(raw)
	if ws.Exited() {
		return strconv.Itoa(ws.ExitStatus())
	}
	if ws.Signaled() {
		return ws.Signal().String()
	}
	return "?"
}

func statusPhrase(raw int) string {
	ws := syscall.WaitStatus(raw)
	switch {
	case ws.Exited():
		return fmt.Sprintf("exited, status=%d", ws.ExitStatus())
	case ws.Signaled():
		sig := ws.Signal()
		return fmt.Sprintf("killed by signal %d = %s", int(sig), sig.String())
	case ws.Stopped():
		return fmt.Sprintf("stopped by signal %d", int(ws.StopSignal()))
	case ws.Continued():
		return "continued"
	default:
		return "unknown"
	}
}

// Package procstat reads /proc/<pid> to sample a running child's CPU time
// and peak memory: the same "find the last ')' in the stat line"
// comm-parsing trick and VmHWM substring search used elsewhere for reading
// process utilization, narrowed to the supervisor's two-field need (CPU ms,
// peak RSS kB).
package procstat

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// readBufSize bounds each read into a fixed-size buffer. Longer stat/status
// lines are truncated; this is a known limitation, not a bug to fix without
// a policy decision about how much of /proc to trust.
const readBufSize = 512

// clockTicksPerSec is CLK_TCK, the kernel's reporting granularity for
// /proc/<pid>/stat's utime/stime fields. 100 is the near-universal value on
// Linux; there is no portable way to query it without cgo, so it is a
// constant here rather than a sysconf call.
const clockTicksPerSec = 100

// readOnce opens filename, issues exactly one Read into a fixed-size buffer,
// and returns the bytes actually read. This must be a single read to avoid
// the well-known /proc partial-consistency issue: the kernel guarantees a
// consistent snapshot only within one read(2) call. Best-effort: a missing
// or unreadable file (child already reaped) returns an empty slice, not an
// error — the caller treats that as "0".
func readOnce(filename string) []byte {
	f, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer f.Close()

	buf := make([]byte, readBufSize)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return nil
	}
	return buf[:n]
}

// CPUMillis returns the child's user+system CPU time in milliseconds, read
// from /proc/<pid>/stat. Best-effort: returns 0 if the file is gone.
func CPUMillis(pid int) int64 {
	buf := readOnce(fmt.Sprintf("/proc/%d/stat", pid))
	if buf == nil {
		return 0
	}
	utime, stime, ok := parseStatTimes(buf)
	if !ok {
		return 0
	}
	return int64((utime + stime) * 1000 / clockTicksPerSec)
}

// parseStatTimes extracts utime and stime from a /proc/<pid>/stat line.
//
// Rather than blindly skipping 13 whitespace-delimited tokens (which breaks
// if comm contains spaces or parens), this locates the last ")" in the line
// and tokenizes only what follows: comm is always field 2, always
// parenthesized, and the kernel itself guarantees it is the *last* "(...)"
// group if the process name happens to contain parens. Fields after comm
// are, in order: state, ppid, pgrp, session, tty_nr, tpgid, flags, minflt,
// cminflt, majflt, cmajflt, utime, stime — so utime/stime are tokens 11 and
// 12 (0-indexed) of what follows the closing paren.
func parseStatTimes(buf []byte) (utime, stime uint64, ok bool) {
	line := string(buf)
	i := strings.LastIndexByte(line, ')')
	if i < 0 || i+1 >= len(line) {
		return 0, 0, false
	}
	fields := strings.Fields(line[i+1:])
	if len(fields) < 13 {
		return 0, 0, false
	}
	utime, err1 := strconv.ParseUint(fields[11], 10, 64)
	stime, err2 := strconv.ParseUint(fields[12], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return utime, stime, true
}

// PeakRSSKB returns the child's high-water resident set size in kilobytes,
// read from the VmHWM line of /proc/<pid>/status. Best-effort: returns 0 if
// the file is gone or the key is absent.
func PeakRSSKB(pid int) int64 {
	buf := readOnce(fmt.Sprintf("/proc/%d/status", pid))
	if buf == nil {
		return 0
	}
	return parseVmHWM(buf)
}

func parseVmHWM(buf []byte) int64 {
	const key = "VmHWM:"
	idx := bytes.Index(buf, []byte(key))
	if idx < 0 {
		return 0
	}
	rest := strings.TrimSpace(string(buf[idx+len(key):]))
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// SchedstatNanos returns the first integer in /proc/<pid>/schedstat
// (nanoseconds of on-CPU time), the optional third C1 query noted in spec
// §4.1. Best-effort: returns 0 if unavailable.
func SchedstatNanos(pid int) int64 {
	buf := readOnce(fmt.Sprintf("/proc/%d/schedstat", pid))
	if buf == nil {
		return 0
	}
	fields := strings.Fields(string(buf))
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

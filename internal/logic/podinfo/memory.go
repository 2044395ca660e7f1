package podinfo

import (
	"runtime"

	"github.com/prometheus/procfs"
)

type runtimeMemoryReader struct{}

// ReadMemory combines Go heap statistics with the kernel's view of resident memory.
// Outside Linux, or when /proc is not mounted, rss falls back to the bytes obtained from the OS.
func (runtimeMemoryReader) ReadMemory() Memory {
	var ms runtime.MemStats

	runtime.ReadMemStats(&ms)

	mem := Memory{
		RSS:        ms.Sys,
		HeapTotal:  ms.HeapSys,
		HeapUsed:   ms.HeapAlloc,
		StackInUse: ms.StackInuse,
		Sys:        ms.Sys,
		NumGC:      ms.NumGC,
	}

	if rss, ok := residentMemory(); ok {
		mem.RSS = rss
	}

	return mem
}

func residentMemory() (uint64, bool) {
	proc, err := procfs.Self()
	if err != nil {
		return 0, false
	}

	stat, err := proc.Stat()
	if err != nil {
		return 0, false
	}

	rss := stat.ResidentMemory()
	if rss <= 0 {
		return 0, false
	}

	return uint64(rss), true
}

package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a point-in-time resource snapshot for performance reports.
type Stats struct {
	RSSBytes        uint64
	CPUPercent      float64
	Goroutines      int
	HostUsedPercent float64
}

// ProcessStats samples the current process and host memory.
func ProcessStats() (Stats, error) {
	st := Stats{Goroutines: runtime.NumGoroutine()}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return st, fmt.Errorf("open process: %w", err)
	}
	if mi, err := proc.MemoryInfo(); err == nil {
		st.RSSBytes = mi.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		st.HostUsedPercent = vm.UsedPercent
	}
	return st, nil
}

// String renders the snapshot for a report line.
func (s Stats) String() string {
	return fmt.Sprintf("RSS: %.1f MiB | CPU: %.1f%% | Goroutines: %d | Host mem: %.1f%%",
		float64(s.RSSBytes)/(1<<20), s.CPUPercent, s.Goroutines, s.HostUsedPercent)
}

// Package sysinfo samples host health for status replies.
package sysinfo

import (
	"fmt"
	"strings"
	"time"

	"github.com/distatus/battery"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Snapshot is a point-in-time sample of host resource usage.
// Battery fields are only meaningful when HasBattery is true.
type Snapshot struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64

	HasBattery     bool
	BatteryPercent float64
	Charging       bool
}

// cpuSampleInterval trades a short block for a usage figure that
// reflects current load rather than since-boot averages.
const cpuSampleInterval = 500 * time.Millisecond

// Collect samples CPU, memory, disk and battery. Individual probe
// failures zero out that field rather than failing the whole sample;
// only a fully unusable host returns an error.
func Collect() (Snapshot, error) {
	var snap Snapshot
	var failures int

	if percents, err := cpu.Percent(cpuSampleInterval, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	} else {
		failures++
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemoryPercent = vm.UsedPercent
	} else {
		failures++
	}

	if du, err := disk.Usage("/"); err == nil {
		snap.DiskPercent = du.UsedPercent
	} else {
		failures++
	}

	if bats, err := battery.GetAll(); err == nil && len(bats) > 0 {
		b := bats[0]
		if b.Full > 0 {
			snap.HasBattery = true
			snap.BatteryPercent = b.Current / b.Full * 100
			snap.Charging = b.State.Raw == battery.Charging || b.State.Raw == battery.Full
		}
	}

	if failures == 3 {
		return snap, fmt.Errorf("sysinfo: all probes failed")
	}
	return snap, nil
}

// Format renders the snapshot as the one-line status reply.
func (s Snapshot) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "System Status: CPU usage is %.1f%%, Memory usage is %.1f%%, Disk usage is %.1f%%",
		s.CPUPercent, s.MemoryPercent, s.DiskPercent)
	if s.HasBattery {
		fmt.Fprintf(&sb, ", Battery is at %.0f%%", s.BatteryPercent)
		if s.Charging {
			sb.WriteString(" and charging")
		}
	}
	return sb.String()
}

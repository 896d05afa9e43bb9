package sysinfo

import (
	"strings"
	"testing"
)

func TestFormatWithoutBattery(t *testing.T) {
	s := Snapshot{CPUPercent: 12.34, MemoryPercent: 56.7, DiskPercent: 89.1}
	got := s.Format()
	want := "System Status: CPU usage is 12.3%, Memory usage is 56.7%, Disk usage is 89.1%"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatWithBattery(t *testing.T) {
	s := Snapshot{HasBattery: true, BatteryPercent: 80, Charging: true}
	if got := s.Format(); !strings.HasSuffix(got, "Battery is at 80% and charging") {
		t.Errorf("Format() = %q", got)
	}
	s.Charging = false
	if got := s.Format(); !strings.HasSuffix(got, "Battery is at 80%") {
		t.Errorf("Format() = %q", got)
	}
}

func TestCollectSmoke(t *testing.T) {
	snap, err := Collect()
	if err != nil {
		t.Skipf("host probes unavailable: %v", err)
	}
	if snap.MemoryPercent < 0 || snap.MemoryPercent > 100 {
		t.Errorf("MemoryPercent = %f out of range", snap.MemoryPercent)
	}
}

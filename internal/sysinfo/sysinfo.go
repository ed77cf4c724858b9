// Package sysinfo captures a snapshot of the host the benchmark ran on,
// using gopsutil v4. The snapshot is printed above the comparison table and
// stored with run history records, so timings taken on different machines
// are never compared blind.
package sysinfo

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Snapshot describes the benchmarking host at run time.
type Snapshot struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelVersion   string `json:"kernel_version"`
	Arch            string `json:"arch"`
	CPUModel        string `json:"cpu_model"`
	Cores           int    `json:"cores"`
	MemoryTotal     uint64 `json:"memory_total"`
}

// Collect gathers the host snapshot. Host identity is required; CPU and
// memory details are best-effort and left zero when unavailable.
func Collect(ctx context.Context) (*Snapshot, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect host info: %w", err)
	}

	s := &Snapshot{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		Arch:            info.KernelArch,
	}

	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		s.CPUModel = cpus[0].ModelName
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		s.Cores = cores
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemoryTotal = vm.Total
	}
	return s, nil
}

// Summary renders a one-line description for the report header.
func (s *Snapshot) Summary() string {
	return fmt.Sprintf("%s (%s %s, %s, %d cores, %s, %.1f GiB RAM)",
		s.Hostname, s.Platform, s.PlatformVersion, s.Arch, s.Cores,
		s.CPUModel, float64(s.MemoryTotal)/(1<<30))
}

// internal/api/v2/health.go
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthResponse is returned by the health check endpoint
type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version,omitempty"`
	BuildDate     string            `json:"build_date,omitempty"`
	Environment   string            `json:"environment,omitempty"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Timestamp     string            `json:"timestamp"`
	Checks        map[string]string `json:"checks,omitempty"`
	System        *SystemInfo       `json:"system,omitempty"`
}

// SystemInfo carries resource usage figures for operators
type SystemInfo struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
}

// HealthCheck handles GET /api/v2/health. The store probe decides the overall
// status; resource figures are best-effort and omitted on error.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	response := HealthResponse{
		Status:      "healthy",
		Version:     c.Settings.Version,
		BuildDate:   c.Settings.BuildDate,
		Environment: environment(c.Settings.Debug),
		Timestamp:   time.Now().Format(time.RFC3339),
		Checks:      make(map[string]string),
	}
	if c.startTime != nil {
		response.UptimeSeconds = time.Since(*c.startTime).Seconds()
	}

	code := http.StatusOK
	if _, err := c.DS.GetNotifications(1, 0); err != nil {
		response.Status = "unhealthy"
		response.Checks["datastore"] = err.Error()
		code = http.StatusServiceUnavailable
	} else {
		response.Checks["datastore"] = "ok"
	}

	response.System = collectSystemInfo()

	return ctx.JSON(code, response)
}

func environment(debug bool) string {
	if debug {
		return "development"
	}
	return "production"
}

// collectSystemInfo gathers resource usage. Any probe failure drops the whole
// section rather than reporting partial numbers.
func collectSystemInfo() *SystemInfo {
	info := &SystemInfo{}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		info.CPUPercent = percents[0]
	} else {
		return nil
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil
	}
	info.MemoryPercent = vm.UsedPercent
	info.MemoryTotalMB = vm.Total / 1024 / 1024
	info.MemoryUsedMB = vm.Used / 1024 / 1024

	usage, err := disk.Usage("/")
	if err != nil {
		return nil
	}
	info.DiskPercent = usage.UsedPercent

	return info
}

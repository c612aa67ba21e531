// FILE: evewatch/src/cmd/evewatch/status.go
package main

import (
	"context"
	"time"

	"evewatch/src/internal/service"
)

// Periodically logs service status
func statusReporter(ctx context.Context, svc *service.Service, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("msg", "Panic in status reporter",
							"component", "status_reporter",
							"panic", r)
					}
				}()
				logServiceStatus(svc.GetGlobalStats())
			}()
		}
	}
}

// logServiceStatus flattens the global stats into one debug line
func logServiceStatus(stats map[string]any) {
	statusFields := []any{
		"msg", "Status report",
		"component", "status_reporter",
	}

	if uptime, ok := stats["uptime_seconds"].(int); ok {
		statusFields = append(statusFields, "uptime_seconds", uptime)
	}

	if eng, ok := stats["engine"].(map[string]any); ok {
		if queries, ok := eng["queries"].(uint64); ok {
			statusFields = append(statusFields, "queries", queries)
		}
		if loader, ok := eng["loader"].(map[string]any); ok {
			if records, ok := loader["records"].(int); ok {
				statusFields = append(statusFields, "records", records)
			}
			if loaded, ok := loader["loaded"].(bool); ok {
				statusFields = append(statusFields, "dataset_loaded", loaded)
			}
		}
	}

	if listeners, ok := stats["listeners"].(map[string]any); ok {
		if httpStats, ok := listeners["http"].(map[string]any); ok {
			if total, ok := httpStats["total_requests"].(uint64); ok {
				statusFields = append(statusFields, "http_requests", total)
			}
		}
		if tcpStats, ok := listeners["tcp"].(map[string]any); ok {
			if conns, ok := tcpStats["active_connections"].(int64); ok {
				statusFields = append(statusFields, "tcp_connections", conns)
			}
		}
	}

	logger.Debug(statusFields...)
}

// FILE: evewatch/src/internal/config/limit.go
package config

import (
	"fmt"
	"net"
	"strings"
)

// NetAccessConfig holds IP access lists and per-IP request rate limits for a listener
type NetAccessConfig struct {
	IPWhitelist []string `toml:"ip_whitelist"`
	IPBlacklist []string `toml:"ip_blacklist"`

	// Requests per second allowed per client IP, 0 disables rate limiting
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int64   `toml:"burst"`

	// Upper bound on tracked client IPs
	MaxTrackedIPs int64 `toml:"max_tracked_ips"`
}

func validateNetAccess(listener string, cfg *NetAccessConfig) error {
	if cfg == nil {
		return nil
	}

	for _, entry := range cfg.IPWhitelist {
		if !validIPEntry(entry) {
			return fmt.Errorf("%s: invalid IP whitelist entry: %s", listener, entry)
		}
	}

	for _, entry := range cfg.IPBlacklist {
		if !validIPEntry(entry) {
			return fmt.Errorf("%s: invalid IP blacklist entry: %s", listener, entry)
		}
	}

	if cfg.RequestsPerSecond < 0 {
		return fmt.Errorf("%s: requests_per_second cannot be negative", listener)
	}
	if cfg.Burst < 0 {
		return fmt.Errorf("%s: burst cannot be negative", listener)
	}
	if cfg.RequestsPerSecond > 0 && cfg.Burst == 0 {
		cfg.Burst = int64(cfg.RequestsPerSecond)
		if cfg.Burst < 1 {
			cfg.Burst = 1
		}
	}
	if cfg.MaxTrackedIPs <= 0 {
		cfg.MaxTrackedIPs = 10000
	}

	return nil
}

func validIPEntry(entry string) bool {
	cidr := entry
	if !strings.Contains(cidr, "/") {
		if net.ParseIP(cidr) != nil {
			return true
		}
		cidr = cidr + "/32"
	}
	_, _, err := net.ParseCIDR(cidr)
	return err == nil
}

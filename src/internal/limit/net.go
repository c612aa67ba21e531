// FILE: evewatch/src/internal/limit/net.go
package limit

import (
	"context"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"evewatch/src/internal/config"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// DenialReason indicates why a request was denied
type DenialReason string

const (
	ReasonAllowed        DenialReason = ""
	ReasonBlacklisted    DenialReason = "IP denied by blacklist"
	ReasonNotWhitelisted DenialReason = "IP not in whitelist"
	ReasonRateLimited    DenialReason = "Rate limit exceeded"
	ReasonInvalidIP      DenialReason = "Invalid IP address"
)

const (
	staleTimeout    = 5 * time.Minute
	cleanupInterval = 1 * time.Minute
)

// NetLimiter enforces IP access lists and per-IP request rates for one listener
type NetLimiter struct {
	config config.NetAccessConfig
	logger *log.Logger

	// IP Access Control Lists
	ipWhitelist []*net.IPNet
	ipBlacklist []*net.IPNet

	// Per-IP limiters
	ipLimiters map[string]*ipLimiter
	ipMu       sync.Mutex

	// Statistics
	totalRequests      atomic.Uint64
	blockedByBlacklist atomic.Uint64
	blockedByWhitelist atomic.Uint64
	blockedByRateLimit atomic.Uint64
	blockedByInvalidIP atomic.Uint64
	evictedIPs         atomic.Uint64

	// Lifecycle management
	ctx         context.Context
	cancel      context.CancelFunc
	cleanupDone chan struct{}
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewNetLimiter creates a limiter. Returns nil when nothing is configured;
// a nil limiter allows everything.
func NewNetLimiter(cfg *config.NetAccessConfig, logger *log.Logger) *NetLimiter {
	if cfg == nil {
		return nil
	}

	hasACL := len(cfg.IPWhitelist) > 0 || len(cfg.IPBlacklist) > 0
	hasRateLimit := cfg.RequestsPerSecond > 0
	if !hasACL && !hasRateLimit {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	l := &NetLimiter{
		config:      *cfg,
		logger:      logger,
		ipWhitelist: parseIPList(cfg.IPWhitelist, "whitelist", logger),
		ipBlacklist: parseIPList(cfg.IPBlacklist, "blacklist", logger),
		ipLimiters:  make(map[string]*ipLimiter),
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}
	if l.config.Burst < 1 {
		l.config.Burst = 1
	}
	if l.config.MaxTrackedIPs <= 0 {
		l.config.MaxTrackedIPs = 10000
	}

	if hasRateLimit {
		go l.cleanupLoop()
	} else {
		close(l.cleanupDone)
	}

	logger.Info("msg", "Net limiter initialized",
		"component", "netlimit",
		"acl_enabled", hasACL,
		"rate_limiting", hasRateLimit,
		"whitelist_rules", len(l.ipWhitelist),
		"blacklist_rules", len(l.ipBlacklist),
		"requests_per_second", cfg.RequestsPerSecond,
		"burst", l.config.Burst)

	return l
}

// parseIPList parses IP or CIDR entries, skipping invalid ones
func parseIPList(entries []string, listType string, logger *log.Logger) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				logger.Warn("msg", "Skipping invalid IP entry",
					"component", "netlimit",
					"list", listType,
					"entry", entry)
				continue
			}
			if v4 := ip.To4(); v4 != nil {
				nets = append(nets, &net.IPNet{IP: v4, Mask: net.CIDRMask(32, 32)})
			} else {
				nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)})
			}
			continue
		}

		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			logger.Warn("msg", "Skipping invalid CIDR entry",
				"component", "netlimit",
				"list", listType,
				"entry", entry,
				"error", err)
			continue
		}
		nets = append(nets, ipNet)
	}
	return nets
}

// Shutdown stops the cleanup goroutine
func (l *NetLimiter) Shutdown() {
	if l == nil {
		return
	}

	l.cancel()

	select {
	case <-l.cleanupDone:
	case <-time.After(2 * time.Second):
		l.logger.Warn("msg", "Cleanup goroutine shutdown timeout", "component", "netlimit")
	}
}

// CheckHTTP decides whether a request from remoteAddr ("host:port") may proceed
func (l *NetLimiter) CheckHTTP(remoteAddr string) (allowed bool, statusCode int, message string) {
	if l == nil {
		return true, 0, ""
	}

	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	switch reason := l.check(net.ParseIP(host)); reason {
	case ReasonAllowed:
		return true, 0, ""
	case ReasonRateLimited:
		return false, 429, string(reason)
	default:
		return false, 403, string(reason)
	}
}

// AcceptTCP reports whether a new connection from remoteAddr passes the
// access lists. Rate limiting is applied per request by CheckTCP.
func (l *NetLimiter) AcceptTCP(remoteAddr net.Addr) bool {
	if l == nil {
		return true
	}

	ip := addrIP(remoteAddr)
	if ip == nil {
		l.blockedByInvalidIP.Add(1)
		return false
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	return l.checkIPAccess(ip) == ReasonAllowed
}

// CheckTCP decides whether one request line from remoteAddr may proceed
func (l *NetLimiter) CheckTCP(remoteAddr net.Addr) DenialReason {
	if l == nil {
		return ReasonAllowed
	}
	return l.check(addrIP(remoteAddr))
}

func addrIP(remoteAddr net.Addr) net.IP {
	switch addr := remoteAddr.(type) {
	case *net.TCPAddr:
		return addr.IP
	case nil:
		return nil
	default:
		if h, _, err := net.SplitHostPort(addr.String()); err == nil {
			return net.ParseIP(h)
		}
		return nil
	}
}

func (l *NetLimiter) check(ip net.IP) DenialReason {
	l.totalRequests.Add(1)

	if ip == nil {
		l.blockedByInvalidIP.Add(1)
		return ReasonInvalidIP
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}

	if reason := l.checkIPAccess(ip); reason != ReasonAllowed {
		return reason
	}

	if l.config.RequestsPerSecond <= 0 {
		return ReasonAllowed
	}

	if !l.allow(ip.String()) {
		l.blockedByRateLimit.Add(1)
		l.logger.Debug("msg", "Request rate limited",
			"component", "netlimit",
			"ip", ip.String())
		return ReasonRateLimited
	}
	return ReasonAllowed
}

// checkIPAccess checks if an IP is allowed by ACLs; deny takes precedence
func (l *NetLimiter) checkIPAccess(ip net.IP) DenialReason {
	for _, ipNet := range l.ipBlacklist {
		if ipNet.Contains(ip) {
			l.blockedByBlacklist.Add(1)
			l.logger.Debug("msg", "IP denied by blacklist",
				"component", "netlimit",
				"ip", ip.String(),
				"rule", ipNet.String())
			return ReasonBlacklisted
		}
	}

	if len(l.ipWhitelist) > 0 {
		for _, ipNet := range l.ipWhitelist {
			if ipNet.Contains(ip) {
				return ReasonAllowed
			}
		}
		l.blockedByWhitelist.Add(1)
		l.logger.Debug("msg", "IP not in whitelist",
			"component", "netlimit",
			"ip", ip.String())
		return ReasonNotWhitelisted
	}

	return ReasonAllowed
}

func (l *NetLimiter) allow(ip string) bool {
	now := time.Now()

	l.ipMu.Lock()
	lim, exists := l.ipLimiters[ip]
	if !exists {
		if int64(len(l.ipLimiters)) >= l.config.MaxTrackedIPs {
			l.evictOldestLocked()
		}
		lim = &ipLimiter{
			limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), int(l.config.Burst)),
		}
		l.ipLimiters[ip] = lim
	}
	lim.lastSeen = now
	l.ipMu.Unlock()

	return lim.limiter.AllowN(now, 1)
}

// evictOldestLocked drops the least recently seen IP. Caller holds ipMu.
func (l *NetLimiter) evictOldestLocked() {
	var oldestIP string
	var oldest time.Time
	for ip, lim := range l.ipLimiters {
		if oldestIP == "" || lim.lastSeen.Before(oldest) {
			oldestIP, oldest = ip, lim.lastSeen
		}
	}
	if oldestIP != "" {
		delete(l.ipLimiters, oldestIP)
		l.evictedIPs.Add(1)
	}
}

// cleanup removes limiters idle longer than staleTimeout
func (l *NetLimiter) cleanup(now time.Time) int {
	l.ipMu.Lock()
	defer l.ipMu.Unlock()

	cleaned := 0
	for ip, lim := range l.ipLimiters {
		if now.Sub(lim.lastSeen) > staleTimeout {
			delete(l.ipLimiters, ip)
			cleaned++
		}
	}

	if cleaned > 0 {
		l.logger.Debug("msg", "Cleaned up stale IP limiters",
			"component", "netlimit",
			"cleaned", cleaned,
			"remaining", len(l.ipLimiters))
	}
	return cleaned
}

func (l *NetLimiter) cleanupLoop() {
	defer close(l.cleanupDone)

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case now := <-ticker.C:
			l.cleanup(now)
		}
	}
}

// GetStats returns limiter statistics
func (l *NetLimiter) GetStats() map[string]any {
	if l == nil {
		return map[string]any{"enabled": false}
	}

	l.ipMu.Lock()
	activeIPs := len(l.ipLimiters)
	l.ipMu.Unlock()

	totalBlocked := l.blockedByBlacklist.Load() +
		l.blockedByWhitelist.Load() +
		l.blockedByRateLimit.Load() +
		l.blockedByInvalidIP.Load()

	return map[string]any{
		"enabled":        true,
		"total_requests": l.totalRequests.Load(),
		"total_blocked":  totalBlocked,
		"blocked_breakdown": map[string]uint64{
			"blacklist":  l.blockedByBlacklist.Load(),
			"whitelist":  l.blockedByWhitelist.Load(),
			"rate_limit": l.blockedByRateLimit.Load(),
			"invalid_ip": l.blockedByInvalidIP.Load(),
		},
		"active_ips":  activeIPs,
		"evicted_ips": l.evictedIPs.Load(),
		"acl": map[string]int{
			"whitelist_rules": len(l.ipWhitelist),
			"blacklist_rules": len(l.ipBlacklist),
		},
		"rate_limit": map[string]any{
			"enabled":             l.config.RequestsPerSecond > 0,
			"requests_per_second": l.config.RequestsPerSecond,
			"burst":               l.config.Burst,
		},
	}
}

package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Failed login policy
const (
	loginWindow    = 10 * time.Minute
	loginThreshold = 5
	alertInterval  = time.Hour
)

// LoginMonitor counts failed basic-auth logins per IP. IPs that reach the
// threshold inside the window are locked out until their attempts age out.
type LoginMonitor struct {
	mu           sync.Mutex
	failedLogins map[string][]time.Time // IP -> failure timestamps
	alertedIPs   map[string]time.Time   // IP -> last alert time
	alerts       []SecurityAlert
	log          *zap.Logger
	now          func() time.Time
}

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time
	IP        string
	Reason    string
}

// NewLoginMonitor creates an empty monitor
func NewLoginMonitor(log *zap.Logger) *LoginMonitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginMonitor{
		failedLogins: make(map[string][]time.Time),
		alertedIPs:   make(map[string]time.Time),
		log:          log.With(zap.String("component", "login_monitor")),
		now:          time.Now,
	}
}

// recent drops attempts older than the window; called with the lock held
func (m *LoginMonitor) recent(ip string, now time.Time) []time.Time {
	windowStart := now.Add(-loginWindow)
	valid := m.failedLogins[ip][:0]
	for _, t := range m.failedLogins[ip] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		delete(m.failedLogins, ip)
		return nil
	}
	m.failedLogins[ip] = valid
	return valid
}

// TrackFailedLogin records a failed login attempt and alerts once the threshold is reached
func (m *LoginMonitor) TrackFailedLogin(ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.failedLogins[ip] = append(m.failedLogins[ip], now)
	if len(m.recent(ip, now)) >= loginThreshold {
		m.alertLocked(ip, now)
	}
}

// Blocked reports whether ip is locked out
func (m *LoginMonitor) Blocked(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recent(ip, m.now())) >= loginThreshold
}

// Reset forgets the failures of ip after a successful login
func (m *LoginMonitor) Reset(ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failedLogins, ip)
}

// alertLocked logs at most one alert per IP and interval
func (m *LoginMonitor) alertLocked(ip string, now time.Time) {
	if last, ok := m.alertedIPs[ip]; ok && now.Sub(last) < alertInterval {
		return
	}
	m.alertedIPs[ip] = now

	alert := SecurityAlert{Timestamp: now, IP: ip, Reason: "Multiple failed logins detected"}
	// newest first, keep max 100
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > 100 {
		m.alerts = m.alerts[:100]
	}
	m.log.Warn("security alert", zap.String("ip", ip), zap.String("reason", alert.Reason))
}

// RecentAlerts returns a copy of recent alerts
func (m *LoginMonitor) RecentAlerts() []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	alerts := make([]SecurityAlert, len(m.alerts))
	copy(alerts, m.alerts)
	return alerts
}

package authcore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScanSessionAnomalies runs every heuristic signal against the owner's
// session set and recent verification failures in one pass:
//
//  1. Concurrency: the active session count, reported as-is.
//  2. Location: more distinct IPs across active sessions than the
//     configured ceiling raises an impossible_travel alert.
//  3. New device: the newest session's fingerprint missing from the
//     owner's recent prior sessions raises a new_device alert.
//  4. Stale sessions: long-inactive sessions are listed, never alerted.
//  5. Brute force: enough failed verifications inside the failure window
//     raises a multiple_failures alert and places a temporary IP block on
//     the newest session's address.
//
// Alert writes, the IP block, and notifications are each independently
// best-effort: one failed write is logged and never aborts the rest of
// the scan. Concurrent scans for the same owner may observe slightly
// stale sessions and emit duplicate alerts; that is tolerated.
func (e *Engine) ScanSessionAnomalies(ctx context.Context, ownerID string) (AnomalyReport, error) {
	var report AnomalyReport

	if e == nil || e.store == nil || e.attempts == nil {
		return report, ErrEngineNotReady
	}
	if ownerID == "" {
		return report, ErrUnauthorized
	}
	e.metricInc(MetricAnomalyScan)

	active, err := e.store.ActiveSessions(ctx, ownerID)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	sortSessionsByActivity(active)

	report.SimultaneousSessions = len(active)

	// Location signal.
	ips := distinctIPs(active)
	if len(ips) > e.config.Anomaly.MaxDistinctIPs {
		report.SuspiciousLocation = true
		e.persistAlert(ctx, SecurityAlert{
			OwnerID:   ownerID,
			AlertType: AlertImpossibleTravel,
			Metadata: map[string]string{
				"ip_addresses":  strings.Join(ips, ","),
				"session_count": fmt.Sprintf("%d", len(active)),
			},
		})
	}

	// New-device signal.
	if len(active) > 0 {
		current := active[0]
		if current.DeviceHash != "" && e.isNewDevice(ctx, ownerID, current) {
			report.NewDevice = true
			e.persistAlert(ctx, SecurityAlert{
				OwnerID:   ownerID,
				AlertType: AlertNewDevice,
				Metadata: map[string]string{
					"device_hash": current.DeviceHash,
					"user_agent":  current.UserAgent,
				},
			})
		}
	}

	// Stale-session signal: listed for the caller, never alerted.
	cutoff := time.Now().Add(-e.config.Anomaly.StaleSessionAge)
	for _, sess := range active {
		if sess.LastActive.Before(cutoff) {
			report.StaleSessionIDs = append(report.StaleSessionIDs, sess.ID)
		}
	}

	// Brute-force signal.
	failures, err := e.attempts.RecentFailures(ctx, ownerID)
	if err != nil {
		logStoreFailure("read failure window", err)
	} else if failures >= e.config.Anomaly.FailureThreshold {
		report.RapidFailures = true
		e.persistAlert(ctx, SecurityAlert{
			OwnerID:   ownerID,
			AlertType: AlertMultipleFailures,
			Metadata: map[string]string{
				"failed_attempts": fmt.Sprintf("%d", failures),
				"window_seconds":  fmt.Sprintf("%d", int(e.config.Anomaly.FailureWindow.Seconds())),
			},
		})
		if len(active) > 0 && active[0].IPAddress != "" {
			if err := e.attempts.BlockIP(ctx, active[0].IPAddress); err != nil {
				logStoreFailure("block ip", err)
			} else {
				e.metricInc(MetricIPBlocked)
				e.emitAudit(ctx, auditEventIPBlocked, true, ownerID, "", active[0].IPAddress, nil, func() map[string]string {
					return map[string]string{
						"ttl_seconds": fmt.Sprintf("%d", int(e.config.Anomaly.IPBlockTTL.Seconds())),
					}
				})
			}
		}
	}

	return report, nil
}

// RecordFailedVerification feeds the brute-force window. The surrounding
// application calls this for password failures it observes; the engine's
// own MFA paths record their failures automatically.
func (e *Engine) RecordFailedVerification(ctx context.Context, ownerID string) error {
	if e == nil || e.attempts == nil {
		return ErrEngineNotReady
	}
	return e.attempts.RecordFailure(ctx, ownerID)
}

// IsIPBlocked reports whether a temporary block from a brute-force
// detection is still in force for the address.
func (e *Engine) IsIPBlocked(ctx context.Context, ip string) (bool, error) {
	if e == nil || e.attempts == nil {
		return false, ErrEngineNotReady
	}
	return e.attempts.IsIPBlocked(ctx, ip)
}

// isNewDevice compares the newest session's fingerprint against the
// owner's recent prior sessions. A read failure counts as not-new: the
// signal degrades silently rather than failing the scan.
func (e *Engine) isNewDevice(ctx context.Context, ownerID string, current Session) bool {
	recent, err := e.store.RecentSessions(ctx, ownerID, e.config.Anomaly.RecentSessionCount+1)
	if err != nil {
		logStoreFailure("list recent sessions", err)
		return false
	}
	sortSessionsByActivity(recent)

	seen := 0
	for _, sess := range recent {
		if sess.ID == current.ID {
			continue
		}
		if seen >= e.config.Anomaly.RecentSessionCount {
			break
		}
		seen++
		if sess.DeviceHash == current.DeviceHash {
			return false
		}
	}
	return seen > 0
}

func (e *Engine) persistAlert(ctx context.Context, alert SecurityAlert) {
	alert.ID = uuid.NewString()
	alert.CreatedAt = time.Now().UTC()

	if err := e.store.InsertSecurityAlert(ctx, alert); err != nil {
		logStoreFailure("persist "+string(alert.AlertType)+" alert", err)
		return
	}

	e.metricInc(MetricAlertEmitted)
	e.emitAudit(ctx, auditEventAnomalyAlert, true, alert.OwnerID, "", "", nil, func() map[string]string {
		meta := map[string]string{"alert_type": string(alert.AlertType)}
		for k, v := range alert.Metadata {
			meta[k] = v
		}
		return meta
	})
	e.notify(ctx, Notification{
		OwnerID:   alert.OwnerID,
		AlertType: alert.AlertType,
		Metadata:  alert.Metadata,
	})
}

func sortSessionsByActivity(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastActive.After(sessions[j].LastActive)
	})
}

func distinctIPs(sessions []Session) []string {
	seen := make(map[string]struct{}, len(sessions))
	var out []string
	for _, sess := range sessions {
		if sess.IPAddress == "" {
			continue
		}
		if _, ok := seen[sess.IPAddress]; ok {
			continue
		}
		seen[sess.IPAddress] = struct{}{}
		out = append(out, sess.IPAddress)
	}
	sort.Strings(out)
	return out
}

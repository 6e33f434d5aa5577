package core

import (
	"math"
	"time"
)

const (
	// MaxTogglesPerDay bounds how many times a rate-limited sharing flag
	// may be flipped per calendar day.
	MaxTogglesPerDay = 3
	// ToggleCooldown is the minimum wait between successive toggles.
	ToggleCooldown = 15 * time.Minute
)

// CooldownReason identifies which limit blocked a toggle.
type CooldownReason string

const (
	CooldownReasonWindow     CooldownReason = "cooldown"
	CooldownReasonDailyLimit CooldownReason = "daily_limit"
)

// CooldownResult is the outcome of evaluating the toggle rate-limit policy.
// WaitMinutes is only set for CooldownReasonWindow.
type CooldownResult struct {
	Allowed     bool
	Reason      CooldownReason
	WaitMinutes int
}

// EvaluateToggleCooldown decides whether a rate-limited toggle is currently
// allowed, given the last toggle time and the toggle count for the current
// day. The cooldown window is checked before the daily cap so the reported
// reason names the shorter obstacle. Pure function of its inputs.
//
// Callers are responsible for zeroing countToday first when
// ShouldResetDailyCount reports a day boundary; a reset never bypasses the
// cooldown window itself.
func EvaluateToggleCooldown(lastToggleAt *time.Time, countToday int, now time.Time) CooldownResult {
	if lastToggleAt != nil {
		elapsed := now.Sub(*lastToggleAt)
		if elapsed >= 0 && elapsed < ToggleCooldown {
			mins := int(math.Ceil((ToggleCooldown - elapsed).Minutes()))
			if mins < 1 {
				mins = 1
			}
			return CooldownResult{Allowed: false, Reason: CooldownReasonWindow, WaitMinutes: mins}
		}
	}
	if countToday >= MaxTogglesPerDay {
		return CooldownResult{Allowed: false, Reason: CooldownReasonDailyLimit}
	}
	return CooldownResult{Allowed: true}
}

// ShouldResetDailyCount reports whether a stored daily toggle counter
// belongs to a prior calendar day and should be zeroed before evaluating a
// new toggle. A nil reset timestamp means the counter was never started.
func ShouldResetDailyCount(resetAt *time.Time, now time.Time) bool {
	if resetAt == nil {
		return true
	}
	ry, rm, rd := resetAt.Date()
	ny, nm, nd := now.Date()
	return ry != ny || rm != nm || rd != nd
}

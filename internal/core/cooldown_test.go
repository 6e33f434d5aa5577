package core

import (
	"testing"
	"time"
)

func TestEvaluateToggleCooldownAllowed(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	result := EvaluateToggleCooldown(nil, 0, now)
	if !result.Allowed {
		t.Fatalf("first toggle should be allowed, got reason %q", result.Reason)
	}

	last := now.Add(-time.Hour)
	result = EvaluateToggleCooldown(&last, 2, now)
	if !result.Allowed {
		t.Fatalf("toggle outside the window and under the cap should be allowed, got reason %q", result.Reason)
	}
}

func TestEvaluateToggleCooldownWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-5 * time.Minute)

	result := EvaluateToggleCooldown(&last, 2, now)
	if result.Allowed {
		t.Fatal("toggle 5 minutes after the last one should be blocked")
	}
	if result.Reason != CooldownReasonWindow {
		t.Errorf("reason: expected %q, got %q", CooldownReasonWindow, result.Reason)
	}
	if result.WaitMinutes != 10 {
		t.Errorf("wait minutes: expected 10, got %d", result.WaitMinutes)
	}
}

func TestEvaluateToggleCooldownWindowBoundary(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-ToggleCooldown)

	result := EvaluateToggleCooldown(&last, 0, now)
	if !result.Allowed {
		t.Error("toggle exactly at the window boundary should be allowed")
	}
}

func TestEvaluateToggleCooldownWaitRoundsUp(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-14*time.Minute - 30*time.Second)

	result := EvaluateToggleCooldown(&last, 0, now)
	if result.Allowed {
		t.Fatal("toggle 30 seconds before the window ends should be blocked")
	}
	if result.WaitMinutes != 1 {
		t.Errorf("wait minutes: expected 1, got %d", result.WaitMinutes)
	}
}

func TestEvaluateToggleCooldownDailyLimit(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-time.Hour)

	result := EvaluateToggleCooldown(&last, MaxTogglesPerDay, now)
	if result.Allowed {
		t.Fatal("toggle at the daily cap should be blocked")
	}
	if result.Reason != CooldownReasonDailyLimit {
		t.Errorf("reason: expected %q, got %q", CooldownReasonDailyLimit, result.Reason)
	}
}

func TestEvaluateToggleCooldownWindowBeatsDailyLimit(t *testing.T) {
	// When both limits apply, the window is reported: it names the
	// shorter obstacle.
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-5 * time.Minute)

	result := EvaluateToggleCooldown(&last, MaxTogglesPerDay, now)
	if result.Allowed {
		t.Fatal("toggle should be blocked")
	}
	if result.Reason != CooldownReasonWindow {
		t.Errorf("reason: expected %q, got %q", CooldownReasonWindow, result.Reason)
	}
}

func TestShouldResetDailyCount(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 30, 0, 0, time.UTC)

	if !ShouldResetDailyCount(nil, now) {
		t.Error("nil reset timestamp should request a reset")
	}

	sameDay := time.Date(2025, 6, 10, 0, 1, 0, 0, time.UTC)
	if ShouldResetDailyCount(&sameDay, now) {
		t.Error("same-day reset timestamp should not request a reset")
	}

	yesterday := time.Date(2025, 6, 9, 23, 55, 0, 0, time.UTC)
	if !ShouldResetDailyCount(&yesterday, now) {
		t.Error("prior-day reset timestamp should request a reset even within 24h")
	}

	lastMonth := time.Date(2025, 5, 10, 0, 30, 0, 0, time.UTC)
	if !ShouldResetDailyCount(&lastMonth, now) {
		t.Error("prior-month reset timestamp should request a reset")
	}
}

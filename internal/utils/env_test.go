package utils

import (
	"testing"
	"time"
)

func TestSafeEnv(t *testing.T) {
	t.Setenv("GG_TEST_STR", "value")
	if got := SafeEnv("GG_TEST_STR", "fallback"); got != "value" {
		t.Fatalf("got %q", got)
	}
	if got := SafeEnv("GG_TEST_STR_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestSafeEnvBool(t *testing.T) {
	t.Setenv("GG_TEST_BOOL", "true")
	if !SafeEnvBool("GG_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("GG_TEST_BOOL", "not-a-bool")
	if !SafeEnvBool("GG_TEST_BOOL", true) {
		t.Fatal("parse failure should return fallback")
	}
}

func TestSafeEnvDuration(t *testing.T) {
	t.Setenv("GG_TEST_DUR", "90s")
	if got := SafeEnvDuration("GG_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("got %v", got)
	}
	if got := SafeEnvDuration("GG_TEST_DUR_MISSING", time.Minute); got != time.Minute {
		t.Fatalf("got %v", got)
	}
}

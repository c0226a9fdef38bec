package log

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: "DEBUG", want: LevelDebug},
		{in: "info", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "warning", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "  error  ", want: LevelError},
		{in: "trace", want: LevelInfo},
		{in: "", want: LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSeverityOrdering(t *testing.T) {
	order := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}
	for i := 1; i < len(order); i++ {
		if severity(order[i-1]) >= severity(order[i]) {
			t.Errorf("severity(%v) not below severity(%v)", order[i-1], order[i])
		}
	}
}

func TestEnabled(t *testing.T) {
	defer SetLevel(LevelInfo)

	SetLevel(LevelWarn)
	if enabled(LevelInfo) {
		t.Error("info enabled at warn level")
	}
	if !enabled(LevelError) {
		t.Error("error disabled at warn level")
	}

	SetLevel(LevelDebug)
	if !enabled(LevelDebug) {
		t.Error("debug disabled at debug level")
	}
}

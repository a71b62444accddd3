package logger

import (
	"testing"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"TRACE", LevelTrace, false},
		{"debug", LevelDebug, false},
		{"Info", LevelInfo, false},
		{"WARN", LevelWarning, false},
		{"warning", LevelWarning, false},
		{" error ", LevelError, false},
		{"FATAL", LevelFatal, false},
		{"verbose", LevelInfo, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseLevel(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	original := GetLevel()
	defer SetLevel(original)

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelError)
	}
}

// TestHTTPCounters verifies counters move even when output is sampled away
func TestHTTPCounters(t *testing.T) {
	SetSampleRate(1000000)
	defer SetSampleRate(1)

	before := Snapshot()

	WarnHttp4xx(400)
	WarnHttp4xx(404)
	ErrorHttp5xx()
	WarnOverloaded()
	Warn("sampled warning")

	after := Snapshot()

	checks := map[string]int64{
		"http4xx":  2,
		"http400":  1,
		"http404":  1,
		"http5xx":  1,
		"http503":  1,
		"warnings": 4,
		"errors":   1,
	}
	for name, delta := range checks {
		if got := after[name] - before[name]; got != delta {
			t.Errorf("counter %s moved by %d, want %d", name, got, delta)
		}
	}
}

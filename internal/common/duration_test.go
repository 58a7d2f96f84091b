package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Duration
		err   bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"compound", "1h30m", 90 * time.Minute, false},
		{"invalid", "not-a-duration", 0, true},
		{"bare number", "42", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_YAMLRoundTrip(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Interval Duration `yaml:"interval"`
	}

	var w wrapper
	require.NoError(t, yaml.Unmarshal([]byte("interval: 45s\n"), &w))
	require.Equal(t, 45*time.Second, w.Interval.Duration)

	out, err := yaml.Marshal(w)
	require.NoError(t, err)
	require.Contains(t, string(out), "45s")
}

func TestDuration_JSON(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"2m"`), &d))
	require.Equal(t, 2*time.Minute, d.Duration)

	// Numbers are nanoseconds
	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	require.Equal(t, time.Second, d.Duration)

	require.Error(t, json.Unmarshal([]byte(`true`), &d))

	out, err := json.Marshal(NewDuration(90 * time.Second))
	require.NoError(t, err)
	require.Equal(t, `"1m30s"`, string(out))
}

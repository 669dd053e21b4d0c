package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "kafka:9092", want: []string{"kafka:9092"}},
		{in: " a:1 , ,b:2,", want: []string{"a:1", "b:2"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CSV(tt.in), tt.in)
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("GH_TEST_STR", "value")
	t.Setenv("GH_TEST_INT", "42")
	t.Setenv("GH_TEST_BAD_INT", "forty")
	t.Setenv("GH_TEST_DUR", "90s")
	t.Setenv("GH_TEST_BAD_DUR", "-1s")

	assert.Equal(t, "value", EnvDefault("GH_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("GH_TEST_UNSET", "def"))
	assert.Equal(t, 42, EnvIntDefault("GH_TEST_INT", 7))
	assert.Equal(t, 7, EnvIntDefault("GH_TEST_BAD_INT", 7))
	assert.Equal(t, 7, EnvIntDefault("GH_TEST_UNSET", 7))
	assert.Equal(t, 90*time.Second, EnvDurationDefault("GH_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, EnvDurationDefault("GH_TEST_BAD_DUR", time.Minute))
}

func TestCheckRequired(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRequired(Required{Env: "A", Value: "x"}))

	err := CheckRequired(
		Required{Env: "SESSION_SECRET", Value: " "},
		Required{Env: "ES_URL", Value: "http://es:9200"},
		Required{Env: "DATABASE_URL"},
	)
	assert.EqualError(t, err, "missing required env DATABASE_URL, SESSION_SECRET")
}

package gcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("GCP_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("GCP_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("GCP_TEST_UNSET_VALUE", "fallback"))

	t.Setenv("GCP_TEST_EMPTY", "")
	assert.Equal(t, "", GetEnv("GCP_TEST_EMPTY", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"valid", "42", 42},
		{"padded", " 7 ", 7},
		{"blank", "  ", 5},
		{"invalid", "lots", 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GCP_TEST_INT", tc.raw)
			assert.Equal(t, tc.want, GetEnvInt("GCP_TEST_INT", 5))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("GCP_TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("GCP_TEST_DURATION", time.Minute))

	t.Setenv("GCP_TEST_DURATION", "ninety")
	assert.Equal(t, time.Minute, GetEnvDuration("GCP_TEST_DURATION", time.Minute))
}

func TestGetEnvList(t *testing.T) {
	fallback := []string{"eng"}

	t.Setenv("GCP_TEST_LIST", "eng, deu ,,fra")
	assert.Equal(t, []string{"eng", "deu", "fra"}, GetEnvList("GCP_TEST_LIST", fallback))

	t.Setenv("GCP_TEST_LIST", " , ")
	assert.Equal(t, fallback, GetEnvList("GCP_TEST_LIST", fallback))

	assert.Equal(t, fallback, GetEnvList("GCP_TEST_UNSET_LIST", fallback))
}

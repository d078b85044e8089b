package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.TMPIndicators, 9)
	assert.Len(t, cfg.ComplianceIndicators, 17)
	assert.Equal(t, "Traffic Management Plan", cfg.TMPIndicators[0])
	assert.Equal(t, "AS 1742.3", cfg.ComplianceIndicators[0])
	assert.Equal(t, "VSLS", cfg.ComplianceIndicators[16])
	require.NoError(t, cfg.Validate())
}

func TestDefault_ReturnsCopies(t *testing.T) {
	a := Default()
	a.ComplianceIndicators[0] = "changed"

	b := Default()
	assert.Equal(t, "AS 1742.3", b.ComplianceIndicators[0])
}

func TestParse_KeepsDefaultsForMissingLists(t *testing.T) {
	cfg, err := Parse([]byte("tmp_indicators:\n  - work zone\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"work zone"}, cfg.TMPIndicators)
	assert.Len(t, cfg.ComplianceIndicators, 17)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("tmp_indicators: [unterminated"))
	assert.Error(t, err)
}

func TestParse_RejectsTMPPhraseInComplianceList(t *testing.T) {
	_, err := Parse([]byte("compliance_indicators:\n  - detour\n  - AS 1742.3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is also tmp_indicators")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "compliance_indicators:\n  - AS 1742.3\n  - Austroads\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AS 1742.3", "Austroads"}, cfg.ComplianceIndicators)
	assert.Len(t, cfg.TMPIndicators, 9)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "empty tmp list",
			cfg:     Config{ComplianceIndicators: []string{"a"}},
			wantErr: "tmp_indicators must not be empty",
		},
		{
			name:    "empty compliance list",
			cfg:     Config{TMPIndicators: []string{"a"}},
			wantErr: "compliance_indicators must not be empty",
		},
		{
			name:    "blank tmp phrase",
			cfg:     Config{TMPIndicators: []string{"a", "  "}, ComplianceIndicators: []string{"b"}},
			wantErr: "tmp_indicators[1] is blank",
		},
		{
			name:    "duplicate compliance phrase ignoring case",
			cfg:     Config{TMPIndicators: []string{"a"}, ComplianceIndicators: []string{"MMS", "mms"}},
			wantErr: "duplicates entry 0",
		},
		{
			name:    "compliance phrase repeats a tmp phrase ignoring case",
			cfg:     Config{TMPIndicators: []string{"barrier", "detour"}, ComplianceIndicators: []string{"AS 1742.3", "Detour"}},
			wantErr: "compliance_indicators[1] \"Detour\" is also tmp_indicators[1]",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

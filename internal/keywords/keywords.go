// Package keywords holds the two phrase lists used to classify a document:
// TMP indicators, which decide whether a document is a Traffic Management
// Plan, and compliance indicators, drawn from TCAWS terminology, which drive
// the compliance score.
package keywords

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultTMPIndicators = []string{
	"Traffic Management Plan", "TMP", "traffic control", "road closure", "detour",
	"pedestrian control", "signage", "bollard", "barrier",
}

var defaultComplianceIndicators = []string{
	"AS 1742.3", "Austroads", "TTM Part 1", "TTM Part 2", "TTM Part 3", "TTM Part 4",
	"TTM Part 5", "TTM Part 6", "TTM Part 7", "TTM Part 8", "TTM Part 9", "TTM Part 10",
	"high-visibility", "speed signage", "variable message sign", "MMS", "VSLS",
}

// Config is the keyword configuration passed into an analysis.
type Config struct {
	TMPIndicators        []string `yaml:"tmp_indicators"`
	ComplianceIndicators []string `yaml:"compliance_indicators"`
}

// Default returns the built-in lists. Each call returns fresh slices.
func Default() Config {
	return Config{
		TMPIndicators:        append([]string(nil), defaultTMPIndicators...),
		ComplianceIndicators: append([]string(nil), defaultComplianceIndicators...),
	}
}

// Load reads a YAML keyword file. A list that is absent from the file keeps
// its default value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read keyword file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML keyword configuration on top of the defaults.
func Parse(data []byte) (Config, error) {
	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Config{}, fmt.Errorf("failed to parse keyword config: %w", err)
	}
	cfg := Default()
	if fromFile.TMPIndicators != nil {
		cfg.TMPIndicators = fromFile.TMPIndicators
	}
	if fromFile.ComplianceIndicators != nil {
		cfg.ComplianceIndicators = fromFile.ComplianceIndicators
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that both lists are usable. Compliance indicators must be
// unique ignoring case and must not repeat a TMP indicator, so the matched
// list never holds a duplicate or a TMP phrase.
func (c Config) Validate() error {
	if len(c.TMPIndicators) == 0 {
		return errors.New("tmp_indicators must not be empty")
	}
	if len(c.ComplianceIndicators) == 0 {
		return errors.New("compliance_indicators must not be empty")
	}
	tmp := make(map[string]int, len(c.TMPIndicators))
	for i, k := range c.TMPIndicators {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("tmp_indicators[%d] is blank", i)
		}
		tmp[strings.ToLower(k)] = i
	}
	seen := make(map[string]int, len(c.ComplianceIndicators))
	for i, k := range c.ComplianceIndicators {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("compliance_indicators[%d] is blank", i)
		}
		key := strings.ToLower(k)
		if j, ok := tmp[key]; ok {
			return fmt.Errorf("compliance_indicators[%d] %q is also tmp_indicators[%d]", i, k, j)
		}
		if j, ok := seen[key]; ok {
			return fmt.Errorf("compliance_indicators[%d] %q duplicates entry %d", i, k, j)
		}
		seen[key] = i
	}
	return nil
}

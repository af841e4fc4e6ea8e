package rules

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed thresholds.yaml
var defaultThresholdsYAML []byte

// Thresholds are the numeric limits the contract rules compare against.
type Thresholds struct {
	Deposit DepositThresholds `yaml:"deposit"`
	Rent    RentThresholds    `yaml:"rent"`
}

type DepositThresholds struct {
	MaxMonthsRent float64 `yaml:"max_months_rent"`
}

type RentThresholds struct {
	ComparativeRentPerSqm float64 `yaml:"comparative_rent_per_sqm"`
	MaxExcessRatio        float64 `yaml:"max_excess_ratio"`
	AbsoluteCeiling       float64 `yaml:"absolute_ceiling"`
}

// DefaultThresholds returns the embedded thresholds.
func DefaultThresholds() Thresholds {
	t, err := ParseThresholds(defaultThresholdsYAML)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded thresholds invalid: %v", err))
	}
	return t
}

// LoadThresholds reads thresholds from path, or the embedded defaults when
// path is empty.
func LoadThresholds(path string) (Thresholds, error) {
	if strings.TrimSpace(path) == "" {
		return ParseThresholds(defaultThresholdsYAML)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("read thresholds: %w", err)
	}
	return ParseThresholds(raw)
}

// ParseThresholds decodes YAML thresholds. Unknown keys are rejected.
func ParseThresholds(raw []byte) (Thresholds, error) {
	var t Thresholds
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Thresholds{}, fmt.Errorf("parse thresholds: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

func (t Thresholds) Validate() error {
	var errs []error
	if t.Deposit.MaxMonthsRent <= 0 {
		errs = append(errs, errors.New("deposit.max_months_rent must be positive"))
	}
	if t.Rent.ComparativeRentPerSqm <= 0 {
		errs = append(errs, errors.New("rent.comparative_rent_per_sqm must be positive"))
	}
	if t.Rent.MaxExcessRatio < 0 {
		errs = append(errs, errors.New("rent.max_excess_ratio must not be negative"))
	}
	if t.Rent.AbsoluteCeiling <= 0 {
		errs = append(errs, errors.New("rent.absolute_ceiling must be positive"))
	}
	return errors.Join(errs...)
}

// RentCeiling returns the highest permissible monthly rent. A nil or
// non-positive living space falls back to the absolute ceiling.
func (t Thresholds) RentCeiling(squareMeters *float64) float64 {
	if squareMeters == nil || *squareMeters <= 0 {
		return t.Rent.AbsoluteCeiling
	}
	return t.Rent.ComparativeRentPerSqm * *squareMeters * (1 + t.Rent.MaxExcessRatio)
}

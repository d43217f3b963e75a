package core

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRateConfig() *InterestRateConfig {
	return &InterestRateConfig{
		OptimalUtilizationRate: uint256.NewInt(8e17),
		PlateauInterestRate:    uint256.NewInt(4e16),
		MaxInterestRate:        uint256.NewInt(1e18),
	}
}

func TestInterestRateConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *InterestRateConfig)
		expected error
	}{
		{
			name:     "valid",
			mutate:   func(c *InterestRateConfig) {},
			expected: nil,
		},
		{
			name:     "zero optimal",
			mutate:   func(c *InterestRateConfig) { c.OptimalUtilizationRate = uint256.NewInt(0) },
			expected: ErrOptimalUr,
		},
		{
			name:     "optimal at one",
			mutate:   func(c *InterestRateConfig) { c.OptimalUtilizationRate = WAD.Clone() },
			expected: ErrOptimalUr,
		},
		{
			name:     "zero plateau",
			mutate:   func(c *InterestRateConfig) { c.PlateauInterestRate = uint256.NewInt(0) },
			expected: ErrPlateauIr,
		},
		{
			name:     "zero max",
			mutate:   func(c *InterestRateConfig) { c.MaxInterestRate = uint256.NewInt(0) },
			expected: ErrMaxIr,
		},
		{
			name: "plateau above max",
			mutate: func(c *InterestRateConfig) {
				c.PlateauInterestRate = uint256.NewInt(2e18)
			},
			expected: ErrPlateauGreaterThanMax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testRateConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestInterestRateCurve(t *testing.T) {
	config := testRateConfig()

	tests := []struct {
		name        string
		utilization *uint256.Int
		expected    *uint256.Int
	}{
		{
			name:        "idle",
			utilization: uint256.NewInt(0),
			expected:    uint256.NewInt(0),
		},
		{
			name:        "half of optimal",
			utilization: uint256.NewInt(4e17),
			expected:    uint256.NewInt(2e16),
		},
		{
			name:        "at optimal",
			utilization: uint256.NewInt(8e17),
			expected:    uint256.NewInt(4e16),
		},
		{
			name:        "midway to full",
			utilization: uint256.NewInt(9e17),
			expected:    uint256.NewInt(52e16),
		},
		{
			name:        "full",
			utilization: WAD,
			expected:    uint256.NewInt(1e18),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := config.InterestRateCurve(tt.utilization)
			require.NoError(t, err)
			assert.True(t, rate.Eq(tt.expected), "expected %s, got %s", tt.expected.Dec(), rate.Dec())
		})
	}
}

func TestRatePerPeriod(t *testing.T) {
	config := testRateConfig()

	// A full year at optimal utilization pays the plateau rate exactly.
	rate, err := config.RatePerPeriod(uint256.NewInt(8e17), SECONDS_PER_YEAR)
	require.NoError(t, err)
	assert.True(t, rate.Eq(uint256.NewInt(4e16)))

	// Half a year pays half.
	rate, err = config.RatePerPeriod(uint256.NewInt(8e17), SECONDS_PER_YEAR/2)
	require.NoError(t, err)
	assert.True(t, rate.Eq(uint256.NewInt(2e16)))

	rate, err = config.RatePerPeriod(uint256.NewInt(8e17), 0)
	require.NoError(t, err)
	assert.True(t, rate.IsZero())
}

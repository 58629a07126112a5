package domain_test

import (
	"math"
	"testing"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestConvertHeightToCm(t *testing.T) {
	assert.InDelta(t, 177.8, domain.ConvertHeightToCm(70, domain.HeightUnitInches), 1e-9)
	assert.Equal(t, 170.0, domain.ConvertHeightToCm(170, domain.HeightUnitCm))
	// Anything other than inches passes through
	assert.Equal(t, 170.0, domain.ConvertHeightToCm(170, "furlongs"))
	assert.Equal(t, -5.0, domain.ConvertHeightToCm(-5, domain.HeightUnitCm))
}

func TestConvertWeightToKg(t *testing.T) {
	assert.InDelta(t, 150*0.453592, domain.ConvertWeightToKg(150, domain.WeightUnitLbs), 1e-9)
	assert.Equal(t, 70.0, domain.ConvertWeightToKg(70, domain.WeightUnitKg))
	assert.Equal(t, 70.0, domain.ConvertWeightToKg(70, ""))
}

func TestConversions_AllPositiveValues(t *testing.T) {
	for _, v := range []float64{0.1, 1, 55.5, 180, 299.99} {
		assert.Equal(t, v*domain.CmPerInch, domain.ConvertHeightToCm(v, domain.HeightUnitInches))
		assert.Equal(t, v*domain.KgPerLb, domain.ConvertWeightToKg(v, domain.WeightUnitLbs))
	}
}

func TestCalculateBMI(t *testing.T) {
	bmi := domain.CalculateBMI(170, 70)
	assert.InDelta(t, 24.22, bmi, 0.01)
	assert.Equal(t, domain.CategoryNormal, domain.GetBMICategory(bmi).Category)
}

func TestCalculateBMI_ZeroHeight(t *testing.T) {
	assert.True(t, math.IsInf(domain.CalculateBMI(0, 70), 1))
}

func TestGetBMICategory_Boundaries(t *testing.T) {
	tests := []struct {
		bmi       float64
		category  string
		className string
	}{
		{10, domain.CategoryUnderweight, "bmi-underweight"},
		{18.49, domain.CategoryUnderweight, "bmi-underweight"},
		{18.5, domain.CategoryNormal, "bmi-normal"},
		{24.99, domain.CategoryNormal, "bmi-normal"},
		{25, domain.CategoryOverweight, "bmi-overweight"},
		{29.99, domain.CategoryOverweight, "bmi-overweight"},
		{30, domain.CategoryObese, "bmi-obese"},
		{55, domain.CategoryObese, "bmi-obese"},
	}

	for _, tt := range tests {
		got := domain.GetBMICategory(tt.bmi)
		assert.Equal(t, tt.category, got.Category, "bmi %v", tt.bmi)
		assert.Equal(t, tt.className, got.ClassName, "bmi %v", tt.bmi)
		assert.NotEmpty(t, got.Interpretation)
	}
}

func TestCalculateBMR(t *testing.T) {
	assert.Equal(t, 1648.75, domain.CalculateBMR(30, domain.GenderMale, 70, 175))
	assert.Equal(t, 1482.75, domain.CalculateBMR(30, domain.GenderFemale, 70, 175))
	// Any non-male value takes the female constant
	assert.Equal(t, 1482.75, domain.CalculateBMR(30, "other", 70, 175))
}

func TestCalculateDailyCalories(t *testing.T) {
	assert.Equal(t, 1648.75*1.2, domain.CalculateDailyCalories(1648.75, domain.ActivitySedentary))
	assert.Equal(t, 1000*1.2, domain.CalculateDailyCalories(1000, "unknown-level"))

	multipliers := map[domain.ActivityLevel]float64{
		domain.ActivitySedentary:  1.2,
		domain.ActivityLight:      1.375,
		domain.ActivityModerate:   1.55,
		domain.ActivityActive:     1.725,
		domain.ActivityVeryActive: 1.9,
	}
	for level, m := range multipliers {
		assert.Equal(t, 2000*m, domain.CalculateDailyCalories(2000, level), string(level))
	}
}

func TestActivityLevelDescription(t *testing.T) {
	for _, level := range domain.ValidActivityLevels() {
		assert.NotEmpty(t, domain.ActivityLevelDescription(string(level)), string(level))
	}
	assert.Equal(t, "Little or no exercise", domain.ActivityLevelDescription("sedentary"))
	assert.Equal(t, "", domain.ActivityLevelDescription("couch"))
}

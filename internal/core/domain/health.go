package domain

// HeightUnit is the unit a height value was entered in
type HeightUnit string

const (
	HeightUnitCm     HeightUnit = "cm"
	HeightUnitInches HeightUnit = "inches"
)

// WeightUnit is the unit a weight value was entered in
type WeightUnit string

const (
	WeightUnitKg  WeightUnit = "kg"
	WeightUnitLbs WeightUnit = "lbs"
)

// Conversion factors to metric
const (
	CmPerInch = 2.54
	KgPerLb   = 0.453592
)

// ConvertHeightToCm converts a height to centimetres.
// Any unit other than inches is treated as centimetres; the value's sign is not checked.
func ConvertHeightToCm(height float64, unit HeightUnit) float64 {
	if unit == HeightUnitInches {
		return height * CmPerInch
	}
	return height
}

// ConvertWeightToKg converts a weight to kilograms.
// Any unit other than lbs is treated as kilograms.
func ConvertWeightToKg(weight float64, unit WeightUnit) float64 {
	if unit == WeightUnitLbs {
		return weight * KgPerLb
	}
	return weight
}

// CalculateBMI returns weightKg / heightM².
// Zero height yields +Inf; callers validate heightCm > 0 first.
func CalculateBMI(heightCm, weightKg float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// BMI category boundaries (lower bound inclusive)
const (
	BMINormalMin     = 18.5
	BMIOverweightMin = 25.0
	BMIObeseMin      = 30.0
)

// BMICategory is the classification of a BMI value
type BMICategory struct {
	Category       string `json:"category"`
	ClassName      string `json:"class_name"`
	Interpretation string `json:"interpretation"`
}

// Category labels
const (
	CategoryUnderweight = "Underweight"
	CategoryNormal      = "Normal Weight"
	CategoryOverweight  = "Overweight"
	CategoryObese       = "Obese"
)

// GetBMICategory classifies a BMI value.
// Underweight (<18.5), Normal Weight [18.5,25), Overweight [25,30), Obese (>=30)
func GetBMICategory(bmi float64) BMICategory {
	switch {
	case bmi < BMINormalMin:
		return BMICategory{
			Category:       CategoryUnderweight,
			ClassName:      "bmi-underweight",
			Interpretation: "You are underweight. Consider consulting a healthcare professional about a healthy diet and exercise plan.",
		}
	case bmi < BMIOverweightMin:
		return BMICategory{
			Category:       CategoryNormal,
			ClassName:      "bmi-normal",
			Interpretation: "You have a healthy weight! Keep up the good work with balanced diet and regular exercise.",
		}
	case bmi < BMIObeseMin:
		return BMICategory{
			Category:       CategoryOverweight,
			ClassName:      "bmi-overweight",
			Interpretation: "You are overweight. Consider increasing physical activity and adopting a balanced diet.",
		}
	default:
		// NaN lands here as well, same as an open-ended upper range
		return BMICategory{
			Category:       CategoryObese,
			ClassName:      "bmi-obese",
			Interpretation: "You are in the obese category. Consult a healthcare professional for personalized advice.",
		}
	}
}

// Gender selects the Mifflin-St Jeor constant
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// CalculateBMR computes basal metabolic rate with the Mifflin-St Jeor equation.
// Only "male" takes the +5 constant; every other value takes -161.
func CalculateBMR(age float64, gender Gender, weightKg, heightCm float64) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*age
	if gender == GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// ActivityLevel is how active a person is during a typical week
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "veryactive"
)

// ValidActivityLevels returns the known activity levels, least active first
func ValidActivityLevels() []ActivityLevel {
	return []ActivityLevel{
		ActivitySedentary,
		ActivityLight,
		ActivityModerate,
		ActivityActive,
		ActivityVeryActive,
	}
}

// Multiplier returns the TDEE multiplier for the level.
// Unknown levels fall back to the sedentary multiplier.
func (l ActivityLevel) Multiplier() float64 {
	switch l {
	case ActivityLight:
		return 1.375
	case ActivityModerate:
		return 1.55
	case ActivityActive:
		return 1.725
	case ActivityVeryActive:
		return 1.9
	default:
		return 1.2
	}
}

// Description returns a human readable description, empty for unknown levels
func (l ActivityLevel) Description() string {
	switch l {
	case ActivitySedentary:
		return "Little or no exercise"
	case ActivityLight:
		return "Light exercise (1-3 days/week)"
	case ActivityModerate:
		return "Moderate exercise (3-5 days/week)"
	case ActivityActive:
		return "Active (6-7 days/week)"
	case ActivityVeryActive:
		return "Very active (intense exercise daily)"
	default:
		return ""
	}
}

// CalculateDailyCalories scales a BMR by the activity multiplier
func CalculateDailyCalories(bmr float64, level ActivityLevel) float64 {
	return bmr * level.Multiplier()
}

// ActivityLevelDescription returns the description for a raw level tag
func ActivityLevelDescription(level string) string {
	return ActivityLevel(level).Description()
}

package services

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// CalculatorService implements the BMI and calorie calculators.
// It holds no per-user state; BMI results outside the normal range are published as events.
type CalculatorService struct {
	publisher ports.EventPublisher
}

// NewCalculatorService creates a new calculator service
func NewCalculatorService(publisher ports.EventPublisher) *CalculatorService {
	return &CalculatorService{
		publisher: publisher,
	}
}

// parseField parses a value that already passed the number rules
func parseField(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// CalculateBMI validates height and weight, converts them to metric and classifies the BMI
func (s *CalculatorService) CalculateBMI(ctx context.Context, req ports.BMIRequest) (*ports.BMIResult, error) {
	result := domain.Validate(
		domain.Field{Name: "height", Value: req.Height, Rules: domain.HeightRules()},
		domain.Field{Name: "weight", Value: req.Weight, Rules: domain.WeightRules()},
	)
	if err := result.Err(); err != nil {
		return nil, err
	}

	heightCm := domain.ConvertHeightToCm(parseField(req.Height), domain.HeightUnit(req.HeightUnit))
	weightKg := domain.ConvertWeightToKg(parseField(req.Weight), domain.WeightUnit(req.WeightUnit))

	bmi := domain.CalculateBMI(heightCm, weightKg)
	category := domain.GetBMICategory(bmi)

	res := &ports.BMIResult{
		HeightCm:    heightCm,
		WeightKg:    weightKg,
		BMI:         bmi,
		Rounded:     strconv.FormatFloat(bmi, 'f', 1, 64),
		BMICategory: category,
	}

	s.logCalculation("bmi_calculated", map[string]interface{}{
		"bmi":      res.Rounded,
		"category": category.Category,
	})

	if category.Category != domain.CategoryNormal {
		publishAsync(s.publisher, ports.HealthEvent{
			EventType: ports.EventBMIOutOfRange,
			Value:     bmi,
			Detail:    category.Category,
		})
	}

	return res, nil
}

// CalculateCalories validates the calorie form and estimates BMR and daily calorie need.
// Age is truncated to whole years. Unknown activity levels use the sedentary multiplier.
func (s *CalculatorService) CalculateCalories(ctx context.Context, req ports.CalorieRequest) (*ports.CalorieResult, error) {
	result := domain.Validate(
		domain.Field{Name: "age", Value: req.Age, Rules: domain.AgeRules()},
		domain.Field{Name: "gender", Value: req.Gender, Rules: domain.SelectRules()},
		domain.Field{Name: "weight", Value: req.Weight, Rules: domain.WeightRules()},
		domain.Field{Name: "height", Value: req.Height, Rules: domain.HeightRules()},
		domain.Field{Name: "activity", Value: req.ActivityLevel, Rules: domain.SelectRules()},
	)
	if err := result.Err(); err != nil {
		return nil, err
	}

	age := math.Trunc(parseField(req.Age))
	weightKg := domain.ConvertWeightToKg(parseField(req.Weight), domain.WeightUnit(req.WeightUnit))
	heightCm := domain.ConvertHeightToCm(parseField(req.Height), domain.HeightUnit(req.HeightUnit))
	level := domain.ActivityLevel(req.ActivityLevel)

	bmr := domain.CalculateBMR(age, domain.Gender(req.Gender), weightKg, heightCm)
	daily := domain.CalculateDailyCalories(bmr, level)

	res := &ports.CalorieResult{
		BMR:                 bmr,
		DailyCalories:       daily,
		RoundedCalories:     int(math.Round(daily)),
		ActivityLevel:       req.ActivityLevel,
		ActivityDescription: level.Description(),
		Multiplier:          level.Multiplier(),
	}

	s.logCalculation("calories_calculated", map[string]interface{}{
		"bmr":            bmr,
		"daily_calories": res.RoundedCalories,
		"activity_level": req.ActivityLevel,
	})

	return res, nil
}

// ValidateFields runs arbitrary rule lists, one result per field
func (s *CalculatorService) ValidateFields(ctx context.Context, fields []domain.Field) domain.Result {
	return domain.Validate(fields...)
}

// logCalculation logs structured JSON for calculator results
func (s *CalculatorService) logCalculation(event string, fields map[string]interface{}) {
	logEntry := map[string]interface{}{
		"event":     event,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for k, v := range fields {
		logEntry[k] = v
	}

	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("Failed to marshal calculation log entry: %v", err)
		return
	}

	log.Printf("%s", string(jsonBytes))
}

// Ensure CalculatorService implements the interface
var _ ports.CalculatorService = (*CalculatorService)(nil)

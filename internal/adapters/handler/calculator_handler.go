package handler

import (
	"net/http"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// CalculatorHandler handles the BMI, calorie and field validation endpoints.
// None of them need a session.
type CalculatorHandler struct {
	calculator ports.CalculatorService
}

// NewCalculatorHandler creates a new calculator handler
func NewCalculatorHandler(calculator ports.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{
		calculator: calculator,
	}
}

// CalculateBMI handles POST /calculator/bmi
func (h *CalculatorHandler) CalculateBMI(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusOK
	defer func() {
		logStructured(requestID, "", r.Method, "/calculator/bmi", status, time.Since(startTime))
	}()

	var req ports.BMIRequest
	if err := decodeJSON(r, &req); err != nil {
		status = badRequest(w, requestID, "invalid request body", err)
		return
	}

	result, err := h.calculator.CalculateBMI(r.Context(), req)
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	BMICalculationsTotal.WithLabelValues(result.Category).Inc()
	writeJSON(w, status, result)
}

// CalculateCalories handles POST /calculator/calories
func (h *CalculatorHandler) CalculateCalories(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusOK
	defer func() {
		logStructured(requestID, "", r.Method, "/calculator/calories", status, time.Since(startTime))
	}()

	var req ports.CalorieRequest
	if err := decodeJSON(r, &req); err != nil {
		status = badRequest(w, requestID, "invalid request body", err)
		return
	}

	result, err := h.calculator.CalculateCalories(r.Context(), req)
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	CalorieCalculationsTotal.WithLabelValues(result.ActivityLevel).Inc()
	writeJSON(w, status, result)
}

// RuleSpec is one rule in a validate request, e.g. {"rule": "minValue", "value": 1}
type RuleSpec struct {
	Rule  domain.RuleKind `json:"rule"`
	Value float64         `json:"value,omitempty"`
}

// FieldSpec is one field in a validate request
type FieldSpec struct {
	Name  string     `json:"name"`
	Value string     `json:"value"`
	Rules []RuleSpec `json:"rules"`
}

// ValidateRequest is the body of POST /validate
type ValidateRequest struct {
	Fields []FieldSpec `json:"fields"`
}

// ValidateResponse reports every field's message; an empty message means valid
type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// CustomFieldLabel is the validation_failures_total label for fields sent to POST /validate
const CustomFieldLabel = "custom"

// Validate handles POST /validate
// Runs the given rule lists against the field values. Failing fields are
// reported in the body with status 200; only a malformed request is a 400.
func (h *CalculatorHandler) Validate(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusOK
	defer func() {
		logStructured(requestID, "", r.Method, "/validate", status, time.Since(startTime))
	}()

	var req ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		status = badRequest(w, requestID, "invalid request body", err)
		return
	}

	fields := make([]domain.Field, 0, len(req.Fields))
	for _, spec := range req.Fields {
		rules := make([]domain.Rule, 0, len(spec.Rules))
		for _, rs := range spec.Rules {
			rule, err := domain.NewRule(rs.Rule, rs.Value)
			if err != nil {
				status = badRequest(w, requestID, err.Error(), err)
				return
			}
			rules = append(rules, rule)
		}
		fields = append(fields, domain.Field{Name: spec.Name, Value: spec.Value, Rules: rules})
	}

	result := h.calculator.ValidateFields(r.Context(), fields)
	// Field names here come from the caller, so they share one label
	if failures := len(result.Failures()); failures > 0 {
		ValidationFailuresTotal.WithLabelValues(CustomFieldLabel).Add(float64(failures))
	}

	writeJSON(w, status, ValidateResponse{
		Valid:  result.Valid(),
		Errors: result,
	})
}

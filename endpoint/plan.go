package endpoint

import (
	"errors"
	"fmt"
	"time"

	"consultorio-api/model"
	"consultorio-api/recurrence"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// GenerateRecurrenceRequest is the payload for bulk appointment generation.
// Weekday indices use Monday=0 .. Sunday=6.
// @Description Recurrence generation request
type GenerateRecurrenceRequest struct {
	PatientID       uint   `json:"patient_id" example:"1"`
	StartDate       string `json:"start_date" example:"2026-03-02"`
	DurationMonths  *int   `json:"duration_months" example:"3"`
	Time            string `json:"time" example:"16:00:00"`
	DurationMinutes int    `json:"duration_minutes" example:"60"`
	DaysOfWeek      []int  `json:"days_of_week" example:"1,4"`
}

type recurrenceParams struct {
	Patient   model.Patient
	Start     time.Time
	Months    int
	TimeOfDay recurrence.TimeOfDay
	Minutes   int
	Days      []int
}

// validateRecurrence checks the payload and resolves the patient before
// anything is written. Every failure is reported as an invalid request.
func validateRecurrence(db *gorm.DB, userID uint, req GenerateRecurrenceRequest) (recurrenceParams, error) {
	var params recurrenceParams

	if req.PatientID == 0 {
		return params, fmt.Errorf("patient_id is required")
	}
	if req.DurationMonths == nil {
		return params, fmt.Errorf("duration_months is required")
	}
	if *req.DurationMonths < 0 {
		return params, fmt.Errorf("duration_months must not be negative")
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return params, fmt.Errorf("start_date must be formatted as YYYY-MM-DD: %w", err)
	}
	tod, err := time.Parse(timeLayout, req.Time)
	if err != nil {
		return params, fmt.Errorf("time must be formatted as HH:MM:SS: %w", err)
	}

	minutes := req.DurationMinutes
	if minutes == 0 {
		minutes = 60
	}
	if minutes < 0 {
		return params, fmt.Errorf("duration_minutes must be positive")
	}

	if req.DaysOfWeek == nil {
		return params, fmt.Errorf("days_of_week is required")
	}
	for _, d := range req.DaysOfWeek {
		if d < 0 || d > 6 {
			return params, fmt.Errorf("days_of_week entries must be between 0 (Monday) and 6 (Sunday), got %d", d)
		}
	}

	var patient model.Patient
	if err := db.Where("id = ? AND user_id = ?", req.PatientID, userID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return params, fmt.Errorf("patient %d not found", req.PatientID)
		}
		return params, err
	}

	params.Patient = patient
	params.Start = start
	params.Months = *req.DurationMonths
	params.TimeOfDay = recurrence.TimeOfDay{Hour: tod.Hour(), Minute: tod.Minute(), Second: tod.Second()}
	params.Minutes = minutes
	params.Days = req.DaysOfWeek
	return params, nil
}

// generatePlan expands the recurrence and persists the plan together with
// its full appointment set in a single transaction. Either everything is
// written or nothing is; a failure during the bulk insert rolls the plan
// back too.
func generatePlan(db *gorm.DB, userID uint, params recurrenceParams) (model.TreatmentPlan, int, error) {
	dates := recurrence.Expand(params.Start, params.Months, params.TimeOfDay, params.Days)

	plan := model.TreatmentPlan{
		PatientID:       params.Patient.ID,
		UserID:          userID,
		StartDate:       params.Start.Format(dateLayout),
		DurationMonths:  params.Months,
		SessionsPerWeek: len(params.Days),
		Status:          model.PlanActive,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}
		if len(dates) == 0 {
			return nil
		}

		appointments := make([]model.Appointment, 0, len(dates))
		for _, dt := range dates {
			appointments = append(appointments, model.Appointment{
				PatientID:       params.Patient.ID,
				UserID:          userID,
				TreatmentPlanID: &plan.ID,
				DateTime:        dt,
				DurationMinutes: params.Minutes,
				Status:          model.AppointmentScheduled,
			})
		}
		return tx.Create(&appointments).Error
	})
	if err != nil {
		return model.TreatmentPlan{}, 0, err
	}
	return plan, len(dates), nil
}

// GenerateRecurrence godoc
// @Summary      Generate recurring appointments
// @Description  Create a treatment plan and its full appointment set from a weekly day pattern
// @Tags         TreatmentPlan
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body GenerateRecurrenceRequest true "Recurrence definition"
// @Success      201 {object} util.APIResponse "Plan and appointments created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      500 {object} util.APIResponse "Generation failed"
// @Router       /treatment-plan/generate [post]
func GenerateRecurrence(c *gin.Context) {
	var req GenerateRecurrenceRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	params, err := validateRecurrence(db, userID, req)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid recurrence request", Err: err})
		return
	}

	plan, count, err := generatePlan(db, userID, params)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate appointments", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg: fmt.Sprintf("Generated %d appointments successfully", count),
		Data: map[string]interface{}{
			"plan_id":            plan.ID,
			"appointments_count": count,
		},
	})
}

// ListTreatmentPlans godoc
// @Summary      List treatment plans
// @Description  Get the practitioner's treatment plans, newest first
// @Tags         TreatmentPlan
// @Produce      json
// @Security     SessionToken
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Success      200 {object} util.APIResponse "Plans retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /treatment-plan [get]
func ListTreatmentPlans(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	var plans []model.TreatmentPlan
	query := applyPagination(db.Where("user_id = ?", userID).Order("created_at DESC"), parseListQuery(c))
	if err := query.Find(&plans).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch treatment plans", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Treatment plans fetched successfully",
		Data: map[string]interface{}{"total_fetched": len(plans), "treatment_plans": plans},
	})
}

type updatePlanStatusRequest struct {
	Status model.PlanStatus `json:"status" example:"completed"`
}

// UpdateTreatmentPlanStatus godoc
// @Summary      Update treatment plan status
// @Description  Close out a plan as completed or cancelled
// @Tags         TreatmentPlan
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Treatment plan ID"
// @Param        request body updatePlanStatusRequest true "Target status"
// @Success      200 {object} util.APIResponse "Plan updated"
// @Failure      400 {object} util.APIResponse "Illegal transition"
// @Failure      404 {object} util.APIResponse "Plan not found"
// @Router       /treatment-plan/{id}/status [patch]
func UpdateTreatmentPlanStatus(c *gin.Context) {
	planID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	var req updatePlanStatusRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	var plan model.TreatmentPlan
	if err := db.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Treatment plan not found", Err: err})
		return
	}

	if err := plan.Transition(req.Status); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Illegal plan status transition", Err: err})
		return
	}
	if err := db.Model(&plan).Update("status", plan.Status).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update treatment plan", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Treatment plan updated successfully", Data: plan})
}

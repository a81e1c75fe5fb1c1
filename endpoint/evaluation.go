package endpoint

import (
	"errors"
	"fmt"

	"consultorio-api/model"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type createEvaluationRequest struct {
	PatientID      uint           `json:"patient_id" example:"1"`
	TestTemplateID uint           `json:"test_template_id" example:"1"`
	SessionID      *uint          `json:"session_id" example:"1"`
	Results        datatypes.JSON `json:"results" swaggertype:"object"`
}

// validateEvaluation resolves the referenced entities and enforces the one
// cross-reference rule: when a session is given, its appointment's patient
// must be the evaluation's patient. Results are stored as received; they
// are never checked against the template schema here, that belongs to the
// form renderer.
func validateEvaluation(db *gorm.DB, userID uint, req createEvaluationRequest) error {
	if req.PatientID == 0 {
		return fmt.Errorf("patient_id is required")
	}
	if req.TestTemplateID == 0 {
		return fmt.Errorf("test_template_id is required")
	}

	var patient model.Patient
	if err := db.Where("id = ? AND user_id = ?", req.PatientID, userID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("patient %d not found", req.PatientID)
		}
		return err
	}

	var template model.TestTemplate
	if err := db.First(&template, req.TestTemplateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("test template %d not found", req.TestTemplateID)
		}
		return err
	}

	if req.SessionID != nil {
		var session model.Session
		if err := db.First(&session, *req.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("session %d not found", *req.SessionID)
			}
			return err
		}
		var appointment model.Appointment
		if err := db.First(&appointment, session.AppointmentID).Error; err != nil {
			return err
		}
		if appointment.PatientID != req.PatientID {
			return fmt.Errorf("session %d belongs to a different patient", *req.SessionID)
		}
	}
	return nil
}

// CreateEvaluation godoc
// @Summary      Record an evaluation
// @Description  Store a completed test instance for a patient, optionally linked to a clinical session
// @Tags         Evaluation
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body createEvaluationRequest true "Evaluation data"
// @Success      201 {object} util.APIResponse "Evaluation created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Router       /evaluation [post]
func CreateEvaluation(c *gin.Context) {
	var req createEvaluationRequest
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

	if err := validateEvaluation(db, userID, req); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid evaluation request", Err: err})
		return
	}

	evaluation := model.Evaluation{
		UserID:         userID,
		PatientID:      req.PatientID,
		TestTemplateID: req.TestTemplateID,
		SessionID:      req.SessionID,
		Results:        req.Results,
	}
	if err := db.Create(&evaluation).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create evaluation", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Evaluation created successfully", Data: evaluation})
}

// ListEvaluations godoc
// @Summary      List evaluations
// @Description  Get the practitioner's evaluations, newest first
// @Tags         Evaluation
// @Produce      json
// @Security     SessionToken
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Param        patient_id query int false "Filter by patient"
// @Success      200 {object} util.APIResponse "Evaluations retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /evaluation [get]
func ListEvaluations(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	query := db.Where("user_id = ?", userID).Order("created_at DESC")
	if patientID := c.Query("patient_id"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	query = applyPagination(query, parseListQuery(c))

	var evaluations []model.Evaluation
	if err := query.Find(&evaluations).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch evaluations", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Evaluations fetched successfully",
		Data: map[string]interface{}{"total_fetched": len(evaluations), "evaluations": evaluations},
	})
}

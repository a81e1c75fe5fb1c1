package endpoint

import (
	"errors"
	"fmt"
	"time"

	"consultorio-api/model"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListAppointments godoc
// @Summary      List appointments
// @Description  Get the practitioner's appointments ordered ascending by date-time
// @Tags         Appointment
// @Produce      json
// @Security     SessionToken
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Param        patient_id query int false "Filter by patient"
// @Param        treatment_plan_id query int false "Filter by treatment plan"
// @Success      200 {object} util.APIResponse "Appointments retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointment [get]
func ListAppointments(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	query := db.Where("user_id = ?", userID).Order("date_time ASC")
	if patientID := c.Query("patient_id"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if planID := c.Query("treatment_plan_id"); planID != "" {
		query = query.Where("treatment_plan_id = ?", planID)
	}
	query = applyPagination(query, parseListQuery(c))

	var appointments []model.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch appointments", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Appointments fetched successfully",
		Data: map[string]interface{}{"total_fetched": len(appointments), "appointments": appointments},
	})
}

type createAppointmentRequest struct {
	PatientID       uint   `json:"patient_id" example:"1"`
	DateTime        string `json:"date_time" example:"2026-03-02T16:00:00Z"`
	DurationMinutes int    `json:"duration_minutes" example:"60"`
	Notes           string `json:"notes"`
}

// CreateAppointment godoc
// @Summary      Create ad-hoc appointment
// @Description  Create a single appointment outside any treatment plan
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body createAppointmentRequest true "Appointment data"
// @Success      201 {object} util.APIResponse "Appointment created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Router       /appointment [post]
func CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
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

	dateTime, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid date_time, expected RFC 3339", Err: err})
		return
	}

	var patient model.Patient
	if err := db.Where("id = ? AND user_id = ?", req.PatientID, userID).First(&patient).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Patient not found", Err: fmt.Errorf("patient %d not found", req.PatientID)})
		return
	}

	minutes := req.DurationMinutes
	if minutes == 0 {
		minutes = 60
	}
	appointment := model.Appointment{
		PatientID:       patient.ID,
		UserID:          userID,
		DateTime:        dateTime,
		DurationMinutes: minutes,
		Status:          model.AppointmentScheduled,
		Notes:           req.Notes,
	}
	if err := db.Create(&appointment).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create appointment", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Appointment created successfully", Data: appointment})
}

type updateAppointmentStatusRequest struct {
	Status model.AppointmentStatus `json:"status" example:"completed"`
	Notes  string                  `json:"notes"`
}

// UpdateAppointmentStatus godoc
// @Summary      Update appointment status
// @Description  Apply a lifecycle transition to an appointment; illegal transitions are rejected and leave the row unchanged
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Appointment ID"
// @Param        request body updateAppointmentStatusRequest true "Target status"
// @Success      200 {object} util.APIResponse "Appointment updated"
// @Failure      400 {object} util.APIResponse "Illegal transition"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Router       /appointment/{id}/status [patch]
func UpdateAppointmentStatus(c *gin.Context) {
	appointmentID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	var req updateAppointmentStatusRequest
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

	var appointment model.Appointment
	if err := db.Where("id = ? AND user_id = ?", appointmentID, userID).First(&appointment).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Appointment not found", Err: err})
		return
	}

	if err := appointment.Transition(req.Status); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Illegal appointment status transition", Err: err})
		return
	}

	updates := map[string]interface{}{"status": appointment.Status}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if err := db.Model(&appointment).Updates(updates).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update appointment", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointment updated successfully", Data: appointment})
}

// getOrCreateSession returns the clinical session for an appointment,
// creating a pending one on first access. Two callers racing to create the
// first session are resolved by the unique index on appointment_id: the
// loser's insert comes back as a duplicate key error and is retried as a
// fetch of the winner's row.
func getOrCreateSession(db *gorm.DB, appointmentID uint) (model.Session, error) {
	var session model.Session
	err := db.Where("appointment_id = ?", appointmentID).First(&session).Error
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Session{}, err
	}

	session = model.Session{AppointmentID: appointmentID, Status: model.SessionPending}
	err = db.Create(&session).Error
	if err == nil {
		return session, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing model.Session
		if ferr := db.Where("appointment_id = ?", appointmentID).First(&existing).Error; ferr == nil {
			return existing, nil
		}
	}
	return model.Session{}, err
}

// AppointmentSession godoc
// @Summary      Get or create the appointment's session
// @Description  Return the clinical session attached to the appointment, creating an empty pending one on first access
// @Tags         Session
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Appointment ID"
// @Success      200 {object} util.APIResponse "Session retrieved"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointment/{id}/session [get]
func AppointmentSession(c *gin.Context) {
	appointmentID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
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

	var appointment model.Appointment
	if err := db.Where("id = ? AND user_id = ?", appointmentID, userID).First(&appointment).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Appointment not found", Err: err})
		return
	}

	session, err := getOrCreateSession(db, appointment.ID)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load appointment session", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Session retrieved successfully", Data: session})
}

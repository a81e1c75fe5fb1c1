package endpoint

import (
	"errors"
	"fmt"

	"consultorio-api/model"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func fetchPatients(db *gorm.DB, userID uint, q listQuery) ([]model.Patient, int64, error) {
	var patients []model.Patient
	var total int64

	query := db.Where("user_id = ?", userID).Order("created_at DESC")
	if q.Keyword != "" {
		kw := "%" + q.Keyword + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR dni LIKE ?", kw, kw, q.Keyword)
	}
	if err := applyPagination(query, q).Find(&patients).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Model(&model.Patient{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

// ListPatients godoc
// @Summary      List patients
// @Description  Get the practitioner's patients, newest first, with optional keyword search
// @Tags         Patient
// @Produce      json
// @Security     SessionToken
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Param        keyword query string false "Search by name or DNI"
// @Success      200 {object} util.APIResponse "Patients retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient [get]
func ListPatients(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	patients, total, err := fetchPatients(db, userID, parseListQuery(c))
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve patients", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patients retrieved",
		Data: map[string]interface{}{"total": total, "total_fetched": len(patients), "patients": patients},
	})
}

type createPatientRequest struct {
	FirstName string `json:"first_name" example:"Maria"`
	LastName  string `json:"last_name" example:"Gonzalez"`
	DNI       string `json:"dni" example:"30123456"`
	Email     string `json:"email" example:"maria@example.com"`
	Phone     string `json:"phone" example:"11-5555-0101"`
	BirthDate string `json:"birth_date" example:"1990-06-15"`
}

// CreatePatient godoc
// @Summary      Create patient
// @Description  Register a new patient owned by the requesting practitioner
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body createPatientRequest true "Patient data"
// @Success      201 {object} util.APIResponse "Patient created"
// @Failure      400 {object} util.APIResponse "Invalid request or duplicate DNI"
// @Router       /patient [post]
func CreatePatient(c *gin.Context) {
	var req createPatientRequest
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

	if req.FirstName == "" || req.LastName == "" || req.DNI == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "first_name, last_name and dni are required", Err: fmt.Errorf("missing required field")})
		return
	}

	patient := model.Patient{
		UserID:    userID,
		FirstName: util.NormalizeName(req.FirstName),
		LastName:  util.NormalizeName(req.LastName),
		DNI:       req.DNI,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
	}
	if err := db.Create(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.CallUserError(c, util.APIErrorParams{Msg: "A patient with this DNI already exists", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create patient", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Patient created successfully", Data: patient})
}

type updatePatientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
}

// UpdatePatient godoc
// @Summary      Update patient
// @Description  Update a patient's contact information
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Param        request body updatePatientRequest true "Fields to update"
// @Success      200 {object} util.APIResponse "Patient updated"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /patient/{id} [patch]
func UpdatePatient(c *gin.Context) {
	patientID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	var req updatePatientRequest
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

	var patient model.Patient
	if err := db.Where("id = ? AND user_id = ?", patientID, userID).First(&patient).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Patient not found", Err: err})
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = util.NormalizeName(req.FirstName)
	}
	if req.LastName != "" {
		updates["last_name"] = util.NormalizeName(req.LastName)
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.BirthDate != "" {
		updates["birth_date"] = req.BirthDate
	}
	if len(updates) > 0 {
		if err := db.Model(&patient).Updates(updates).Error; err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update patient", Err: err})
			return
		}
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient updated successfully", Data: patient})
}

// deletePatientCascade removes the patient and everything hanging off it:
// sessions of the patient's appointments, the appointments, evaluations and
// treatment plans, all in one transaction.
func deletePatientCascade(db *gorm.DB, patient model.Patient) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var appointmentIDs []uint
		if err := tx.Model(&model.Appointment{}).Where("patient_id = ?", patient.ID).Pluck("id", &appointmentIDs).Error; err != nil {
			return err
		}
		if len(appointmentIDs) > 0 {
			if err := tx.Where("appointment_id IN ?", appointmentIDs).Delete(&model.Session{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []interface{}{&model.Evaluation{}, &model.Appointment{}, &model.TreatmentPlan{}} {
			if err := tx.Where("patient_id = ?", patient.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&patient).Error
	})
}

// DeletePatient godoc
// @Summary      Delete patient
// @Description  Delete a patient and cascade to their appointments, sessions, evaluations and treatment plans
// @Tags         Patient
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse "Patient deleted"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /patient/{id} [delete]
func DeletePatient(c *gin.Context) {
	patientID, ok := parseIDParamOrRespond(c, "id")
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

	var patient model.Patient
	if err := db.Where("id = ? AND user_id = ?", patientID, userID).First(&patient).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Patient not found", Err: err})
		return
	}

	if err := deletePatientCascade(db, patient); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete patient", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient deleted successfully", Data: nil})
}

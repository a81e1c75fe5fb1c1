package endpoint

import (
	"net/http"
	"testing"

	"consultorio-api/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func planRoutes(t *testing.T, userID uint) (*gin.Engine, *gorm.DB) {
	t.Helper()
	r, db := setupEndpointTest(t, userID)
	r.POST("/treatment-plan/generate", GenerateRecurrence)
	r.GET("/treatment-plan", ListTreatmentPlans)
	r.PATCH("/treatment-plan/:id/status", UpdateTreatmentPlanStatus)
	return r, db
}

func TestGenerateRecurrence_TuesdayFridayOneMonth(t *testing.T) {
	r, db := planRoutes(t, 1)
	user := mustCreateUser(t, db, "gen@example.com")
	patient := mustCreatePatient(t, db, user.ID, "30111222")

	w := performJSON(r, http.MethodPost, "/treatment-plan/generate", GenerateRecurrenceRequest{
		PatientID:      patient.ID,
		StartDate:      "2026-03-02",
		DurationMonths: intPtr(1),
		Time:           "16:00:00",
		DaysOfWeek:     []int{1, 4},
	})
	assertStatus(t, w, http.StatusCreated)

	data := responseData(t, w)
	assert.Equal(t, float64(9), data["appointments_count"])
	assert.NotZero(t, data["plan_id"])

	var plan model.TreatmentPlan
	assert.NoError(t, db.First(&plan).Error)
	assert.Equal(t, model.PlanActive, plan.Status)
	assert.Equal(t, 2, plan.SessionsPerWeek)

	var appointments []model.Appointment
	assert.NoError(t, db.Where("treatment_plan_id = ?", plan.ID).Order("date_time ASC").Find(&appointments).Error)
	assert.Len(t, appointments, 9)
	for i, a := range appointments {
		assert.Equal(t, model.AppointmentScheduled, a.Status)
		assert.Equal(t, 60, a.DurationMinutes)
		assert.Equal(t, 16, a.DateTime.Hour())
		if i > 0 {
			assert.True(t, a.DateTime.After(appointments[i-1].DateTime), "appointments must be strictly ascending")
		}
	}
}

func TestGenerateRecurrence_EmptyExpansionStillCreatesPlan(t *testing.T) {
	cases := []struct {
		name string
		req  func(patientID uint) GenerateRecurrenceRequest
	}{
		{"empty day set", func(patientID uint) GenerateRecurrenceRequest {
			return GenerateRecurrenceRequest{PatientID: patientID, StartDate: "2026-03-02", DurationMonths: intPtr(2), Time: "10:00:00", DaysOfWeek: []int{}}
		}},
		{"zero months", func(patientID uint) GenerateRecurrenceRequest {
			return GenerateRecurrenceRequest{PatientID: patientID, StartDate: "2026-03-02", DurationMonths: intPtr(0), Time: "10:00:00", DaysOfWeek: []int{0, 1, 2}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, db := planRoutes(t, 1)
			user := mustCreateUser(t, db, "empty@example.com")
			patient := mustCreatePatient(t, db, user.ID, "30111333")

			w := performJSON(r, http.MethodPost, "/treatment-plan/generate", tc.req(patient.ID))
			assertStatus(t, w, http.StatusCreated)
			assert.Equal(t, float64(0), responseData(t, w)["appointments_count"])

			var planCount, appointmentCount int64
			db.Model(&model.TreatmentPlan{}).Count(&planCount)
			db.Model(&model.Appointment{}).Count(&appointmentCount)
			assert.Equal(t, int64(1), planCount)
			assert.Equal(t, int64(0), appointmentCount)
		})
	}
}

func TestGenerateRecurrence_InvalidRequests(t *testing.T) {
	r, db := planRoutes(t, 1)
	user := mustCreateUser(t, db, "invalid@example.com")
	patient := mustCreatePatient(t, db, user.ID, "30111444")

	cases := []struct {
		name string
		req  GenerateRecurrenceRequest
	}{
		{"missing patient", GenerateRecurrenceRequest{StartDate: "2026-03-02", DurationMonths: intPtr(1), Time: "10:00:00", DaysOfWeek: []int{1}}},
		{"unknown patient", GenerateRecurrenceRequest{PatientID: 9999, StartDate: "2026-03-02", DurationMonths: intPtr(1), Time: "10:00:00", DaysOfWeek: []int{1}}},
		{"malformed date", GenerateRecurrenceRequest{PatientID: patient.ID, StartDate: "02/03/2026", DurationMonths: intPtr(1), Time: "10:00:00", DaysOfWeek: []int{1}}},
		{"malformed time", GenerateRecurrenceRequest{PatientID: patient.ID, StartDate: "2026-03-02", DurationMonths: intPtr(1), Time: "4pm", DaysOfWeek: []int{1}}},
		{"negative months", GenerateRecurrenceRequest{PatientID: patient.ID, StartDate: "2026-03-02", DurationMonths: intPtr(-1), Time: "10:00:00", DaysOfWeek: []int{1}}},
		{"missing months", GenerateRecurrenceRequest{PatientID: patient.ID, StartDate: "2026-03-02", Time: "10:00:00", DaysOfWeek: []int{1}}},
		{"weekday out of range", GenerateRecurrenceRequest{PatientID: patient.ID, StartDate: "2026-03-02", DurationMonths: intPtr(1), Time: "10:00:00", DaysOfWeek: []int{1, 7}}},
		{"missing days", GenerateRecurrenceRequest{PatientID: patient.ID, StartDate: "2026-03-02", DurationMonths: intPtr(1), Time: "10:00:00"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performJSON(r, http.MethodPost, "/treatment-plan/generate", tc.req)
			assertStatus(t, w, http.StatusBadRequest)
		})
	}

	// No partial state may survive any of the rejected requests.
	var planCount, appointmentCount int64
	db.Model(&model.TreatmentPlan{}).Count(&planCount)
	db.Model(&model.Appointment{}).Count(&appointmentCount)
	assert.Equal(t, int64(0), planCount)
	assert.Equal(t, int64(0), appointmentCount)
}

func TestGenerateRecurrence_NotIdempotent(t *testing.T) {
	r, db := planRoutes(t, 1)
	user := mustCreateUser(t, db, "twice@example.com")
	patient := mustCreatePatient(t, db, user.ID, "30111555")

	req := GenerateRecurrenceRequest{
		PatientID:      patient.ID,
		StartDate:      "2026-03-02",
		DurationMonths: intPtr(1),
		Time:           "16:00:00",
		DaysOfWeek:     []int{1, 4},
	}
	first := performJSON(r, http.MethodPost, "/treatment-plan/generate", req)
	second := performJSON(r, http.MethodPost, "/treatment-plan/generate", req)
	assertStatus(t, first, http.StatusCreated)
	assertStatus(t, second, http.StatusCreated)

	firstPlan := responseData(t, first)["plan_id"]
	secondPlan := responseData(t, second)["plan_id"]
	assert.NotEqual(t, firstPlan, secondPlan, "each invocation creates an independent plan")

	var planCount, appointmentCount int64
	db.Model(&model.TreatmentPlan{}).Count(&planCount)
	db.Model(&model.Appointment{}).Count(&appointmentCount)
	assert.Equal(t, int64(2), planCount)
	assert.Equal(t, int64(18), appointmentCount)
}

func TestGenerateRecurrence_RollbackOnStorageFailure(t *testing.T) {
	r, db := planRoutes(t, 1)
	user := mustCreateUser(t, db, "rollback@example.com")
	patient := mustCreatePatient(t, db, user.ID, "30111666")

	// Simulate a storage failure mid bulk insert: the appointments table is
	// gone, so the plan insert succeeds inside the transaction but the batch
	// insert fails and must roll everything back.
	assert.NoError(t, db.Migrator().DropTable(&model.Appointment{}))

	w := performJSON(r, http.MethodPost, "/treatment-plan/generate", GenerateRecurrenceRequest{
		PatientID:      patient.ID,
		StartDate:      "2026-03-02",
		DurationMonths: intPtr(1),
		Time:           "16:00:00",
		DaysOfWeek:     []int{1, 4},
	})
	assertStatus(t, w, http.StatusInternalServerError)

	var planCount int64
	db.Model(&model.TreatmentPlan{}).Count(&planCount)
	assert.Equal(t, int64(0), planCount, "the plan must not survive a failed bulk insert")
}

func TestListTreatmentPlans_NewestFirst(t *testing.T) {
	r, db := planRoutes(t, 1)
	user := mustCreateUser(t, db, "plans@example.com")
	patient := mustCreatePatient(t, db, user.ID, "30111777")

	for _, months := range []int{1, 2} {
		w := performJSON(r, http.MethodPost, "/treatment-plan/generate", GenerateRecurrenceRequest{
			PatientID:      patient.ID,
			StartDate:      "2026-03-02",
			DurationMonths: intPtr(months),
			Time:           "09:00:00",
			DaysOfWeek:     []int{0},
		})
		assertStatus(t, w, http.StatusCreated)
	}

	w := performJSON(r, http.MethodGet, "/treatment-plan", nil)
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(2), responseData(t, w)["total_fetched"])
}

func TestUpdateTreatmentPlanStatus(t *testing.T) {
	r, db := planRoutes(t, 1)
	user := mustCreateUser(t, db, "planstatus@example.com")
	patient := mustCreatePatient(t, db, user.ID, "30111888")

	plan := model.TreatmentPlan{PatientID: patient.ID, UserID: user.ID, StartDate: "2026-03-02", DurationMonths: 1, SessionsPerWeek: 1, Status: model.PlanActive}
	assert.NoError(t, db.Create(&plan).Error)

	w := performJSON(r, http.MethodPatch, "/treatment-plan/1/status", map[string]string{"status": "completed"})
	assertStatus(t, w, http.StatusOK)

	// Completed is terminal.
	w = performJSON(r, http.MethodPatch, "/treatment-plan/1/status", map[string]string{"status": "cancelled"})
	assertStatus(t, w, http.StatusBadRequest)

	var loaded model.TreatmentPlan
	assert.NoError(t, db.First(&loaded, plan.ID).Error)
	assert.Equal(t, model.PlanCompleted, loaded.Status)
}

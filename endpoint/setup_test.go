package endpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"consultorio-api/middleware"
	"consultorio-api/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// endpointTestModels is the standard set of models migrated for endpoint tests.
var endpointTestModels = []interface{}{
	&model.Role{},
	&model.User{},
	&model.UserSession{},
	&model.Patient{},
	&model.TreatmentPlan{},
	&model.Appointment{},
	&model.Session{},
	&model.TestTemplate{},
	&model.Evaluation{},
}

// setupEndpointTestDB opens an in-memory SQLite database with the standard
// models migrated. TranslateError matches the runtime connection so unique
// violations surface as gorm.ErrDuplicatedKey.
func setupEndpointTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_endpoint_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(endpointTestModels...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

// setupEndpointTest returns a Gin engine wired like the production router
// but with the authenticated practitioner injected directly, plus the test
// database.
func setupEndpointTest(t *testing.T, userID uint) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupEndpointTestDB(t)
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	return r, db
}

func mustCreateUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	role := model.Role{Name: "Practitioner"}
	if err := db.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
		t.Fatalf("failed to create role: %v", err)
	}
	user := model.User{Name: "Test Practitioner", Email: email, Password: "hash", RoleID: role.ID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func mustCreatePatient(t *testing.T, db *gorm.DB, userID uint, dni string) model.Patient {
	t.Helper()
	patient := model.Patient{UserID: userID, FirstName: "Maria", LastName: "Gonzalez", DNI: dni}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("failed to create patient: %v", err)
	}
	return patient
}

func mustCreateAppointment(t *testing.T, db *gorm.DB, userID, patientID uint, at time.Time) model.Appointment {
	t.Helper()
	appointment := model.Appointment{
		PatientID:       patientID,
		UserID:          userID,
		DateTime:        at,
		DurationMinutes: 60,
		Status:          model.AppointmentScheduled,
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("failed to create appointment: %v", err)
	}
	return appointment
}

// performJSON issues a request with an optional JSON body against the test
// router and returns the recorder.
func performJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the standard API envelope.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return resp
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decodeResponse(t, w)
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response data is not an object: %v", resp["data"])
	}
	return data
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code, "unexpected status, body: %s", w.Body.String())
}

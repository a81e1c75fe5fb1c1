package endpoint

import (
	"fmt"

	"consultorio-api/model"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ListTestTemplates godoc
// @Summary      List test templates
// @Description  Get the available evaluation form templates
// @Tags         TestTemplate
// @Produce      json
// @Security     SessionToken
// @Param        status query string false "Filter by status (draft|active)"
// @Success      200 {object} util.APIResponse "Templates retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /test-template [get]
func ListTestTemplates(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	query := db.Order("name ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var templates []model.TestTemplate
	if err := query.Find(&templates).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch test templates", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Test templates fetched successfully",
		Data: map[string]interface{}{"total_fetched": len(templates), "test_templates": templates},
	})
}

type createTestTemplateRequest struct {
	Name        string               `json:"name" example:"Evaluacion postural"`
	Description string               `json:"description"`
	Status      model.TemplateStatus `json:"status" example:"draft"`
	Schema      datatypes.JSON       `json:"schema" swaggertype:"object"`
	UISchema    datatypes.JSON       `json:"ui_schema" swaggertype:"object"`
}

// CreateTestTemplate godoc
// @Summary      Create a test template
// @Description  Register a new evaluation form definition; schema and ui_schema are stored opaquely
// @Tags         TestTemplate
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body createTestTemplateRequest true "Template definition"
// @Success      201 {object} util.APIResponse "Template created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Router       /test-template [post]
func CreateTestTemplate(c *gin.Context) {
	var req createTestTemplateRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if req.Name == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Template name is required", Err: fmt.Errorf("name cannot be empty")})
		return
	}
	status := req.Status
	if status == "" {
		status = model.TemplateDraft
	}
	if status != model.TemplateDraft && status != model.TemplateActive {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid template status", Err: fmt.Errorf("unknown template status %q", status)})
		return
	}

	template := model.TestTemplate{
		Name:        util.NormalizeName(req.Name),
		Description: req.Description,
		Status:      status,
		Schema:      req.Schema,
		UISchema:    req.UISchema,
	}
	if err := db.Create(&template).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create test template", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Test template created successfully", Data: template})
}

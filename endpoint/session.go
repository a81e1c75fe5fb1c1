package endpoint

import (
	"fmt"
	"path"
	"time"

	"consultorio-api/model"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type updateSessionRequest struct {
	Status       model.SessionStatus `json:"status" example:"realizada"`
	WrittenNotes string              `json:"written_notes"`
	// VoiceNoteFilename is the original name of an uploaded recording; the
	// server derives the storage key from it. The audio bytes themselves go
	// to the external media store.
	VoiceNoteFilename string `json:"voice_note_filename" example:"sesion-12.m4a"`
}

// voiceNoteKey builds the storage key for a session recording, bucketed by
// year/month like the media store expects.
func voiceNoteKey(filename string, now time.Time) string {
	return fmt.Sprintf("voice_notes/%04d/%02d/%s%s", now.Year(), now.Month(), uuid.NewString(), path.Ext(filename))
}

// UpdateSession godoc
// @Summary      Update a clinical session
// @Description  Update the session's status, written notes or voice note reference. The session keeps referring to its original appointment.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Session ID"
// @Param        request body updateSessionRequest true "Fields to update"
// @Success      200 {object} util.APIResponse "Session updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Session not found"
// @Router       /session/{id} [patch]
func UpdateSession(c *gin.Context) {
	sessionID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	var req updateSessionRequest
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

	var session model.Session
	err := db.Joins("JOIN appointments ON appointments.id = sessions.appointment_id").
		Where("sessions.id = ? AND appointments.user_id = ?", sessionID, userID).
		First(&session).Error
	if err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Session not found", Err: err})
		return
	}

	updates := map[string]interface{}{}
	if req.Status != "" {
		if !model.ValidSessionStatus(req.Status) {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid session status", Err: fmt.Errorf("unknown session status %q", req.Status)})
			return
		}
		updates["status"] = req.Status
	}
	if req.WrittenNotes != "" {
		updates["written_notes"] = req.WrittenNotes
	}
	if req.VoiceNoteFilename != "" {
		updates["voice_note"] = voiceNoteKey(req.VoiceNoteFilename, time.Now())
	}
	if len(updates) == 0 {
		util.CallUserError(c, util.APIErrorParams{Msg: "Nothing to update", Err: fmt.Errorf("empty update request")})
		return
	}

	if err := db.Model(&session).Updates(updates).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update session", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Session updated successfully", Data: session})
}

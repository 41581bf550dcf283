package http

import (
	"github.com/gin-gonic/gin"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
)

// CheckInHandler 课堂签到
type CheckInHandler struct {
	checkIns *service.CheckInService
}

func NewCheckInHandler(checkIns *service.CheckInService) *CheckInHandler {
	if checkIns == nil {
		panic("CheckInService cannot be nil for CheckInHandler")
	}
	return &CheckInHandler{checkIns: checkIns}
}

func notFound(c *gin.Context) {
	ErrorResponse(c, CodeNotFound, "NotFound", ReasonNotFound)
}

// CheckInSetRequest 发起签到，duration 单位为秒
type CheckInSetRequest struct {
	ClassID  string `json:"class_id" binding:"required"`
	UserID   string `json:"user_id" binding:"required"`
	Duration *int   `json:"duration" binding:"required,min=1"`
}

func (h *CheckInHandler) SetCheckIn(c *gin.Context) {
	var req CheckInSetRequest
	if !bindJSON(c, &req) {
		return
	}
	checkIn, err := h.checkIns.Set(c.Request.Context(), req.ClassID, req.UserID, *req.Duration)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, checkIn)
}

type CheckInQueryRequest struct {
	ClassID string `json:"class_id" binding:"required"`
}

func (h *CheckInHandler) GetRunningCheckIn(c *gin.Context) {
	var req CheckInQueryRequest
	if !bindJSON(c, &req) {
		return
	}
	checkIn, err := h.checkIns.Running(c.Request.Context(), req.ClassID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if checkIn == nil {
		notFound(c)
		return
	}
	SuccessResponse(c, checkIn)
}

func (h *CheckInHandler) GetAllCheckIns(c *gin.Context) {
	var req CheckInQueryRequest
	if !bindJSON(c, &req) {
		return
	}
	list, err := h.checkIns.All(c.Request.Context(), req.ClassID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if len(list) == 0 {
		notFound(c)
		return
	}
	SuccessResponse(c, list)
}

type CheckInRequest struct {
	CheckInID string `json:"check_in_id" binding:"required"`
	UserID    string `json:"user_id" binding:"required"`
}

func (h *CheckInHandler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.checkIns.CheckIn(c.Request.Context(), req.CheckInID, req.UserID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, nil)
}

type CheckInRecordQueryRequest struct {
	CheckInID string `json:"check_in_id" binding:"required"`
}

func (h *CheckInHandler) GetCheckInRecords(c *gin.Context) {
	var req CheckInRecordQueryRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := h.checkIns.Records(c.Request.Context(), req.CheckInID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if len(records) == 0 {
		notFound(c)
		return
	}
	SuccessResponse(c, records)
}

func (h *CheckInHandler) GetCheckInRecordByUserID(c *gin.Context) {
	var req CheckInRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.checkIns.RecordOf(c.Request.Context(), req.CheckInID, req.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, record)
}

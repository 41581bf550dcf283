package http

import (
	"github.com/gin-gonic/gin"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
)

// DocHandler 课件管理。请求字段沿用客户端的驼峰命名。
type DocHandler struct {
	docs *service.DocService
}

func NewDocHandler(docs *service.DocService) *DocHandler {
	if docs == nil {
		panic("DocService cannot be nil for DocHandler")
	}
	return &DocHandler{docs: docs}
}

type DocAddRequest struct {
	ClassID    string `json:"classId" binding:"required"`
	DocID      string `json:"docId" binding:"required"`
	ServerType string `json:"serverType" binding:"required"`
	DocInfos   string `json:"data" binding:"required"`
}

func (h *DocHandler) AddDoc(c *gin.Context) {
	var req DocAddRequest
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.docs.Add(c.Request.Context(), req.ClassID, dto.DocInfo{
		DocID:      req.DocID,
		ServerType: req.ServerType,
		DocInfos:   req.DocInfos,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, doc)
}

type DocDeleteRequest struct {
	ClassID string `json:"classId" binding:"required"`
	DocID   string `json:"docId" binding:"required"`
}

func (h *DocHandler) DeleteDoc(c *gin.Context) {
	var req DocDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	deleted, err := h.docs.Delete(c.Request.Context(), req.ClassID, req.DocID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if !deleted {
		ErrorResponse(c, CodeNotFound, "doc not found", ReasonNotFound)
		return
	}
	SuccessResponse(c, nil)
}

type DocQueryRequest struct {
	ClassID string `json:"classId" binding:"required"`
}

func (h *DocHandler) QueryDoc(c *gin.Context) {
	var req DocQueryRequest
	if !bindJSON(c, &req) {
		return
	}
	docs, err := h.docs.Query(c.Request.Context(), req.ClassID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, docs)
}

// DocItem 批量添加的单项
type DocItem struct {
	DocID      string `json:"docId" binding:"required"`
	ServerType string `json:"serverType"`
	DocInfos   string `json:"docInfos"`
}

type DocsAddRequest struct {
	ClassID string    `json:"classId" binding:"required"`
	DocInfo []DocItem `json:"docInfo" binding:"required,min=1,dive"`
}

func (h *DocHandler) AddDocs(c *gin.Context) {
	var req DocsAddRequest
	if !bindJSON(c, &req) {
		return
	}
	infos := make([]dto.DocInfo, 0, len(req.DocInfo))
	for _, item := range req.DocInfo {
		infos = append(infos, dto.DocInfo{DocID: item.DocID, ServerType: item.ServerType, DocInfos: item.DocInfos})
	}
	added := h.docs.AddBatch(c.Request.Context(), req.ClassID, infos)
	SuccessResponse(c, gin.H{"classId": req.ClassID, "docInfo": added})
}

type DocsDeleteRequest struct {
	ClassID string `json:"classId" binding:"required"`
	DocIDs  string `json:"docIds" binding:"required"`
}

// DocsDeleteItem 实际删除的课件
type DocsDeleteItem struct {
	ClassID string `json:"classId"`
	DocID   string `json:"docId"`
}

func (h *DocHandler) DeleteDocs(c *gin.Context) {
	var req DocsDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	deleted, err := h.docs.DeleteBatch(c.Request.Context(), req.ClassID, req.DocIDs)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	items := make([]DocsDeleteItem, 0, len(deleted))
	for _, id := range deleted {
		items = append(items, DocsDeleteItem{ClassID: req.ClassID, DocID: id})
	}
	SuccessResponse(c, items)
}

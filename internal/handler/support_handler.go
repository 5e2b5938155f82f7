package handler

import (
	"strconv"

	"cryptowallet/internal/service"
	"cryptowallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// 客服工单接口
// ============================================================

// CreateTicketRequest 创建工单请求
type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message"`
}

// CreateTicket 创建工单
// POST /api/v1/support/create
func (h *Handler) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	ticket, err := h.supportService.Create(c.Request.Context(), currentUserID(c), req.Subject, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "工单已创建", ticket)
}

// UpdateTicketRequest 更新工单请求
type UpdateTicketRequest struct {
	Message      string `json:"message"`
	ReplyMessage string `json:"reply_message"`
	Status       string `json:"status"`
}

// UpdateTicket 更新工单
// PUT /api/v1/support/:id
func (h *Handler) UpdateTicket(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "工单ID参数错误")
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	err = h.supportService.Update(c.Request.Context(), currentUserID(c), isAdmin(c), ticketID, &service.UpdateRequest{
		Message:      req.Message,
		ReplyMessage: req.ReplyMessage,
		Status:       req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "工单已更新", nil)
}

// ListTickets 查询工单：普通用户只看自己的，管理员看全部
// GET /api/v1/support/list
func (h *Handler) ListTickets(c *gin.Context) {
	var err error
	var tickets interface{}

	if isAdmin(c) {
		tickets, err = h.supportService.ListAll(c.Request.Context())
	} else {
		tickets, err = h.supportService.ListOwn(c.Request.Context(), currentUserID(c))
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", tickets)
}

// DeleteTicket 删除工单，仅本人或管理员
// DELETE /api/v1/support/:id
func (h *Handler) DeleteTicket(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "工单ID参数错误")
		return
	}

	if err := h.supportService.Delete(c.Request.Context(), currentUserID(c), isAdmin(c), ticketID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "工单已删除", nil)
}

package handler

import (
	"strconv"

	"cryptowallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// 管理员接口（统一挂 AdminOnlyMiddleware）
// ============================================================

// ListUsers 用户列表
// GET /api/v1/admin/users?page=1&page_size=10
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := pagination(c)

	users, total, err := h.adminService.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "查询成功", gin.H{
		"list":      users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// DeleteUserRequest 删除用户请求
type DeleteUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// DeleteUser 按邮箱删除用户
// DELETE /api/v1/admin/users
func (h *Handler) DeleteUser(c *gin.Context) {
	var req DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "用户已删除", nil)
}

// UpdateUserStatusRequest 用户状态变更请求
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateUserStatus 变更用户状态
// PUT /api/v1/admin/users/:id/status
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "用户ID参数错误")
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.adminService.UpdateUserStatus(c.Request.Context(), userID, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "用户状态已更新", nil)
}

// ReviewKYCRequest 实名审核请求
type ReviewKYCRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ReviewKYC 实名审核
// PUT /api/v1/admin/users/:id/kyc
func (h *Handler) ReviewKYC(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "用户ID参数错误")
		return
	}

	var req ReviewKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.adminService.ReviewKYC(c.Request.Context(), userID, *req.Approve); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "实名审核完成", nil)
}

// ApproveWithdrawalRequest 提现审批请求
type ApproveWithdrawalRequest struct {
	TransactionID int64  `json:"transaction_id" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Amount        string `json:"amount" binding:"required"`
}

// ApproveWithdrawal 提现审批，唯一的实际扣款点
// POST /api/v1/admin/withdrawals/approve
func (h *Handler) ApproveWithdrawal(c *gin.Context) {
	var req ApproveWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.ledgerService.ApproveWithdrawal(c.Request.Context(), req.TransactionID, req.Email, req.Amount); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "提现审批通过", nil)
}

// ListAllTransactions 全量流水
// GET /api/v1/admin/transactions?page=1&page_size=10
func (h *Handler) ListAllTransactions(c *gin.Context) {
	page, pageSize := pagination(c)

	transactions, total, err := h.transactionService.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "查询成功", gin.H{
		"list":      transactions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

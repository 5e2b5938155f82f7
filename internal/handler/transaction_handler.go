package handler

import (
	"cryptowallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// 账本与流水接口
// ============================================================

// AmountRequest 金额类请求，金额一律用字符串传输避免精度问题
type AmountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// Deposit 充值
// POST /api/v1/transaction/deposit
func (h *Handler) Deposit(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	trans, err := h.ledgerService.Deposit(c.Request.Context(), currentUserID(c), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "充值成功", trans)
}

// Withdraw 提现申请
// POST /api/v1/transaction/withdraw
func (h *Handler) Withdraw(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	trans, err := h.ledgerService.Withdraw(c.Request.Context(), currentUserID(c), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "提现申请已提交", trans)
}

// AwardBonus 奖金发放（抽奖）
// POST /api/v1/transaction/bonus
func (h *Handler) AwardBonus(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	trans, err := h.ledgerService.AwardBonus(c.Request.Context(), currentUserID(c), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "奖金发放成功", trans)
}

// TransferBonusRequest 奖金转赠请求
type TransferBonusRequest struct {
	RecipientEmail string `json:"recipient_email" binding:"required,email"`
	Amount         string `json:"amount" binding:"required"`
}

// TransferBonus 奖金转赠
// POST /api/v1/transaction/transfer
func (h *Handler) TransferBonus(c *gin.Context) {
	var req TransferBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	trans, err := h.ledgerService.TransferBonus(c.Request.Context(), currentUserID(c), req.RecipientEmail, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "转赠成功", trans)
}

// CreateTransactionRequest 手工流水登记请求
type CreateTransactionRequest struct {
	Type        string `json:"type" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

// CreateTransaction 登记流水，不触碰余额
// POST /api/v1/transaction/create
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	trans, err := h.transactionService.Create(c.Request.Context(), currentUserID(c), req.Type, req.Amount, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "流水已登记", trans)
}

// ListTransactions 查询当前用户流水
// GET /api/v1/transaction/list?page=1&page_size=10
func (h *Handler) ListTransactions(c *gin.Context) {
	page, pageSize := pagination(c)

	transactions, total, err := h.transactionService.ListOwn(c.Request.Context(), currentUserID(c), page, pageSize)
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

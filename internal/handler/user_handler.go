package handler

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"cryptowallet/internal/service"
	"cryptowallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// 个人资料与 KYC 接口
// ============================================================

// GetProfile 查询个人资料
// GET /api/v1/user/profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "查询成功", user)
}

// saveUpload 保存上传文件到静态资源目录，返回外链地址
func (h *Handler) saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d_%d%s", currentUserID(c), time.Now().UnixNano(), filepath.Ext(file.Filename))
	dst := filepath.Join(h.cfg.Server.AssetDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("保存上传文件失败: %w", err)
	}
	return h.cfg.Server.BaseURL + "/assets/" + name, nil
}

// UpdateProfile 更新个人资料
// PUT /api/v1/user/profile  (multipart/form-data，头像文件可选)
func (h *Handler) UpdateProfile(c *gin.Context) {
	req := &service.UpdateProfileRequest{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Username:  c.PostForm("username"),
	}

	if file, err := c.FormFile("avatar"); err == nil {
		avatarURL, err := h.saveUpload(c, file)
		if err != nil {
			response.Error(c, err)
			return
		}
		req.AvatarURL = avatarURL
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "资料更新成功", user)
}

// UpdateKYC 提交实名材料
// PUT /api/v1/user/kyc  (multipart/form-data，证件照片可选)
func (h *Handler) UpdateKYC(c *gin.Context) {
	req := &service.UpdateKYCRequest{
		PhoneNumber: c.PostForm("phone_number"),
		Address:     c.PostForm("address"),
	}

	if file, err := c.FormFile("id_card"); err == nil {
		url, err := h.saveUpload(c, file)
		if err != nil {
			response.Error(c, err)
			return
		}
		req.IDCardURL = url
	}
	if file, err := c.FormFile("government_id"); err == nil {
		url, err := h.saveUpload(c, file)
		if err != nil {
			response.Error(c, err)
			return
		}
		req.GovernmentIDURL = url
	}

	if err := h.userService.UpdateKYC(c.Request.Context(), currentUserID(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "实名材料已提交", nil)
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UpdatePassword 修改密码
// PUT /api/v1/user/password
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), currentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "密码修改成功", nil)
}

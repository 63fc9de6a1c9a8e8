// Package handler 提供 HTTP 请求处理器
// 本文件处理房间查询与公告相关的 API 请求
package handler

import (
	"room_chat_server/internal/dto/request"
	"room_chat_server/internal/service"
	"room_chat_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomHandler 房间请求处理器
type RoomHandler struct {
	roomSvc service.ChatRoomService
}

// NewRoomHandler 创建房间处理器实例
func NewRoomHandler(roomSvc service.ChatRoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// ListRooms 公共房间列表
// GET /api/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	HandleSuccess(c, h.roomSvc.ListRooms())
}

// GetMessages 房间当前消息日志
// GET /api/messages/:room
// 房间不存在时返回 404
func (h *RoomHandler) GetMessages(c *gin.Context) {
	data, err := h.roomSvc.GetRoomMessages(c.Param("room"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetUsers 房间当前成员
// GET /api/users/:room
func (h *RoomHandler) GetUsers(c *gin.Context) {
	data, err := h.roomSvc.GetRoomMembers(c.Param("room"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Announce 发布系统公告（需要认证）
// POST /api/rooms/:room/announce
// 请求体: request.AnnounceRequest
// 响应: 写入的 system 消息
func (h *RoomHandler) Announce(c *gin.Context) {
	var req request.AnnounceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	room := c.Param("room")
	msg, err := h.roomSvc.Announce(room, req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}
	zap.L().Info("announcement published",
		zap.String("room", room),
		zap.String("by", c.GetString(constants.CTX_USERNAME_KEY)),
		zap.String("id", msg.ID),
	)
	HandleSuccess(c, msg)
}

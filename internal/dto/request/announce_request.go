package request

// AnnounceRequest 系统公告请求
// 使用位置:
//   - internal/handler/room_handler.go: Announce
type AnnounceRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

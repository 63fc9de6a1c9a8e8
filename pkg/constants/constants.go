package constants

const (
	CHANNEL_SIZE          = 100  // Hub 入站事件通道大小
	SEND_BUFFER_SIZE      = 256  // 单连接出站缓冲大小
	HISTORY_CAPACITY      = 100  // 每个房间保留的消息条数
	PAGE_SIZE             = 20   // 加入房间/加载更多时的分页大小
	NOTIFICATION_CAPACITY = 50   // 每个会话保留的通知条数
	MAX_MESSAGE_BYTES     = 8192 // 单帧最大字节数
	TOKEN_EXPIRY_HOURS    = 24   // 登录凭证有效期（小时）
	PRIVATE_ROOM_PREFIX   = "private_"
	PRIVATE_NOTICE_ROOM   = "private"  // 私聊通知的房间占位符
	SYSTEM_SENDER         = "system"   // 系统公告的发送者
	CTX_USERNAME_KEY      = "username" // gin 上下文中已认证的展示名
)

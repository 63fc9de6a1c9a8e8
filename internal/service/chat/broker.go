// broker.go
// 核心职责：定义消息代理接口
// 抽象连接注册与入站事件投递，网关层只依赖此接口
package chat

// MessageBroker 定义消息代理接口
type MessageBroker interface {
	// Connect 注册已认证的连接，返回会话 ID
	Connect(username string, conn Conn) (string, error)
	// Submit 投递入站事件，代理已关闭时返回 false
	Submit(sessionID string, ev Event) bool
	// Start 启动事件消费循环
	Start()
	// Close 关闭代理资源
	Close()
}

var _ MessageBroker = (*Hub)(nil)

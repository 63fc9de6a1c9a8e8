package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init 初始化雪花算法节点
// 同一节点生成的 ID 单调递增，单进程内即可作为消息的全局唯一 ID
func Init(machineID int64) {
	nodeOnce.Do(func() {
		if machineID < 0 || machineID > 1023 {
			zap.L().Warn("invalid snowflake machine id, using 1", zap.Int64("machineID", machineID))
			machineID = 1
		}
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("failed to initialize snowflake node", zap.Error(err))
		}
		zap.L().Info("snowflake node initialized", zap.Int64("machineID", machineID))
	})
}

// GenerateIDString 生成雪花 ID (string)
// 用于 JSON 序列化，避免 JavaScript 精度丢失
func GenerateIDString() string {
	Init(1)
	return node.Generate().String()
}

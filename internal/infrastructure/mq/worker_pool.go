// Package mq 提供消息旁路投递：Kafka 写入与后台任务池
package mq

import (
	"sync"

	"go.uber.org/zap"
)

// TaskPool 固定数量的后台协程消费任务通道（纯闭包模式）
type TaskPool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewTaskPool 启动 Worker Pool
// workerNum: 后台协程数量
// bufferSize: 通道缓冲区大小
func NewTaskPool(workerNum, bufferSize int) *TaskPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	p := &TaskPool{tasks: make(chan func(), bufferSize)}
	for i := 0; i < workerNum; i++ {
		p.wg.Add(1)
		go p.startWorker()
	}
	zap.L().Info("task workers started", zap.Int("workers", workerNum), zap.Int("buffer", bufferSize))
	return p
}

// Submit 提交任务，不阻塞
// 调用方持有引擎锁，通道已满时直接丢弃而不是同步执行
func (p *TaskPool) Submit(action func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || action == nil {
		return false
	}
	select {
	case p.tasks <- action:
		return true
	default:
		zap.L().Warn("task channel full, dropping task")
		return false
	}
}

// startWorker 单个 Worker 消费循环，panic 后在同一协程内继续消费
func (p *TaskPool) startWorker() {
	defer p.wg.Done()
	for action := range p.tasks {
		p.run(action)
	}
}

func (p *TaskPool) run(action func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("task worker panic", zap.Any("recover", r))
		}
	}()
	action()
}

// Close 停止接收新任务，等待已入队的任务执行完毕
func (p *TaskPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}

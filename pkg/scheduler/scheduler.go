// Package scheduler 定时任务
package scheduler

import (
	"context"
	"fmt"
	"time"

	"gamehub/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job 定时执行的任务
type Job func(ctx context.Context) error

// Scheduler 封装 cron 调度器
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// New 创建调度器，timeout 为单次任务的最长执行时间
func New(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		timeout: timeout,
	}
}

// Register 注册任务，spec 为标准 cron 表达式或 @daily 之类的描述符
func (s *Scheduler) Register(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("注册定时任务 %s 失败: %w", name, err)
	}
	logger.Info("定时任务已注册", zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		logger.Error("定时任务执行失败", zap.String("job", name), zap.Error(err))
		return
	}
	logger.Info("定时任务执行完成", zap.String("job", name), zap.Duration("cost", time.Since(start)))
}

// Start 启动调度器（非阻塞）
func (s *Scheduler) Start() { s.cron.Start() }

// Stop 停止调度器并等待正在运行的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		logger.Warn("等待定时任务结束超时")
	}
}

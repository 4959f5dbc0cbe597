// Package activegauge はアクティブなセッション数を定期的に集計し、
// Prometheusのゲージに反映するジョブを提供する。
// アクティブなセッションとは、開始レコードに対応する終了レコードが存在しないセッションを指す。
package activegauge

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ActiveCounter はアクティブなセッション数を返すインターフェース。
// repository.SessionRepositoryが実装する。
type ActiveCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// GaugeSetter はアクティブセッション数のゲージを更新するインターフェース。
// metrics.Collectorが実装する。
type GaugeSetter interface {
	SetActiveSessions(count int)
}

// Job はアクティブセッション数の集計ジョブ。
// 読み取りのみを行うため、複数プロセスで同時に実行しても安全。
type Job struct {
	counter ActiveCounter
	gauge   GaugeSetter
	logger  *slog.Logger
	Timeout time.Duration // 1回の集計クエリのタイムアウト（デフォルト: 10秒）
}

// NewJob は新しいJobを生成する。
func NewJob(counter ActiveCounter, gauge GaugeSetter, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		counter: counter,
		gauge:   gauge,
		logger:  logger,
		Timeout: 10 * time.Second,
	}
}

// Run はアクティブセッション数を1回集計してゲージを更新する。
// 集計に失敗した場合はゲージを更新しない。
func (j *Job) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	count, err := j.counter.CountActive(ctx)
	if err != nil {
		j.logger.Error("アクティブセッション数の集計に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("アクティブセッション数の集計に失敗: %w", err)
	}

	j.gauge.SetActiveSessions(count)

	j.logger.Debug("アクティブセッション数を更新しました",
		slog.Int("active_sessions", count),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}

// Start は指定間隔のティッカーで集計ジョブを起動する。
// 起動直後に1回実行し、コンテキストがキャンセルされるまで継続する。
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("アクティブセッション集計ジョブを開始しました",
		slog.Duration("interval", interval),
	)

	// エラーはRun内でログ出力済み
	_ = j.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("アクティブセッション集計ジョブを停止しました")
			return
		case <-ticker.C:
			_ = j.Run(ctx)
		}
	}
}

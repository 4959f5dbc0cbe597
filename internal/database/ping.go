package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// initialPingBackoff は接続確認リトライの初回待機時間。
	initialPingBackoff = 500 * time.Millisecond
	// maxPingBackoff は接続確認リトライの最大待機時間。
	maxPingBackoff = 8 * time.Second
)

// Pinger はDB疎通確認のインターフェース。*sqlx.DBが実装する。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CalculatePingBackoff は失敗回数に基づいて指数バックオフの待機時間を計算する。
// 初回500ms、2倍ずつ増加、最大8秒。
func CalculatePingBackoff(failures int) time.Duration {
	delay := initialPingBackoff
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay > maxPingBackoff {
			return maxPingBackoff
		}
	}
	return delay
}

// PingWithRetry は最大attempts回まで指数バックオフで疎通確認を繰り返す。
// コンテナ起動直後などDBの準備が整っていない場合に使用する。
// attemptsが1未満の場合は1回のみ試行する。
func PingWithRetry(ctx context.Context, db Pinger, attempts int, perAttempt time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, perAttempt)
		lastErr = db.PingContext(pingCtx)
		cancel()
		if lastErr == nil {
			return nil
		}

		if i == attempts-1 {
			break
		}

		delay := CalculatePingBackoff(i)
		slog.Warn("データベースへの接続を再試行します",
			slog.Int("attempt", i+1),
			slog.Int("max_attempts", attempts),
			slog.Duration("backoff", delay),
			slog.String("error", lastErr.Error()),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("database ping aborted: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("database ping failed after %d attempts: %w", attempts, lastErr)
}

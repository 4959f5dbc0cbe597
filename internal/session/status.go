// Package session はセッションのライフサイクル管理と経過時間の算出を提供する。
//
// セッションは開始レコードと終了レコードの2つの追記専用の事実で表現される。
// 終了レコードが存在しない間はアクティブであり、終了は1回だけ行える。
package session

import (
	"fmt"
	"time"

	"github.com/hitoshi/timetrack/internal/model"
)

// Compute はセッションレコードと評価時刻から状態ビューを算出する純粋関数。
//
//   - Active: 終了レコードがない場合にtrue
//   - Total: (終了時刻 または now) − 開始時刻。丸めない
//   - Hours: Totalを1時間単位で切り上げた値。Totalが0の場合は0
//
// 終了時刻が開始時刻より前のレコードはDataIntegrityエラーとする。
// アクティブなセッションでnowが開始時刻より前の場合（時計のずれ）は経過0として扱う。
func Compute(rec model.SessionRecord, now time.Time) (model.StatusView, error) {
	view := model.StatusView{
		UserID:      rec.Start.UserID,
		SessionID:   rec.Start.SessionID,
		ProjectID:   rec.Start.ProjectID,
		StartTime:   rec.Start.StartTime,
		Description: rec.Start.Description,
		Active:      rec.End == nil,
	}

	var total time.Duration
	if rec.End != nil {
		if rec.End.EndTime.Before(rec.Start.StartTime) {
			return model.StatusView{}, model.NewDataIntegrityError(fmt.Sprintf(
				"セッション %s の終了時刻 %s が開始時刻 %s より前です",
				rec.Start.SessionID,
				rec.End.EndTime.Format(time.RFC3339Nano),
				rec.Start.StartTime.Format(time.RFC3339Nano),
			))
		}
		endTime := rec.End.EndTime
		view.EndTime = &endTime
		total = endTime.Sub(rec.Start.StartTime)
	} else {
		total = now.Sub(rec.Start.StartTime)
		if total < 0 {
			total = 0
		}
	}

	view.Total = total
	view.Hours = ceilHours(total)
	return view, nil
}

// ceilHours は経過時間を1時間単位で切り上げる。
// time.Durationの整数演算のみを使い、浮動小数点の誤差を避ける。
func ceilHours(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Hour - 1) / time.Hour)
}

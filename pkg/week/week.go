package week

import (
	"errors"
	"time"
)

// Layout 周键 / 日期键统一格式
const Layout = "2006-01-02"

var ErrInvalidKey = errors.New("周键格式无效，应为周一日期 YYYY-MM-DD")

// Monday 返回 t 所在周的周一零点（保留 t 的时区）
func Monday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 … Sunday=6
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// Key 返回 t 所在周的周键：周一日期 YYYY-MM-DD。
// 出席记录与分房文档共用此键，所有读写都必须经由这里计算。
func Key(t time.Time) string {
	return Monday(t).Format(Layout)
}

// Parse 校验外部传入的周键：必须是合法日期且为周一
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil || t.Format(Layout) != key {
		return time.Time{}, ErrInvalidKey
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, ErrInvalidKey
	}
	return t, nil
}

package clock

import "time"

// Clock 提供"当前时间"，便于在测试中固定周键与默认月份
type Clock interface {
	Now() time.Time
}

type realClock struct {
	loc *time.Location
}

// New 返回以指定时区报时的系统时钟
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return realClock{loc: loc}
}

func (c realClock) Now() time.Time { return time.Now().In(c.loc) }

// Fixed 固定时间时钟（测试用）
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

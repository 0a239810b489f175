package model

// ── 封闭枚举 ──
// 所有枚举以有序切片 + 集合表示：新增取值只改数据，不改控制流。

// Role 账号角色
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// IsValid 判断角色是否合法
func (r Role) IsValid() bool { return r == RoleAdmin || r == RoleMember }

// Slot 每周固定训练场次
type Slot string

const (
	SlotWed1 Slot = "Wed 1"
	SlotWed2 Slot = "Wed 2"
	SlotThu1 Slot = "Thu 1"
	SlotSun1 Slot = "Sun 1"
	SlotSun2 Slot = "Sun 2"
)

// Slots 按周内顺序排列的全部场次
var Slots = []Slot{SlotWed1, SlotWed2, SlotThu1, SlotSun1, SlotSun2}

// IsValid 判断场次是否合法
func (s Slot) IsValid() bool { return contains(Slots, s) }

// Order 场次在周内的序号，非法场次返回 -1
func (s Slot) Order() int {
	for i, v := range Slots {
		if v == s {
			return i
		}
	}
	return -1
}

// Mode 参加形式
type Mode string

const (
	ModeOffline Mode = "Offline"
	ModeOnline  Mode = "Online"
)

// Modes 全部参加形式（首项为表单默认值）
var Modes = []Mode{ModeOffline, ModeOnline}

// IsValid 判断参加形式是否合法
func (m Mode) IsValid() bool { return contains(Modes, m) }

// Pref 希望角色
type Pref string

const (
	PrefDebater  Pref = "Debater"
	PrefJudge    Pref = "Judge"
	PrefAudience Pref = "Audience"
	PrefAny      Pref = "Any"
)

// Prefs 全部希望角色（首项为表单默认值）
var Prefs = []Pref{PrefDebater, PrefJudge, PrefAudience, PrefAny}

// IsValid 判断希望角色是否合法
func (p Pref) IsValid() bool { return contains(Prefs, p) }

// ActiveFlag 练习日是否开展
type ActiveFlag string

const (
	ActiveYes ActiveFlag = "Yes"
	ActiveNo  ActiveFlag = "No"
)

// IsValid 判断开展标志是否合法
func (a ActiveFlag) IsValid() bool { return a == ActiveYes || a == ActiveNo }

// MotionType 辩题类别
type MotionType string

// MotionTypes 固定 24 个辩题类别
var MotionTypes = []MotionType{
	"Art", "Choice", "CJS", "Conflicts", "Economy (Corporations)",
	"Economy (Development)", "Economy (Finance and Governments)",
	"Education", "Environment", "E-Sports", "Feminism",
	"International Relations (General)", "LGBTQ", "Media",
	"Medical Ethics", "Minority", "Narrative", "Parents",
	"Politics", "Philosophy", "Relationships", "Religion",
	"Sports", "Technology",
}

// IsValid 判断辩题类别是否合法
func (m MotionType) IsValid() bool { return contains(MotionTypes, m) }

// Format 比赛赛制
type Format string

const (
	FormatNA        Format = "NA"
	FormatBP        Format = "BP"
	FormatBPOpening Format = "BP opening"
	FormatAP        Format = "AP"
)

// Formats 赛制下拉顺序
var Formats = []Format{FormatNA, FormatBP, FormatBPOpening, FormatAP}

// formatQuota 每个房间所需人数
var formatQuota = map[Format]int{
	FormatNA:        4,
	FormatBP:        8,
	FormatBPOpening: 4,
	FormatAP:        6,
}

// Quota 返回赛制的每房人数；未知赛制返回 (0, false)
func (f Format) Quota() (int, bool) {
	q, ok := formatQuota[f]
	return q, ok
}

// IsValid 判断赛制是否合法
func (f Format) IsValid() bool {
	_, ok := formatQuota[f]
	return ok
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

package service

import (
	"fmt"
	"strings"

	"quds-portal/backend/internal/model"
	pkgerrors "quds-portal/backend/pkg/errors"
)

// ── 分房模板生成 ──
//
// 模板只是骨架：标题 + roomCount 个空白 Role/Name 表，
// 具体人员由管理员手动填写后发布。

const roomBlock = "**Room**\n| Role | Name |\n|---|---|\n"

var (
	ErrUnknownFormat         = fmt.Errorf("%w: 未知赛制", pkgerrors.ErrValidation)
	ErrNegativeAttendeeCount = fmt.Errorf("%w: 人数不能为负", pkgerrors.ErrValidation)
)

// RoomCount 按赛制每房人数向下取整；余数不成房
func RoomCount(format model.Format, attendeeCount int) (int, error) {
	quota, ok := format.Quota()
	if !ok {
		return 0, ErrUnknownFormat
	}
	if attendeeCount < 0 {
		return 0, ErrNegativeAttendeeCount
	}
	return attendeeCount / quota, nil
}

// GenerateTemplate 生成分房骨架文档，返回内容与房间数
func GenerateTemplate(format model.Format, attendeeCount int) (string, int, error) {
	rooms, err := RoomCount(format, attendeeCount)
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	b.WriteString("### ")
	b.WriteString(string(format))
	b.WriteString(" Allocations\n")
	b.WriteString(strings.Repeat(roomBlock, rooms))
	return b.String(), rooms, nil
}

package errors

import "errors"

// ── 错误分类 ──
// 业务层 sentinel 通过 fmt.Errorf("%w: ...", ErrXxx) 归入以下类别，
// Handler 层用 errors.Is 判定类别并映射 HTTP 状态码。

var (
	// ErrValidation 参数校验失败：不做任何写入，调用方修正后重新提交即可
	ErrValidation = errors.New("参数校验失败")

	// ErrUnauthorized 认证失败（凭证错误 / 会话无效）
	ErrUnauthorized = errors.New("认证失败")

	// ErrForbidden 权限不足
	ErrForbidden = errors.New("无权限访问")

	// ErrOptimisticLock 并发写冲突：记录已被其他操作修改
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
)

// IsValidation 判断是否为参数校验类错误
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

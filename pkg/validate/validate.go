package validate

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"quds-portal/backend/internal/model"
)

// 自定义校验标签
const (
	TagSlot       = "slot"
	TagMotionType = "motion_type"
	TagYesNo      = "yesno"
	TagFormat     = "alloc_format"
	TagDate       = "ymd"
)

// Register 向 validator 注册社团业务枚举的校验标签，
// 错误字段名使用 json tag，便于前端定位
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		TagSlot:       func(fl validator.FieldLevel) bool { return model.Slot(fl.Field().String()).IsValid() },
		TagMotionType: func(fl validator.FieldLevel) bool { return model.MotionType(fl.Field().String()).IsValid() },
		TagYesNo:      func(fl validator.FieldLevel) bool { return model.ActiveFlag(fl.Field().String()).IsValid() },
		TagFormat:     func(fl validator.FieldLevel) bool { return model.Format(fl.Field().String()).IsValid() },
		TagDate:       func(fl validator.FieldLevel) bool { return IsDate(fl.Field().String()) },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// IsDate 判断是否为真实存在的 YYYY-MM-DD 日期
func IsDate(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	return err == nil && t.Format("2006-01-02") == s
}

// FieldErrors 将校验错误展开为 "字段: 规则" 列表
func FieldErrors(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Namespace()+": "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}

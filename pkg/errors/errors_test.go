package errors

import (
	"fmt"
	"testing"
)

func TestIsValidation_Wrapped(t *testing.T) {
	err := fmt.Errorf("%w: 名前を入力してください", ErrValidation)
	if !IsValidation(err) {
		t.Error("包装后的校验错误应被识别")
	}
	if IsValidation(ErrUnauthorized) {
		t.Error("认证错误不应被识别为校验错误")
	}
}

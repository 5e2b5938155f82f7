package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(Validation("金额格式错误")) != KindValidation {
		t.Fatalf("应识别为参数错误")
	}
	if KindOf(errors.New("裸错误")) != KindInternal {
		t.Fatalf("非业务错误应视为内部错误")
	}
	// 经过包装仍能识别类别
	wrapped := fmt.Errorf("外层: %w", NotFound("用户不存在"))
	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("包装后的业务错误应保留类别")
	}
}

func TestMessageOf(t *testing.T) {
	if got := MessageOf(Conflict("邮箱已被注册")); got != "邮箱已被注册" {
		t.Fatalf("业务错误应返回原始信息，实际 %q", got)
	}
	// 内部错误不向外暴露细节
	if got := MessageOf(errors.New("db connection refused")); got != "服务器内部错误" {
		t.Fatalf("内部错误应返回通用提示，实际 %q", got)
	}
}

func TestWrapKeepsChain(t *testing.T) {
	cause := errors.New("底层错误")
	err := Wrap(KindInvalidToken, "令牌无效或已过期", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("包装错误应保留错误链")
	}
}

package agent

import "errors"

// 模型客户端的软失败错误
// 这些错误都属于预期内的故障,路由器据此降级到下一级,绝不向调用方传播
var (
	ErrTimeout     = errors.New("model request timed out")
	ErrAuth        = errors.New("model authentication failed")
	ErrRateLimited = errors.New("model rate limited")
	ErrUnreachable = errors.New("model service unreachable")
	ErrBadResponse = errors.New("malformed model response")
)

// IsSoftFailure 判断是否为可降级的软失败
func IsSoftFailure(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrAuth) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnreachable) ||
		errors.Is(err, ErrBadResponse)
}

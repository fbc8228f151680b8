package domain

import "strings"

// Status 线索跟进状态。历史数据里是自由文本，这里收敛成固定集合，
// 未识别的值按自定义状态透传，不报错。
type Status string

const (
	StatusPending       Status = "Pending"
	StatusInterested    Status = "Interested"
	StatusNotInterested Status = "Not Interested"
	StatusTalkToLater   Status = "Talk to Later"
)

var canonical = map[string]Status{
	"pending":        StatusPending,
	"interested":     StatusInterested,
	"not interested": StatusNotInterested,
	"talk to later":  StatusTalkToLater,
}

// ParseStatus 大小写不敏感地归一到固定集合；空串无效；
// 其余值视为自定义状态原样保留。
func ParseStatus(raw string) (Status, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if c, ok := canonical[strings.ToLower(s)]; ok {
		return c, true
	}
	return Status(s), true
}

func (s Status) Custom() bool {
	_, known := canonical[strings.ToLower(string(s))]
	return !known
}

// Terminal 非 Pending 即视为已处理完（触发完成通知的判定条件）
func (s Status) Terminal() bool {
	return s != "" && s != StatusPending
}

func (s Status) String() string { return string(s) }

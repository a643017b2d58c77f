package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedJSON 模型返回内容剥掉围栏后仍无法解析时返回。
var ErrMalformedJSON = errors.New("model response is not valid json")

// TrimJSONFence 剥掉模型习惯性包裹的 ```json 围栏，并截取首个数组或对象区间。
func TrimJSONFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return s
	}
	var end int
	if s[start] == '[' {
		end = strings.LastIndex(s, "]")
	} else {
		end = strings.LastIndex(s, "}")
	}
	if end <= start {
		return s
	}
	return s[start : end+1]
}

func ParseJSONArray[T any](raw string) ([]T, error) {
	var result []T
	if err := json.Unmarshal([]byte(TrimJSONFence(raw)), &result); err != nil {
		return nil, errors.Join(ErrMalformedJSON, err)
	}
	return result, nil
}

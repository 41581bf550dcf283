package dto

import (
	"strconv"
	"time"
)

// TimeLayout 对外返回的时间格式 (东八区)
const TimeLayout = "2006/01/02 15:04:05"

var gmt8 = time.FixedZone("GMT+8", 8*3600)

// Time 以 TimeLayout 序列化的时间，零值序列化为 null
type Time time.Time

func NewTime(t time.Time) Time { return Time(t) }

// NewTimePtr 将可空的时间转为 *Time
func NewTimePtr(t *time.Time) *Time {
	if t == nil {
		return nil
	}
	v := Time(*t)
	return &v
}

func (t Time) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(tt.In(gmt8).Format(TimeLayout))), nil
}

func (t *Time) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*t = Time{}
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimeLayout, unquoted, gmt8)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

package strings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type SupportedValueParsingTypes interface {
	bool | int | uint | float64 | string | time.Time | time.Duration | uuid.UUID | *url.URL
}

func ParseTypedValue[T SupportedValueParsingTypes](value string) (T, error) {
	var v any
	var err error
	var blank T
	switch any(blank).(type) {
	case bool:
		v, err = strconv.ParseBool(value)
	case int:
		v, err = strconv.Atoi(value)
	case uint:
		var u uint64
		u, err = strconv.ParseUint(value, 10, 64)
		v = uint(u)
	case float64:
		v, err = strconv.ParseFloat(value, 64)
	case string:
		v = value
	case time.Time:
		v, err = parseTime(value)
	case time.Duration:
		v, err = time.ParseDuration(value)
	case uuid.UUID:
		v, err = uuid.Parse(value)
	case *url.URL:
		var u *url.URL
		u, err = url.Parse(value)
		if err == nil && (u.Scheme == "" || u.Host == "") {
			err = fmt.Errorf("absolute url expected, got %q", value)
		}
		v = u
	}

	if err != nil {
		return blank, fmt.Errorf("convert to type %T: %w", blank, err)
	}
	return v.(T), nil
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	unixTime, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("RFC3339 or unix time expected: %w", err)
	}
	if unixTime < 0 {
		return time.Time{}, fmt.Errorf("negative unix time %d", unixTime)
	}
	return time.Unix(unixTime, 0), nil
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
)

type DataExtractor[T any] func(*Response) (T, error)

var ErrParsingError = errors.New("parsing error")

func ParseResponse[T any](resp *Response, extractor DataExtractor[T], lastErr error) (T, error) {
	if lastErr != nil {
		var result T
		return result, lastErr
	}

	return extractor(resp)
}

func JSONBody[T any]() DataExtractor[T] {
	return func(resp *Response) (T, error) {
		var result T
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return result, fmt.Errorf("%w: decode json body into %T: %w", ErrParsingError, result, err)
		}
		return result, nil
	}
}

// Package api wraps the vocabulary backend endpoints on top of the authenticated HTTP client.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
)

const DestinationVocabAPI pkghttp.Destination = "vocab-api"

// mapError classifies backend statuses into domain errors, the operation name prefixes the message.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var statusErr *pkghttp.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrValidation, statusErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func parse[T any](op string, resp *pkghttp.Response, err error) (T, error) {
	result, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[T](), err)
	if err != nil {
		return result, mapError(op, err)
	}
	return result, nil
}

func parsePtr[T any](op string, resp *pkghttp.Response, err error) (*T, error) {
	result, err := parse[T](op, resp, err)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

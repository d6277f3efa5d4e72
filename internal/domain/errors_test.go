// internal/domain/errors_test.go
package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/waabox/scmfinder/internal/domain"
)

func TestErrUnauthorized_CanBeDetectedWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("jenkins API error: %w", domain.ErrUnauthorized)
	if !errors.Is(wrapped, domain.ErrUnauthorized) {
		t.Error("expected errors.Is to detect ErrUnauthorized in wrapped error")
	}
}

func TestErrInvalidRemoteURL_CanBeDetectedWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("%w: %s", domain.ErrInvalidRemoteURL, "not-a-url")
	if !errors.Is(wrapped, domain.ErrInvalidRemoteURL) {
		t.Error("expected errors.Is to detect ErrInvalidRemoteURL in wrapped error")
	}
}

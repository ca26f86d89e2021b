package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func normalizeString(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	v := strings.TrimSpace(*ptr)
	if v == "" {
		return nil
	}
	return &v
}

func uuidPtr(v uuid.UUID) *uuid.UUID {
	return &v
}

func validationError(problems []string) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, strings.Join(problems, "; "))
}

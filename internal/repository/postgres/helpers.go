package postgres

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

func nullString(ptr *string) sql.NullString {
	if ptr == nil {
		return sql.NullString{Valid: false}
	}
	v := strings.TrimSpace(*ptr)
	if v == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullFloat(ptr *float64) sql.NullFloat64 {
	if ptr == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *ptr, Valid: true}
}

func nullUUID(ptr *uuid.UUID) uuid.NullUUID {
	if ptr == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *ptr, Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(strings.TrimSpace(value))
}

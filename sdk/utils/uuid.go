package utils

import (
	"github.com/google/uuid"
)

// GenerateUUIDv7 genera un UUID v7 (ordenable por tiempo).
//
// Se usa como command_id para correlacionar el envío de un registro con sus
// logs y spans. Si la fuente aleatoria falla se cae a un UUID v4.
//
// Example:
//
//	id := utils.GenerateUUIDv7()
//	// => "0190a5c4-3f7e-7b3a-9c1d-2e4f5a6b7c8d"
func GenerateUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

package helpers

import "github.com/oklog/ulid/v2"

// Default code purposes. The orchestrator uses the configured values.
const (
	PurposeVerification = "verification"
	PurposeReset        = "reset"
)

// GenerateCode returns a fresh one-time code. Codes are ULIDs: unique and time-ordered,
// but guessable from their timestamp prefix, so they are only delivered out of band.
func GenerateCode() string {
	return ulid.Make().String()
}

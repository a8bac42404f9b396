package waitlist

import (
	"encoding/json"
	"fmt"

	"github.com/launchline/go-waitlist-kit/internal/models"
)

// StorageKey is the versioned slot the signup collection lives under in
// the storage medium. Bump the version suffix when the payload shape
// changes incompatibly, so old payloads are ignored instead of
// misdecoded.
const StorageKey = "waitlist_v1"

// encodeEntries renders the collection as the durable JSON payload,
// newest signup first. A nil slice encodes as an empty array so a fresh
// waitlist round-trips cleanly.
func encodeEntries(entries []models.WaitlistEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.WaitlistEntry{}
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode waitlist payload: %w", err)
	}
	return payload, nil
}

func decodeEntries(payload []byte) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("decode waitlist payload: %w", err)
	}
	if entries == nil {
		entries = []models.WaitlistEntry{}
	}
	return entries, nil
}

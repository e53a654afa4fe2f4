// Package models holds the data types shared by the SMS classification
// pipeline, its stores and its commands.
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RawMessage is an inbox SMS as delivered by a message source.
type RawMessage struct {
	Body            string `json:"body" csv:"body"`
	TimestampMillis int64  `json:"timestamp" csv:"timestamp"`
	Sender          string `json:"sender,omitempty" csv:"sender"`
}

// Time returns the message timestamp in UTC.
func (m RawMessage) Time() time.Time {
	return time.UnixMilli(m.TimestampMillis).UTC()
}

// ContentHash is the deduplication key of a message: the hex form of the
// first 8 bytes of the SHA-256 of the body.
type ContentHash string

// HashBody computes the ContentHash of a message body. Identical bodies
// always hash identically, regardless of timestamp or sender.
func HashBody(body string) ContentHash {
	sum := sha256.Sum256([]byte(body))
	return ContentHash(hex.EncodeToString(sum[:8]))
}

// String returns the hash as text.
func (h ContentHash) String() string {
	return string(h)
}

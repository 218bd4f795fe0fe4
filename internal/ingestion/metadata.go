package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an ingested resume file.
type Metadata struct {
	Filename  string `json:"filename,omitempty"`
	MIMEType  string `json:"mimeType"`
	Size      int    `json:"size"`      // raw upload size in bytes
	Hash      string `json:"hash"`      // SHA256 hex digest of the raw upload
	Timestamp string `json:"timestamp"` // RFC3339
}

// NewMetadata creates Metadata for data with the current timestamp.
func NewMetadata(data []byte, filename, mimeType string) *Metadata {
	return &Metadata{
		Filename:  filename,
		MIMEType:  mimeType,
		Size:      len(data),
		Hash:      computeHash(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func computeHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}

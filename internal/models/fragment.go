package models

import "encoding/json"

// Record is the serialized metadata of one fragment as held by a metadata
// store. Size is kept as a json.Number so non-integer values survive decoding
// and can be rejected during validation.
type Record struct {
	ID      string      `json:"id"`
	OwnerID string      `json:"ownerId"`
	Created string      `json:"created"`
	Updated string      `json:"updated"`
	Type    string      `json:"type"`
	Size    json.Number `json:"size"`
}

// DecodeRecord parses one serialized metadata record.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

package models

import "time"

// Fragment is the metadata of a stored content object as reported by the
// fragments service. The service is the only source of truth; values are
// never cached past a single render.
type Fragment struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"ownerId"`
	Type    string    `json:"type"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Size    int64     `json:"size"`
}

// FragmentList is the expanded listing returned by GET /v1/fragments?expand=1.
type FragmentList struct {
	Fragments []Fragment `json:"fragments"`
}

// FragmentIDList is the listing returned by GET /v1/fragments.
type FragmentIDList struct {
	Fragments []string `json:"fragments"`
}

// FragmentEnvelope wraps a single fragment in POST and PUT responses.
type FragmentEnvelope struct {
	Status   string   `json:"status"`
	Fragment Fragment `json:"fragment"`
}

// DeleteResult is the confirmation payload of DELETE /v1/fragments/{id}.
type DeleteResult struct {
	Status string `json:"status"`
}

// FragmentData is a fragment body decoded according to its media type.
type FragmentData struct {
	Data         Content
	FragmentType string
}

// ConvertedFragment is a fragment body fetched in another format.
type ConvertedFragment struct {
	Data Content
}

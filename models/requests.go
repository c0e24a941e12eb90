package models

// CreateRoomRequest is the body of POST /rooms.
type CreateRoomRequest struct {
	HostName    string             `json:"hostName"`
	HostPhone   string             `json:"hostPhone"`
	MaxAttempts int                `json:"maxAttempts"`
	GameKinds   []string           `json:"gameKinds"`
	Prizes      []PrizeSpecRequest `json:"prizes"`
}

// PrizeSpecRequest is one prize definition inside CreateRoomRequest.
type PrizeSpecRequest struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Value    int    `json:"value"`
	Quantity int    `json:"quantity"`
}

// JoinRequest is the body of POST /rooms/:code/join.
type JoinRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SubmitRequest is the body of POST /rooms/:code/attempts/:roundID.
// Which fields matter depends on the round kind; unused ones stay zero.
type SubmitRequest struct {
	Trigger bool     `json:"trigger"`          // shake kinds: the debounced motion event fired
	Choice  *int     `json:"choice,omitempty"` // quiz: chosen option index
	Answer  string   `json:"answer"`           // quiz free text
	Words   []string `json:"words"`            // scramble: reordered sequence
}

// UpdateRoomRequest is the body of PATCH /rooms/:code.
type UpdateRoomRequest struct {
	Status string `json:"status"`
}

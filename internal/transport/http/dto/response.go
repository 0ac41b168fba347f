package dto

type CategoryDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserShortDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// EventShort is the listing projection.
type EventShort struct {
	ID         int64        `json:"id"`
	Title      string       `json:"title"`
	Annotation string       `json:"annotation"`
	Category   CategoryDto  `json:"category"`
	EventDate  string       `json:"eventDate"`
	Initiator  UserShortDto `json:"initiator"`
	Paid       bool         `json:"paid"`
	Views      int64        `json:"views"`
}

// EventFull is the detail projection.
type EventFull struct {
	EventShort
	Description       string   `json:"description"`
	State             string   `json:"state"`
	CreatedOn         string   `json:"createdOn"`
	PublishedOn       *string  `json:"publishedOn,omitempty"`
	Location          Location `json:"location"`
	ParticipantLimit  int      `json:"participantLimit"`
	RequestModeration bool     `json:"requestModeration"`
}

type RequestDto struct {
	ID        int64  `json:"id"`
	Event     int64  `json:"event"`
	Requester int64  `json:"requester"`
	Status    string `json:"status"`
	Created   string `json:"created"`
}

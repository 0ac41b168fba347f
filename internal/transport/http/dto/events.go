package dto

// DateTimeLayout is the wire format of every timestamp in request and
// response bodies and in query parameters.
const DateTimeLayout = "2006-01-02 15:04:05"

type LocationDto struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

type NewEventReq struct {
	Title             string       `json:"title" validate:"required,min=3,max=120"`
	Annotation        string       `json:"annotation" validate:"required,min=20,max=2000"`
	Description       string       `json:"description" validate:"required,min=20,max=7000"`
	Category          int64        `json:"category" validate:"required,gt=0"`
	EventDate         string       `json:"eventDate" validate:"required,datetime=2006-01-02 15:04:05"`
	Location          *LocationDto `json:"location" validate:"required"`
	Paid              bool         `json:"paid"`
	ParticipantLimit  int          `json:"participantLimit" validate:"gte=0"`
	RequestModeration *bool        `json:"requestModeration"`
}

type UpdateUserReq struct {
	EventDate   string `json:"eventDate" validate:"required,datetime=2006-01-02 15:04:05"`
	StateAction string `json:"stateAction" validate:"required,oneof=SEND_TO_REVIEW CANCEL_REVIEW"`
}

type UpdateAdminReq struct {
	EventDate   string `json:"eventDate" validate:"required,datetime=2006-01-02 15:04:05"`
	StateAction string `json:"stateAction" validate:"required,oneof=PUBLISH_EVENT REJECT_EVENT"`
}

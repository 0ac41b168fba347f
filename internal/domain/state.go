package domain

import "strings"

type EventState string

const (
	StatePending   EventState = "PENDING"
	StatePublished EventState = "PUBLISHED"
	StateCanceled  EventState = "CANCELED"
)

func (s EventState) Valid() bool {
	return s == StatePending || s == StatePublished || s == StateCanceled
}

// ParseState accepts the exact upper-case token only.
func ParseState(raw string) (EventState, error) {
	s := EventState(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", ErrInvalidRequestMeta("unknown event state", map[string]string{
			"state": raw,
		})
	}
	return s, nil
}

// ParseStates validates every token; one unknown token fails the whole set.
func ParseStates(raw []string) ([]EventState, error) {
	out := make([]EventState, 0, len(raw))
	for _, r := range raw {
		s, err := ParseState(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// OwnerAction is a lifecycle transition requested by the event's initiator.
type OwnerAction int

const (
	ActionSendToReview OwnerAction = iota + 1
	ActionCancelReview
)

func (a OwnerAction) String() string {
	switch a {
	case ActionSendToReview:
		return "SEND_TO_REVIEW"
	case ActionCancelReview:
		return "CANCEL_REVIEW"
	default:
		return "UNKNOWN"
	}
}

func ParseOwnerAction(raw string) (OwnerAction, error) {
	switch strings.TrimSpace(raw) {
	case "SEND_TO_REVIEW":
		return ActionSendToReview, nil
	case "CANCEL_REVIEW":
		return ActionCancelReview, nil
	default:
		return 0, ErrInvalidRequestMeta("unknown state action", map[string]string{
			"stateAction": raw,
		})
	}
}

// AdminAction is a moderation decision.
type AdminAction int

const (
	ActionPublish AdminAction = iota + 1
	ActionReject
)

func (a AdminAction) String() string {
	switch a {
	case ActionPublish:
		return "PUBLISH_EVENT"
	case ActionReject:
		return "REJECT_EVENT"
	default:
		return "UNKNOWN"
	}
}

func ParseAdminAction(raw string) (AdminAction, error) {
	switch strings.TrimSpace(raw) {
	case "PUBLISH_EVENT":
		return ActionPublish, nil
	case "REJECT_EVENT":
		return ActionReject, nil
	default:
		return 0, ErrInvalidRequestMeta("unknown state action", map[string]string{
			"stateAction": raw,
		})
	}
}

package ai

import (
	"errors"
	"strings"

	"github.com/zhouzirui/po-simulator/backend/internal/model/chat"
	"github.com/zhouzirui/po-simulator/backend/internal/model/persona"
)

var (
	ErrRoleRequired    = errors.New("roleId is required")
	ErrMessageRequired = errors.New("message is required")
	ErrUnknownRole     = errors.New("invalid role id")
	ErrIncompleteEvent = errors.New("eventId and eventDescription must be provided together")
)

// ReplyRequest is one player message addressed to a persona.
type ReplyRequest struct {
	RoleID           persona.RoleID
	EventID          string
	EventDescription string
	History          []chat.Turn
	Message          string
}

// Validate reports the first client error in the request.
func (r ReplyRequest) Validate() error {
	if strings.TrimSpace(string(r.RoleID)) == "" {
		return ErrRoleRequired
	}
	if strings.TrimSpace(r.Message) == "" {
		return ErrMessageRequired
	}
	if !r.RoleID.Valid() {
		return ErrUnknownRole
	}
	if (r.EventID == "") != (r.EventDescription == "") {
		return ErrIncompleteEvent
	}
	return nil
}

// IsClientError reports whether err came from request validation.
func IsClientError(err error) bool {
	return errors.Is(err, ErrRoleRequired) ||
		errors.Is(err, ErrMessageRequired) ||
		errors.Is(err, ErrUnknownRole) ||
		errors.Is(err, ErrIncompleteEvent)
}

package app

import (
	"strings"

	"trivia-service/internal/domain"
)

// Owned is a document that belongs to the user who created it.
type Owned interface {
	OwnerID() string
}

// authorizeOwner allows the call only when callerID created the resource.
func authorizeOwner(resource Owned, callerID string) error {
	if callerID == "" || resource.OwnerID() != callerID {
		return domain.ErrForbidden
	}
	return nil
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

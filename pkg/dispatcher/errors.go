package dispatcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/transport"
)

var (
	// ErrUnknownAction is returned by Dispatch for names not in the registry.
	ErrUnknownAction = errors.New("dispatcher: unknown action")
	// ErrNotFound is returned by retrieve actions when the API answers with
	// an empty result.
	ErrNotFound = errors.New("dispatcher: not found")
)

// Flash messages shown after an action.
const (
	FlashSuccess             = "Success"
	FlashServerError         = "Server error!"
	FlashCustomerActivated   = "Customer has been Activated!"
	FlashCustomerDeactivated = "Customer has been Deactivated!"
	FlashCustomerDeleted     = "Customer has been Deleted!"
	FlashPetDeleted          = "Pet has been Deleted!"
)

// NotFoundFlash is the message shown when a retrieve finds nothing.
func NotFoundFlash(kind model.Kind) string {
	return kind.Label() + " not found"
}

func notFoundErr(kind model.Kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

// FailureFlash returns the server-provided message of an API error unchanged,
// or the generic server error text when there is none.
func FailureFlash(err error) string {
	if apiErr, ok := transport.AsAPIError(err); ok && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return FlashServerError
}

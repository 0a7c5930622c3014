package authorization

import (
	"context"
	"errors"
)

const (
	ObjectProfile      = "profile"
	ObjectOrganization = "organization"
	ObjectMachine      = "machine"
	ObjectProduct      = "product"
	ObjectInvoice      = "invoice"
	ObjectPayment      = "payment"
	ObjectDashboard    = "dashboard"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionSend   = "send"
	ActionRecord = "record"
)

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

// Service answers whether an account type may perform an action on an
// object class. Row-level scoping (own organization, own machines) is
// enforced by the services themselves.
type Service interface {
	Authorize(ctx context.Context, accountType string, object string, action string) error
}

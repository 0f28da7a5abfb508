package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/personas/internal/models"
	"github.com/mmynk/personas/internal/share"
	"github.com/mmynk/personas/internal/storage"
)

var (
	errMissingUser  = errors.New("user_id required")
	errMissingGroup = errors.New("group_id required")
	errMissingName  = errors.New("name required")
	errMissingToken = errors.New("token required")

	errMembersWithoutRecords = errors.New("member_ids requires inline records")
)

// toConnectError maps storage and validation errors onto Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, share.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, storage.ErrInvalidReference),
		errors.Is(err, models.ErrUnknownTransactionType),
		errors.Is(err, models.ErrMissingGroup),
		errors.Is(err, models.ErrMissingPayer),
		errors.Is(err, models.ErrMissingPayee):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(err error) error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}

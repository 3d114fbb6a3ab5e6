package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/pkg/api"
)

var kindCodes = map[apperrors.Kind]connect.Code{
	apperrors.KindValidation:        connect.CodeInvalidArgument,
	apperrors.KindNotFound:          connect.CodeNotFound,
	apperrors.KindConflict:          connect.CodeAborted,
	apperrors.KindStateTransition:   connect.CodeFailedPrecondition,
	apperrors.KindInsufficientFunds: connect.CodeFailedPrecondition,
}

// connectError maps an engine error onto a Connect error. Errors without a
// kind are logged and returned as internal without their message.
func connectError(procedure string, err error) error {
	kind := apperrors.KindOf(err)
	code, ok := kindCodes[kind]
	if !ok {
		slog.Error(procedure+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	if apperrors.IsIntegrity(err) {
		slog.Error(procedure+" failed", "error", err, "integrity", true)
	} else {
		slog.Warn(procedure+" rejected", "code", code, "error", err)
	}

	cerr := connect.NewError(code, err)
	cerr.Meta().Set(api.ErrorKindHeader, string(kind))
	return cerr
}

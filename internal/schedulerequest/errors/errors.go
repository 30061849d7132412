package schedulerequesterrors

import (
	"net/http"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"schedule request not found",
		http.StatusNotFound,
	)

	ErrAlreadyProcessed = apperror.New(
		apperror.CodeAlreadyProcessed,
		"schedule request has already been processed",
		http.StatusConflict,
	)

	ErrPeerApprovalPending = apperror.New(
		apperror.CodePeerApprovalPending,
		"interchange partner has not approved this request yet",
		http.StatusConflict,
	)

	ErrInvalidPeer = apperror.New(
		apperror.CodeInvalidPeer,
		"selected colleague is not a valid interchange partner",
		http.StatusBadRequest,
	)

	ErrDuplicateRequest = apperror.New(
		apperror.CodeConflict,
		"an open schedule request already exists for this shift date",
		http.StatusConflict,
	)

	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection reason is required",
		http.StatusBadRequest,
	)

	ErrEmployeeNotInBranch = apperror.New(
		apperror.CodeForbidden,
		"employee does not belong to this branch",
		http.StatusForbidden,
	)
)

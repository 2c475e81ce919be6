package controllers

import (
	"errors"
	"net/http"

	"github.com/zhiming817/learn2earn/settlement"
	"github.com/zhiming817/learn2earn/utils"
	"github.com/zhiming817/learn2earn/workflow"
)

// WriteError maps workflow and settlement failures onto HTTP statuses and
// stable reason codes. Unrecognized errors become opaque 500s.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrUnauthorized):
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
			Success: false, Message: "Forbidden", Code: utils.CodeUnauthorized,
		})
	case errors.Is(err, workflow.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{
			Success: false, Message: "Not found", Code: utils.CodeNotFound,
		})
	case errors.Is(err, workflow.ErrConflict):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
			Success: false, Message: err.Error(), Code: utils.CodeConflict,
		})
	case errors.Is(err, workflow.ErrInvalidState):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
			Success: false, Message: err.Error(), Code: utils.CodeInvalidState,
		})
	case errors.Is(err, workflow.ErrValidation),
		errors.Is(err, settlement.ErrInvalidRecipient),
		errors.Is(err, settlement.ErrInvalidAmount):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false, Message: err.Error(), Code: utils.CodeValidationError,
		})
	case errors.Is(err, settlement.ErrInsufficientFunds):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, utils.APIResponse{
			Success: false, Message: err.Error(), Code: utils.CodeInsufficientFunds,
		})
	case errors.Is(err, settlement.ErrNoWallet):
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{
			Success: false, Message: err.Error(), Code: utils.CodeNoWallet,
		})
	case errors.Is(err, settlement.ErrExternalFailure):
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{
			Success: false, Message: err.Error(), Code: utils.CodeExternalFailure,
		})
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false, Message: "Internal server error",
		})
	}
}

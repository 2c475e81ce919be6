package admins

import (
	"net/http"

	"github.com/zhiming817/learn2earn/controllers"
	"github.com/zhiming817/learn2earn/middleware"
	"github.com/zhiming817/learn2earn/utils"
)

type SettleRequest struct {
	Recipient string  `json:"recipient" validate:"required,suiaddr"`
	Amount    float64 `json:"amount"`
	Token     string  `json:"token"`
	Memo      string  `json:"memo"`
}

// POST /api/admin/submissions/{id}/settle
//
// One settlement attempt. The coordinator orders the precondition checks
// and records the outcome; a failed attempt leaves the submission open for
// another try. Repeat calls on an already-settled submission are allowed
// and each produce their own payout record.
func SettleHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.GetActor(r)
	id, ok := submissionID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid submission id", Code: utils.CodeValidationError})
		return
	}
	var req SettleRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	payout, err := coordinator.Initiate(r.Context(), actor, id, req.Recipient, req.Amount, req.Token, req.Memo)
	if err != nil {
		controllers.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Payout sent", Data: payout})
}

// GET /api/admin/submissions/{id}/payouts
func PayoutHistoryHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.GetActor(r)
	id, ok := submissionID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid submission id", Code: utils.CodeValidationError})
		return
	}
	payouts, err := coordinator.History(r.Context(), actor, id)
	if err != nil {
		controllers.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: payouts})
}

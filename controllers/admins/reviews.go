package admins

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zhiming817/learn2earn/controllers"
	"github.com/zhiming817/learn2earn/utils"
)

func submissionID(r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}

// POST /api/admin/submissions/{id}/review
func StartReviewHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.GetActor(r)
	id, ok := submissionID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid submission id", Code: utils.CodeValidationError})
		return
	}
	sub, err := engine.StartReview(r.Context(), actor, id)
	if err != nil {
		controllers.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Review started", Data: sub})
}

// POST /api/admin/submissions/{id}/approve
func ApproveHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.GetActor(r)
	id, ok := submissionID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid submission id", Code: utils.CodeValidationError})
		return
	}
	sub, err := engine.Approve(r.Context(), actor, id)
	if err != nil {
		controllers.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Submission approved", Data: sub})
}

type RejectRequest struct {
	Note *string `json:"note"`
}

// POST /api/admin/submissions/{id}/reject
func RejectHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.GetActor(r)
	id, ok := submissionID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid submission id", Code: utils.CodeValidationError})
		return
	}
	var req RejectRequest
	if r.Body != nil {
		// body is optional; the note is stored verbatim when present
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	sub, err := engine.Reject(r.Context(), actor, id, req.Note)
	if err != nil {
		controllers.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Submission rejected", Data: sub})
}

// GET /api/admin/tasks/{id}/submissions?page=&page_size=&status=
func TaskSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || taskID < 1 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id", Code: utils.CodeValidationError})
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")

	result, err := engine.ListByTask(r.Context(), uint(taskID), page, pageSize, status)
	if err != nil {
		controllers.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: result})
}

package users

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zhiming817/learn2earn/controllers"
	"github.com/zhiming817/learn2earn/middleware"
	"github.com/zhiming817/learn2earn/utils"
)

type SubmitRequest struct {
	TaskID uint   `json:"task_id"`
	PrURL  string `json:"pr_url" validate:"required,url"`
}

// POST /api/submissions
func SubmitHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.GetActor(r)
	var req SubmitRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.TaskID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "task_id is required", Code: utils.CodeValidationError})
		return
	}

	sub, err := engine.Submit(r.Context(), actor, req.TaskID, req.PrURL)
	if err != nil {
		controllers.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Submission received", Data: sub})
}

// GET /api/submissions/{id}
func SubmissionDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid submission id", Code: utils.CodeValidationError})
		return
	}
	sub, gerr := engine.Get(r.Context(), uint(id))
	if gerr != nil {
		controllers.WriteError(w, gerr)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: sub})
}

// GET /api/tasks/{id}/submissions?page=&page_size=&status=
func TaskSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || taskID < 1 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id", Code: utils.CodeValidationError})
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")

	result, lerr := engine.ListByTask(r.Context(), uint(taskID), page, pageSize, status)
	if lerr != nil {
		controllers.WriteError(w, lerr)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: result})
}

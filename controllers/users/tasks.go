package users

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zhiming817/learn2earn/controllers"
	"github.com/zhiming817/learn2earn/database"
	"github.com/zhiming817/learn2earn/models"
	"github.com/zhiming817/learn2earn/utils"
)

// GET /api/tasks?page=&limit=&search=
//
// Paginated task catalog annotated with the caller's claim status.
func TaskListHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.GetActor(r)
	db := database.DB

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := db.Model(&models.Task{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tasks).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// the caller's claims for the visible tasks, one query
	claimMap := make(map[uint]string, len(tasks))
	if len(tasks) > 0 {
		var ids []uint
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
		var claims []models.TaskClaim
		if err := db.Where("user_id = ? AND task_id IN ?", actor.UserID, ids).Find(&claims).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		for _, c := range claims {
			claimMap[c.TaskID] = c.Status
		}
	}

	type TaskItem struct {
		models.Task
		ClaimStatus string `json:"claim_status,omitempty"`
	}
	items := make([]TaskItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, TaskItem{Task: t, ClaimStatus: claimMap[t.ID]})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"tasks": items,
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GET /api/tasks/all
//
// Unpaginated catalog for pickers and dashboards.
func TaskListAllHandler(w http.ResponseWriter, r *http.Request) {
	var tasks []models.Task
	if err := database.DB.Order("created_at DESC").Find(&tasks).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: tasks})
}

// GET /api/tasks/{id}
func TaskDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id", Code: utils.CodeValidationError})
		return
	}
	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found", Code: utils.CodeNotFound})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: task})
}

// POST /api/tasks/{id}/claim
func ClaimTaskHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.GetActor(r)
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id", Code: utils.CodeValidationError})
		return
	}
	claim, cerr := engine.Claim(r.Context(), actor, uint(id))
	if cerr != nil {
		controllers.WriteError(w, cerr)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Task claimed", Data: claim})
}

// POST /api/tasks/{id}/complete
func CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.GetActor(r)
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id", Code: utils.CodeValidationError})
		return
	}
	claim, cerr := engine.Complete(r.Context(), actor, uint(id))
	if cerr != nil {
		controllers.WriteError(w, cerr)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task completed", Data: claim})
}

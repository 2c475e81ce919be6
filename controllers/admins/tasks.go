package admins

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/zhiming817/learn2earn/database"
	"github.com/zhiming817/learn2earn/middleware"
	"github.com/zhiming817/learn2earn/models"
	"github.com/zhiming817/learn2earn/utils"
)

type TaskRequest struct {
	Code        string `json:"code" validate:"required,codeok"`
	Name        string `json:"name" validate:"required"`
	RewardCNY   int    `json:"reward_cny"`
	RewardToken string `json:"reward_token"`
	Description string `json:"description"`
}

// POST /api/admin/tasks
func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	task := models.Task{
		Code:        req.Code,
		Name:        req.Name,
		RewardCNY:   req.RewardCNY,
		RewardToken: req.RewardToken,
		Description: req.Description,
	}
	if err := database.DB.Create(&task).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Task code already exists", Code: utils.CodeConflict})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Task created", Data: task})
}

// PUT /api/admin/tasks/{id}
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]

	var req TaskRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB
	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found", Code: utils.CodeNotFound})
		return
	}

	task.Code = req.Code
	task.Name = req.Name
	task.RewardCNY = req.RewardCNY
	task.RewardToken = req.RewardToken
	task.Description = req.Description

	if err := db.Save(&task).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Task code already exists", Code: utils.CodeConflict})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}

// DELETE /api/admin/tasks/{id}
func DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id", Code: utils.CodeValidationError})
		return
	}

	db := database.DB

	// A task with submissions is history, not clutter. Refuse to delete it.
	var subCount int64
	if err := db.Model(&models.Submission{}).Where("task_id = ?", id).Count(&subCount).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if subCount > 0 {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Task has submissions and cannot be deleted", Code: utils.CodeConflict})
		return
	}

	res := db.Delete(&models.Task{}, id)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found", Code: utils.CodeNotFound})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task deleted"})
}

// GET /api/admin/tasks
func TaskListHandler(w http.ResponseWriter, r *http.Request) {
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

	// claim counts per task, one grouped query
	type taskCount struct {
		TaskID uint
		Cnt    int64
	}
	countMap := make(map[uint]int64, len(tasks))
	if len(tasks) > 0 {
		var ids []uint
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
		var counts []taskCount
		if err := db.Table("task_claims").
			Select("task_id, COUNT(*) as cnt").
			Where("task_id IN ?", ids).
			Group("task_id").
			Scan(&counts).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		for _, c := range counts {
			countMap[c.TaskID] = c.Cnt
		}
	}

	type TaskWithStats struct {
		models.Task
		TotalClaimed int64 `json:"total_claimed"`
	}
	items := make([]TaskWithStats, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, TaskWithStats{Task: t, TotalClaimed: countMap[t.ID]})
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

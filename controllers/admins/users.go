package admins

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/zhiming817/learn2earn/database"
	"github.com/zhiming817/learn2earn/middleware"
	"github.com/zhiming817/learn2earn/models"
	"github.com/zhiming817/learn2earn/utils"
)

type CreateUserRequest struct {
	Username string   `json:"username" validate:"required"`
	Password string   `json:"password" validate:"required,pwdmin"`
	RoleKeys []string `json:"role_keys"`
}

// POST /api/admin/users
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	var roles []models.Role
	if len(req.RoleKeys) > 0 {
		if err := db.Where("role_key IN ?", req.RoleKeys).Find(&roles).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		if len(roles) != len(req.RoleKeys) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unknown role key", Code: utils.CodeValidationError})
			return
		}
	}

	user := models.User{Username: req.Username, Password: req.Password, Status: "Active", Roles: roles}
	if err := user.HashPassword(); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if err := db.Create(&user).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Username already exists", Code: utils.CodeConflict})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "User created",
		Data: map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"roles":    user.RoleKeys(),
		},
	})
}

// GET /api/admin/users
func UserListHandler(w http.ResponseWriter, r *http.Request) {
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

	query := db.Model(&models.User{})
	if search != "" {
		query = query.Where("username LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var users []models.User
	if err := query.Preload("Roles").Order("id DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	type UserItem struct {
		ID        uint     `json:"id"`
		Username  string   `json:"username"`
		Status    string   `json:"status"`
		RoleKeys  []string `json:"role_keys"`
		CreatedAt string   `json:"created_at"`
	}
	items := make([]UserItem, 0, len(users))
	for i := range users {
		items = append(items, UserItem{
			ID:        users[i].ID,
			Username:  users[i].Username,
			Status:    users[i].Status,
			RoleKeys:  users[i].RoleKeys(),
			CreatedAt: users[i].CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"users": items,
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

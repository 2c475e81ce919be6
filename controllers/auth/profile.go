package auth

import (
	"net/http"

	"github.com/zhiming817/learn2earn/database"
	"github.com/zhiming817/learn2earn/models"
	"github.com/zhiming817/learn2earn/utils"
)

// ProfileHandler returns the authenticated user's identity, roles and
// permission keys as stored, not as carried by the token.
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActor(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized", Code: utils.CodeUnauthorized})
		return
	}
	user, err := models.GetUserByID(database.DB, actor.UserID)
	if err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found", Code: utils.CodeNotFound})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"id":          user.ID,
			"username":    user.Username,
			"status":      user.Status,
			"roles":       user.RoleKeys(),
			"permissions": user.PermissionKeys(),
			"created_at":  user.CreatedAt,
		},
	})
}

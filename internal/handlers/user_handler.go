package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"salescrm/internal/authz"
	"salescrm/internal/models"
	"salescrm/internal/services"
)

type UserHandler struct {
	service services.UserService
}

type createUserRequest struct {
	Name                   string  `json:"name" binding:"required"`
	Email                  string  `json:"email" binding:"required,email"`
	Password               string  `json:"password" binding:"required,min=6"`
	RoleID                 int     `json:"role_id"`
	SalesTarget            float64 `json:"sales_target"`
	IncentivePerConversion float64 `json:"incentive_per_conversion"`
}

type addPointsRequest struct {
	Points int `json:"points" binding:"required"`
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// sanitize drops credential material before a user leaves the API.
func sanitize(u *models.User) *models.User {
	cp := *u
	cp.PasswordHash = ""
	cp.RefreshToken = nil
	return &cp
}

// @Summary      Create a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user  body      createUserRequest  true  "User"
// @Success      201   {object}  models.User
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if roleID != authz.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admin can create users"})
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RoleID == 0 {
		req.RoleID = authz.RoleSales
	}

	user := &models.User{
		Name:                   req.Name,
		Email:                  req.Email,
		RoleID:                 req.RoleID,
		SalesTarget:            req.SalesTarget,
		IncentivePerConversion: req.IncentivePerConversion,
	}
	if err := h.service.CreateUserWithPassword(user, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sanitize(user))
}

// @Summary      Get a user
// @Tags         Users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.User
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	callerID, roleID := getUserAndRole(c)
	if callerID != id && !authz.IsElevated(roleID) && roleID != authz.RoleAudit {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	user, err := h.service.GetUserByID(id)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, sanitize(user))
}

// @Summary      List users
// @Tags         Users
// @Produce      json
// @Param        page  query  int  false  "Page"
// @Param        size  query  int  false  "Page size"
// @Success      200  {array}  models.User
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if !authz.IsElevated(roleID) && roleID != authz.RoleAudit {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	limit, offset := pageParams(c)
	users, err := h.service.ListUsers(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		out = append(out, sanitize(u))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      List sales representatives
// @Tags         Users
// @Produce      json
// @Success      200  {array}  models.User
// @Router       /users/representatives [get]
func (h *UserHandler) ListRepresentatives(c *gin.Context) {
	reps, err := h.service.ListRepresentatives()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list representatives"})
		return
	}
	out := make([]*models.User, 0, len(reps))
	for _, u := range reps {
		out = append(out, sanitize(u))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Total user count
// @Tags         Users
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /users/count [get]
func (h *UserHandler) GetUserCount(c *gin.Context) {
	n, err := h.service.GetUserCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// @Summary      User count by role
// @Tags         Users
// @Produce      json
// @Param        role_id  path  int  true  "Role ID"
// @Success      200  {object}  map[string]int
// @Router       /users/count/role/{role_id} [get]
func (h *UserHandler) GetUserCountByRole(c *gin.Context) {
	roleID, err := strconv.Atoi(c.Param("role_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role_id"})
		return
	}
	n, err := h.service.GetUserCountByRole(roleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// @Summary      Update a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "User ID"
// @Param        user  body      models.User  true  "User"
// @Success      200   {object}  models.User
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	callerID, roleID := getUserAndRole(c)
	if callerID != id && roleID != authz.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	current, err := h.service.GetUserByID(id)
	if err != nil || current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var body models.User
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id
	body.PasswordHash = current.PasswordHash
	// role changes are admin-only
	if roleID != authz.RoleAdmin {
		body.RoleID = current.RoleID
	}

	if err := h.service.UpdateUser(&body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sanitize(&body))
}

// @Summary      Delete a user
// @Tags         Users
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	_, roleID := getUserAndRole(c)
	if roleID != authz.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admin can delete users"})
		return
	}

	if err := h.service.DeleteUser(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Record points for a representative
// @Description  Appends a dated point snapshot; history is append-only.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id      path  int               true  "User ID"
// @Param        points  body  addPointsRequest  true  "Points"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/points [post]
func (h *UserHandler) AddPoints(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	_, roleID := getUserAndRole(c)
	if !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req addPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.AddPoints(id, req.Points); err != nil {
		switch err {
		case services.ErrUnknownRepresentative, services.ErrNotSalesRole:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// @Summary      Point history for a representative
// @Tags         Users
// @Produce      json
// @Param        id      path   int     true   "User ID"
// @Param        period  query  string  false  "week, month, quarter or year"
// @Success      200  {array}   models.PointSnapshot
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/points [get]
func (h *UserHandler) PointHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	callerID, roleID := getUserAndRole(c)
	if callerID != id && !authz.IsElevated(roleID) && roleID != authz.RoleAudit {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	period, ok := services.ParsePeriod(c.DefaultQuery("period", "month"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period"})
		return
	}

	history, err := h.service.PointHistory(id, period.Cutoff(time.Now()))
	if err != nil {
		switch err {
		case services.ErrUnknownRepresentative, services.ErrNotSalesRole:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load point history"})
		}
		return
	}
	c.JSON(http.StatusOK, history)
}

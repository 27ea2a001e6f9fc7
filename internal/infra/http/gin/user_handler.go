package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	userapp "rentify/internal/app/handlers/users"
	"rentify/internal/app/queries"
)

type UserHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type registerUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

func (h UserHandler) Register(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := userapp.RegisterUserCommand{
		CommandID: generateCommandID(),
		Username:  req.Username,
		Email:     req.Email,
	}
	result, err := commands.Dispatch[userapp.RegisterUserCommand, dto.User](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h UserHandler) Get(c *gin.Context) {
	q := userapp.UserByUsernameQuery{Username: c.Param("username")}
	result, err := queries.Ask[userapp.UserByUsernameQuery, dto.User](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ UserHTTP = UserHandler{}

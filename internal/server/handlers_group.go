package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisaab-app/hisaab/internal/middleware"
)

type createGroupRequest struct {
	Name string `json:"groupName"`
}

type joinGroupRequest struct {
	Code string `json:"uniqueCode"`
}

func (s *Server) handleListGroups(c *gin.Context) {
	groups, err := s.groups.ListUserGroups(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (s *Server) handleCreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := s.groups.CreateGroup(c.Request.Context(), req.Name, middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": group})
}

func (s *Server) handleJoinGroup(c *gin.Context) {
	var req joinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := s.groups.JoinByCode(c.Request.Context(), req.Code, middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

func (s *Server) handleGetGroup(c *gin.Context) {
	group, members, err := s.groups.GetGroupForMember(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group, "memberProfiles": members})
}

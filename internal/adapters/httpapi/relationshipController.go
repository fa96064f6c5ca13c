package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountPort "socialcore/internal/ports/account"
	relationshipPort "socialcore/internal/ports/relationship"
)

type RelationshipController struct{ rc RelationshipUseCase }

func NewRelationshipController(rc RelationshipUseCase) *RelationshipController {
	return &RelationshipController{rc: rc}
}

func (ctl *RelationshipController) Follow(c *gin.Context) {
	var req struct {
		FollowedID string `json:"followed_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := ctl.rc.Follow(c.Request.Context(), userID, req.FollowedID); err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "successfully followed user"})
}

func (ctl *RelationshipController) Unfollow(c *gin.Context) {
	var req struct {
		UnfollowedID string `json:"unfollowed_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := ctl.rc.Unfollow(c.Request.Context(), userID, req.UnfollowedID); err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "successfully unfollowed user"})
}

func (ctl *RelationshipController) IsFollowing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	target := c.Param("id")
	following, err := ctl.rc.IsFollowing(c.Request.Context(), userID, target)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, relationshipPort.FollowStatusDTO{
		FollowerID: userID,
		FollowedID: target,
		Following:  following,
	})
}

func (ctl *RelationshipController) Following(c *gin.Context) {
	following, err := ctl.rc.ListFollowing(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, accountPort.ToDTOs(following))
}

func (ctl *RelationshipController) Followers(c *gin.Context) {
	followers, err := ctl.rc.ListFollowers(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, accountPort.ToDTOs(followers))
}

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	micropostPort "socialcore/internal/ports/micropost"
)

type MicropostController struct{ mc MicropostUseCase }

func NewMicropostController(mc MicropostUseCase) *MicropostController {
	return &MicropostController{mc: mc}
}

func (ctl *MicropostController) Create(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	p, err := ctl.mc.CreateMicropost(c.Request.Context(), userID, req.Content)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusCreated, micropostPort.ToDTO(p))
}

func (ctl *MicropostController) Feed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	start, err := strconv.ParseInt(c.DefaultQuery("start", "0"), 10, 64)
	if err != nil || start < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	posts, err := ctl.mc.FeedPage(c.Request.Context(), userID, start, limit)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feed": micropostPort.ToDTOs(posts)})
}

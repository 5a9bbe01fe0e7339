package handlers

import (
	"net/http"

	"carebook/utils"

	"github.com/gin-gonic/gin"
)

// Healthz returns the latest health snapshot of external collaborators.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}

package audio

import (
	"net/http"

	"akshit029/vig-api/internal"

	"github.com/gin-gonic/gin"
)

// Stream serves an artifact for inline playback. http.ServeFile handles
// Range requests, so seeking in the player works
func Stream(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fileName := c.Param("fileName")

	path, ok := d.Store.Resolve(c.Request.Context(), fileName)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Audio file not found",
			"requestID": requestID,
		})
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "no-cache")

	http.ServeFile(c.Writer, c.Request, path)
}

// Download serves the same artifact but forces a save dialog. The file is
// left in place afterwards, the TTL sweeper owns deletion so retried
// downloads keep working
func Download(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fileName := c.Param("fileName")

	path, ok := d.Store.Resolve(c.Request.Context(), fileName)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Audio file not found",
			"requestID": requestID,
		})
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)

	http.ServeFile(c.Writer, c.Request, path)
}

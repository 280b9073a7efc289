package handlers

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/matcha-tracker/internal/handlers/dto"
)

type HealthHandler struct {
	now func() time.Time
	ip  string
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now, ip: resolveIP()}
}

// Welcome answers the root path.
func (h *HealthHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Matcha Drinking Tracker API."})
}

func (h *HealthHandler) Health(c *gin.Context) {
	var echo *string
	if v, ok := c.GetQuery("echo"); ok {
		echo = &v
	}
	var pathEcho *string
	if v := c.Param("path_echo"); v != "" {
		pathEcho = &v
	}

	c.JSON(http.StatusOK, dto.NewHealth(h.now(), h.ip, echo, pathEcho))
}

// resolveIP returns the first address the host name resolves to.
func resolveIP() string {
	host, err := os.Hostname()
	if err == nil {
		if addrs, err := net.LookupHost(host); err == nil && len(addrs) > 0 {
			return addrs[0]
		}
	}
	return "127.0.0.1"
}

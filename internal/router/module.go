package router

import "github.com/gin-gonic/gin"

// Module is a self-contained route group (auth, users, email, debug). Each one
// attaches its own endpoints and per-route middleware to the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

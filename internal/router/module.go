package router

import "github.com/gin-gonic/gin"

// Module registers its routes on the group it is given: /api for feature
// modules, the engine root for operational ones.
type Module interface {
	Register(rg *gin.RouterGroup)
}

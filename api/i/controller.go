package i

import "github.com/gin-gonic/gin"

// Controller mounts a group of routes. Protected routes run behind the
// bearer token middleware and can read the player id from the context.
type Controller interface {
	RegisterPublic(*gin.RouterGroup)
	RegisterProtected(*gin.RouterGroup)
}

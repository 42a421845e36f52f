package api

import "github.com/gin-gonic/gin"

// Controller registers endpoints on a group. Authenticated verbs run the group's auth
// chain first; PUBLIC_ verbs skip it.
type Controller struct {
	Group *gin.RouterGroup
	auth  []gin.HandlerFunc
}

func (c *Controller) handle(method, path string, h HandlerFuncWithAuth) {
	chain := append(append([]gin.HandlerFunc{}, c.auth...), ResolveEndpointWithAuth(h))
	c.Group.Handle(method, path, chain...)
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth)    { c.handle("GET", path, h) }
func (c *Controller) POST(path string, h HandlerFuncWithAuth)   { c.handle("POST", path, h) }
func (c *Controller) PUT(path string, h HandlerFuncWithAuth)    { c.handle("PUT", path, h) }
func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) { c.handle("DELETE", path, h) }

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc, extra ...gin.HandlerFunc) {
	c.Group.GET(path, append(extra, ResolveEndpoint(h))...)
}

func (c *Controller) PUBLIC_POST(path string, h HandlerFunc, extra ...gin.HandlerFunc) {
	c.Group.POST(path, append(extra, ResolveEndpoint(h))...)
}

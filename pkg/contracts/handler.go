package contracts

import "github.com/julienschmidt/httprouter"

// Handler is anything that mounts its routes on a router: the API handlers and the health checks.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

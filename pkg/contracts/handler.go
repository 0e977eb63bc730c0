package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every HTTP handler group that knows how to
// attach its routes to a router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the API handlers mounted by the router.
type ApiHandleFunctions struct {
	// Routes for the orders part of the API
	OrderAPI OrderAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	handleFunctions.OrderAPI.ensureResponder()
	router := gin.New()
	router.Use(gin.Logger(), handleFunctions.OrderAPI.responder.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine and installs
// the order validation rules.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	if err := registerValidators(); err != nil {
		panic(err)
	}
	handleFunctions.OrderAPI.ensureResponder()
	for _, route := range getRoutes(handleFunctions) {
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	responder := handleFunctions.OrderAPI.responder
	router.NoRoute(func(c *gin.Context) {
		responder.NotFound(c, "No handler found for "+c.Request.Method+" "+c.Request.URL.Path)
	})
	return router
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"CreateOrder",
			http.MethodPost,
			"/orders",
			handleFunctions.OrderAPI.CreateOrder,
		},
		{
			"GetAllOrders",
			http.MethodGet,
			"/orders",
			handleFunctions.OrderAPI.GetAllOrders,
		},
		{
			"GetOrderById",
			http.MethodGet,
			"/orders/:orderId",
			handleFunctions.OrderAPI.GetOrderById,
		},
		{
			"UpdateOrderStatus",
			http.MethodPut,
			"/orders/:orderId/status",
			handleFunctions.OrderAPI.UpdateOrderStatus,
		},
	}
}

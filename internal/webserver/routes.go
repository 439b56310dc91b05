package webserver

import "github.com/labstack/echo/v4"

// Authenticated admin API routes, mounted under /api.

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// Public routes, no authentication.

func PubGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.GET(path, h, m...)
}

func PubPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.POST(path, h, m...)
}

func PubPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.PUT(path, h, m...)
}

func PubDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.DELETE(path, h, m...)
}

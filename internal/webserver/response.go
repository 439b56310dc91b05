package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RestResult is the common response envelope.
type RestResult struct {
	Code    int         `json:"code"`
	Msgtype string      `json:"msgtype"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResult wraps paginated list data.
type PageResult struct {
	TotalCount int64       `json:"total_count"`
	Pos        int64       `json:"pos"`
	Data       interface{} `json:"data"`
}

// OK sends a success envelope.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, RestResult{Code: 0, Msgtype: "info", Msg: "success", Data: data})
}

// OKMsg sends a success envelope with a custom message and no data.
func OKMsg(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, RestResult{Code: 0, Msgtype: "info", Msg: msg})
}

// Fail sends an error envelope with the given HTTP status and error code.
func Fail(c echo.Context, status int, code string, msg string) error {
	return c.JSON(status, RestResult{Code: 1, Msgtype: code, Msg: msg})
}

// Paged sends a paginated success envelope.
func Paged(c echo.Context, total int64, pos int64, data interface{}) error {
	return c.JSON(http.StatusOK, PageResult{TotalCount: total, Pos: pos, Data: data})
}

package shared

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint returns. Clients that consume the
// grading endpoint rely on the success/data pair; see client.Normalize.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var jsonAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

var (
	successResponse       = mustMarshal(Response{Success: true, Code: 200, Message: "Success"})
	createdResponse       = mustMarshal(Response{Success: true, Code: 201, Message: "Created"})
	notFoundResponse      = mustMarshal(Response{Code: 404, Message: "Not Found"})
	unauthorizedResponse  = mustMarshal(Response{Code: 401, Message: "Unauthorized"})
	badRequestResponse    = mustMarshal(Response{Code: 400, Message: "Bad Request"})
	forbiddenResponse     = mustMarshal(Response{Code: 403, Message: "Forbidden"})
	internalErrorResponse = mustMarshal(Response{Code: 500, Message: "Internal Server Error"})
)

func mustMarshal(v interface{}) []byte {
	b, _ := jsonAPI.Marshal(v)
	return b
}

func cannedResponse(httpCode int, message string) []byte {
	switch httpCode {
	case http.StatusOK:
		if message == "Success" {
			return successResponse
		}
	case http.StatusCreated:
		if message == "Created" {
			return createdResponse
		}
	case http.StatusBadRequest:
		if message == "Bad Request" {
			return badRequestResponse
		}
	case http.StatusUnauthorized:
		if message == "Unauthorized" {
			return unauthorizedResponse
		}
	case http.StatusForbidden:
		if message == "Forbidden" {
			return forbiddenResponse
		}
	case http.StatusNotFound:
		if message == "Not Found" {
			return notFoundResponse
		}
	case http.StatusInternalServerError:
		return internalErrorResponse
	}
	return nil
}

func ResponseJSON(c *fiber.Ctx, httpCode int, message string, data interface{}) error {
	if data == nil {
		if canned := cannedResponse(httpCode, message); canned != nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.Status(httpCode).Send(canned)
		}
	}

	body, err := jsonAPI.Marshal(Response{
		Success: httpCode < 400,
		Code:    httpCode,
		Message: message,
		Data:    data,
	})
	if err != nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.Status(http.StatusInternalServerError).Send(internalErrorResponse)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(httpCode).Send(body)
}

func ResponseInternalError(c *fiber.Ctx, err error) error {
	return ResponseJSON(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
}

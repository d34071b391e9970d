package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"receipt-relay/internal/receipt"
	"receipt-relay/internal/response"
	"receipt-relay/internal/services"
	"receipt-relay/pkg/logging"

	"github.com/gin-gonic/gin"
)

// ErrorHandler is the single error sink for the request pipeline. Handlers
// report failures with c.Error instead of writing responses themselves;
// this middleware decides status codes and rendering afterwards.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors[0].Err
		logging.Errorf("request failed - path: %s, error: %v", c.Request.URL.Path, err)

		var upstreamErr *services.UpstreamError
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, receipt.ErrMalformedPayload),
			errors.As(err, &syntaxErr),
			errors.As(err, &typeErr),
			errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			response.ErrorJSON(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &upstreamErr):
			response.ErrorJSON(c, http.StatusBadGateway, err.Error())
		default:
			response.ErrorJSON(c, http.StatusInternalServerError, err.Error())
		}
	}
}

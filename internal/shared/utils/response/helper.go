package response

import (
	"ticketbooker/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a domain error onto its HTTP status. The error kind is
// exposed so clients can branch on it without parsing the message.
func RespondError(c *gin.Context, message string, err error) {
	RespondJSON(c, "error", apperrors.HTTPStatus(err), message, nil, ErrorDetail{
		Kind:   string(apperrors.KindOf(err)),
		Detail: err.Error(),
	})
}

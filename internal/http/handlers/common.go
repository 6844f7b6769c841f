package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// BindAndValidate parses the JSON body and runs struct validation tags.
// Responds with details per failing field when validation fails.
func BindAndValidate[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", "invalid payload", err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		details := map[string]string{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				details[ve.Field()] = "failed on '" + ve.Tag() + "'"
			}
		}
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload", details)
		return false
	}
	return true
}

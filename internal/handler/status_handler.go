package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dailystatus/internal/form"
	"github.com/dailystatus/internal/service"
)

// SubmitStatus 校验并保存一条日报
func (a *API) SubmitStatus(c *gin.Context) {
	var record form.Record
	if !bindJSON(c, &record, "Invalid request body") {
		return
	}

	if _, err := a.statuses.Submit(c.Request.Context(), record); err != nil {
		var verr *form.ValidationError
		if errors.Is(err, service.ErrInvalidRecord) && errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   verr.Error(),
				"missing": verr.Missing,
				"invalid": verr.Invalid,
			})
			return
		}
		// 具体原因已由 service 记录，客户端只拿到固定文案
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "Database insert failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Saved successfully"})
}

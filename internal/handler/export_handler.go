package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dailystatus/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportDailyStatus 按日期区间与员工编号导出 xlsx
func (a *API) ExportDailyStatus(c *gin.Context) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		respondError(c, http.StatusBadRequest, "to must not be before from")
		return
	}

	buf, filename, err := a.exports.ExportDailyStatus(c.Request.Context(), service.StatusFilter{
		EmployeeID: c.Query("employee_id"),
		From:       from,
		To:         to,
	})
	if err != nil {
		if errors.Is(err, service.ErrExportNoRecords) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No records to export"})
			return
		}
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "Export failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

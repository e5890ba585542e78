package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dailystatus/internal/form"
	"github.com/dailystatus/internal/service"
)

// GetEmployeeByID 按员工编号返回身份信息，用于表单自动填充。
func (a *API) GetEmployeeByID(c *gin.Context) {
	id := c.Param("id")

	employee, err := a.employees.LookupByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
			return
		}
		a.requestLogger(c).Error("employee lookup failed", zap.String("employee_id", id), zap.Error(err))
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "Lookup failed")
		return
	}

	c.JSON(http.StatusOK, form.LookupResult{
		EmployeeID: employee.EmployeeID,
		FullName:   employee.FullName,
		Role:       employee.DesignationRole,
		Department: employee.Department,
	})
}

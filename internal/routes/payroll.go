package routes

import (
	"net/http"
	"strings"

	"clinicdesk/internal/contracts"
	"clinicdesk/internal/domain/payroll"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
)

func salaryInput(body contracts.SalaryRequest) payroll.SalaryInput {
	return payroll.SalaryInput{
		StaffName:  body.StaffName,
		Department: body.Department,
		BaseSalary: body.BaseSalary,
		Allowances: body.Allowances,
		Deductions: body.Deductions,
		Active:     body.Active,
	}
}

func loanInput(body contracts.LoanRequest) (payroll.LoanInput, error) {
	start, err := pkg.ParseDate(body.StartDate)
	if err != nil {
		return payroll.LoanInput{}, appErrors.NewValidationError("start_date", err.Error())
	}
	return payroll.LoanInput{
		StaffName:   body.StaffName,
		Principal:   body.Principal,
		Installment: body.Installment,
		Balance:     body.Balance,
		StartDate:   start,
	}, nil
}

func (h *Handler) CreateSalary(c *gin.Context) {
	var body contracts.SalaryRequest
	if !h.bind(c, &body) {
		return
	}

	salary, err := h.PayrollService.CreateSalary(c.Request.Context(), salaryInput(body))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, salary)
}

func (h *Handler) UpdateSalary(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var body contracts.SalaryRequest
	if !h.bind(c, &body) {
		return
	}

	salary, err := h.PayrollService.UpdateSalary(c.Request.Context(), id, salaryInput(body))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, salary)
}

func (h *Handler) ListSalaries(c *gin.Context) {
	pagination := h.parsePagination(c)
	salaries, total, err := h.PayrollService.ListSalaries(c.Request.Context(), c.Query("search"), pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(salaries, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetSalary(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	salary, err := h.PayrollService.GetSalary(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, salary)
}

func (h *Handler) DeleteSalary(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.PayrollService.DeleteSalary(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateLoan(c *gin.Context) {
	var body contracts.LoanRequest
	if !h.bind(c, &body) {
		return
	}

	in, err := loanInput(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	loan, err := h.PayrollService.CreateLoan(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, loan)
}

func (h *Handler) UpdateLoan(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var body contracts.LoanRequest
	if !h.bind(c, &body) {
		return
	}

	in, err := loanInput(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	loan, err := h.PayrollService.UpdateLoan(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loan)
}

func (h *Handler) ListLoans(c *gin.Context) {
	filters := &payroll.LoanFilters{
		StaffName: c.Query("staff_name"),
		Status:    payroll.LoanStatus(strings.ToUpper(c.Query("status"))),
	}

	pagination := h.parsePagination(c)
	loans, total, err := h.PayrollService.ListLoans(c.Request.Context(), filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(loans, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetLoan(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	loan, err := h.PayrollService.GetLoan(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loan)
}

func (h *Handler) DeleteLoan(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.PayrollService.DeleteLoan(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreatePayrollRun(c *gin.Context) {
	var body contracts.PayrollRunRequest
	if !h.bind(c, &body) {
		return
	}

	run, err := h.PayrollService.CreateRun(c.Request.Context(), body.Period)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, run)
}

func (h *Handler) ListPayrollRuns(c *gin.Context) {
	pagination := h.parsePagination(c)
	runs, total, err := h.PayrollService.ListRuns(c.Request.Context(), pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(runs, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetPayrollRun(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	run, err := h.PayrollService.GetRun(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *Handler) DeletePayrollRun(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.PayrollService.DeleteRun(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package routes

import (
	"io"
	"net/http"
	"strings"
	"time"

	"clinicdesk/internal/domain/auth"
	"clinicdesk/internal/domain/bank"
	"clinicdesk/internal/domain/billing"
	"clinicdesk/internal/domain/catalog"
	"clinicdesk/internal/domain/dashboard"
	"clinicdesk/internal/domain/investment"
	"clinicdesk/internal/domain/investor"
	"clinicdesk/internal/domain/medicine"
	"clinicdesk/internal/domain/payroll"
	"clinicdesk/internal/domain/user"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/logger"
	"clinicdesk/internal/middleware"
	"clinicdesk/internal/pkg"
	"clinicdesk/internal/pkg/query"
	"clinicdesk/internal/pkg/sheet"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const maxUploadSize = 10 << 20

type Handler struct {
	UserService         *user.Service
	AuthService         *auth.Service
	JwtService          *middleware.JwtService
	InvestmentService   *investment.Service
	ContributionService *investment.ContributionService
	InvestorService     *investor.Service
	MedicineService     *medicine.Service
	CatalogService      *catalog.Service
	BillingService      *billing.Service
	BankService         *bank.Service
	PayrollService      *payroll.Service
	DashboardService    *dashboard.Service
}

func (h *Handler) GetUserIDFromContext(c *gin.Context) (ulid.ULID, error) {
	userIDStr, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return ulid.ULID{}, appErrors.ErrUnauthorized
	}

	userID, err := pkg.ParseULID(userIDStr.(string))
	if err != nil {
		return ulid.ULID{}, appErrors.ErrUnauthorized.WithError(err)
	}

	return userID, nil
}

func (h *Handler) parsePagination(c *gin.Context) *pkg.PaginationParams {
	page := query.ParsePageFromGin(c)
	return &pkg.PaginationParams{
		Page:  page.Number,
		Limit: page.Size,
	}
}

func (h *Handler) parseID(c *gin.Context, param string) (ulid.ULID, bool) {
	id, err := pkg.ParseULID(c.Param(param))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError(param, "formato inválido"))
		return ulid.ULID{}, false
	}
	return id, true
}

// bind decodifica o corpo JSON e responde o erro de validação traduzido.
func (h *Handler) bind(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return false
	}
	return true
}

// respondError registra erros do cliente (4xx) como warn e falhas do servidor como error.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	event := logger.Error()
	if appErr.StatusCode < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event = event.
		Int("status", appErr.StatusCode).
		Str("code", appErr.Code).
		Str("path", c.FullPath()).
		Str("request_id", c.GetString(middleware.ContextRequestID))
	if appErr.Err != nil {
		event = event.Err(appErr.Err)
	}
	event.Msg("request_error")
	payload := gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		payload["details"] = appErr.Details
	}
	c.JSON(appErr.StatusCode, payload)
}

func (h *Handler) NotFound(c *gin.Context) {
	h.respondError(c, appErrors.NewNotFoundError("Recurso"))
}

func (h *Handler) sendXLSX(c *gin.Context, name string, data []byte) {
	filename := name + "-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, sheet.ContentTypeXLSX, data)
}

// readUpload lê o campo "file" de um multipart limitado a maxUploadSize.
func (h *Handler) readUpload(c *gin.Context) (string, []byte, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("file", "arquivo obrigatório"))
		return "", nil, false
	}
	if header.Size > maxUploadSize {
		h.respondError(c, appErrors.NewValidationError("file", "arquivo excede 10MB"))
		return "", nil, false
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return "", nil, false
	}
	defer file.Close()

	data := make([]byte, header.Size)
	if _, err := io.ReadFull(file, data); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return "", nil, false
	}
	return header.Filename, data, true
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := pkg.ParseDate(raw)
	if err != nil {
		return nil, appErrors.NewValidationError(field, err.Error())
	}
	return &t, nil
}

func parseOptionalID(field, raw string) (*ulid.ULID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := pkg.ParseULID(raw)
	if err != nil {
		return nil, appErrors.NewValidationError(field, "formato inválido")
	}
	return &id, nil
}

// dateRange lê from/to da query string.
func dateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	from, err := parseOptionalDate("from", c.Query("from"))
	if err != nil {
		return nil, nil, err
	}
	to, err := parseOptionalDate("to", c.Query("to"))
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

package routes

import (
	"clinicdesk/internal/domain/catalog"
	"clinicdesk/internal/domain/user"
	"clinicdesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Register monta as rotas públicas e autenticadas sob /api.
func (h *Handler) Register(router gin.IRouter, authLimiter, userLimiter *middleware.RateLimiter) {
	public := router.Group("/api")
	public.Use(middleware.RateLimit(authLimiter))
	{
		public.POST("/auth/login", h.Authenticate)
		public.POST("/auth/register", h.Registration)
	}

	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(h.JwtService))
	private.Use(middleware.RateLimitByUser(userLimiter))

	adminOnly := middleware.RequireRole(user.RoleAdmin)
	{
		private.GET("/dashboard", h.GetDashboard)

		users := private.Group("/users")
		{
			users.GET("/me", h.GetCurrentUser)
			users.PATCH("/me", h.UpdateUserName)
			users.PATCH("/me/password", h.UpdateUserPassword)
			users.GET("", adminOnly, h.ListUsers)
			users.PATCH("/:id/role", adminOnly, h.UpdateUserRole)
			users.DELETE("/:id", adminOnly, h.DeleteUser)
		}

		investments := private.Group("/investments")
		{
			investments.POST("", h.CreateInvestment)
			investments.GET("", h.ListInvestments)
			investments.GET("/ledger", h.GetLedger)
			investments.POST("/normalize", h.NormalizeShares)
			investments.POST("/bulk-delete", adminOnly, h.BulkDeleteInvestments)
			investments.POST("/recapitalize", adminOnly, h.RecapitalizeInvestments)
			investments.GET("/:id", h.GetInvestment)
			investments.PUT("/:id", h.UpdateInvestment)
			investments.DELETE("/:id", h.DeleteInvestment)
			investments.GET("/:id/ledger", h.GetLedger)
		}

		investors := private.Group("/investors")
		{
			investors.POST("", h.CreateInvestor)
			investors.GET("", h.ListInvestors)
			investors.GET("/:id", h.GetInvestor)
			investors.PUT("/:id", h.UpdateInvestor)
			investors.DELETE("/:id", h.DeleteInvestor)
		}

		contributions := private.Group("/contributions")
		{
			contributions.POST("", h.CreateContribution)
			contributions.GET("", h.ListContributions)
			contributions.GET("/export/xlsx", h.ExportContributions)
			contributions.POST("/import", h.ImportContributions)
			contributions.GET("/sample-template", h.ContributionSampleTemplate)
			contributions.GET("/:id", h.GetContribution)
			contributions.PUT("/:id", h.UpdateContribution)
			contributions.DELETE("/:id", h.DeleteContribution)
		}

		medicines := private.Group("/medicines")
		{
			medicines.POST("", h.CreateMedicine)
			medicines.GET("", h.ListMedicines)
			medicines.GET("/low-stock", h.LowStockMedicines)
			medicines.GET("/expiring", h.ExpiringMedicines)
			medicines.GET("/export/xlsx", h.ExportMedicines)
			medicines.POST("/import", h.ImportMedicines)
			medicines.GET("/sample-template", h.MedicineSampleTemplate)
			medicines.GET("/:id", h.GetMedicine)
			medicines.PUT("/:id", h.UpdateMedicine)
			medicines.DELETE("/:id", h.DeleteMedicine)
			medicines.POST("/:id/stock", h.AdjustMedicineStock)
		}

		h.registerCatalog(private.Group("/services"), catalog.KindService)
		h.registerCatalog(private.Group("/injections"), catalog.KindInjection)

		bills := private.Group("/bills")
		{
			bills.POST("", h.CreateBill)
			bills.GET("", h.ListBills)
			bills.POST("/preview", h.PreviewBill)
			bills.GET("/:id", h.GetBill)
			bills.PUT("/:id", h.UpdateBill)
			bills.DELETE("/:id", h.DeleteBill)
			bills.POST("/:id/pay", h.PayBill)
		}

		bankTransactions := private.Group("/bank-transactions")
		{
			bankTransactions.POST("", h.CreateBankTransaction)
			bankTransactions.GET("", h.ListBankTransactions)
			bankTransactions.GET("/balance", h.GetBankBalance)
			bankTransactions.GET("/:id", h.GetBankTransaction)
			bankTransactions.PUT("/:id", h.UpdateBankTransaction)
			bankTransactions.DELETE("/:id", h.DeleteBankTransaction)
		}

		salaries := private.Group("/salaries")
		{
			salaries.POST("", h.CreateSalary)
			salaries.GET("", h.ListSalaries)
			salaries.GET("/:id", h.GetSalary)
			salaries.PUT("/:id", h.UpdateSalary)
			salaries.DELETE("/:id", h.DeleteSalary)
		}

		loans := private.Group("/loans")
		{
			loans.POST("", h.CreateLoan)
			loans.GET("", h.ListLoans)
			loans.GET("/:id", h.GetLoan)
			loans.PUT("/:id", h.UpdateLoan)
			loans.DELETE("/:id", h.DeleteLoan)
		}

		runs := private.Group("/payroll-runs")
		{
			runs.POST("", h.CreatePayrollRun)
			runs.GET("", h.ListPayrollRuns)
			runs.GET("/:id", h.GetPayrollRun)
			runs.DELETE("/:id", adminOnly, h.DeletePayrollRun)
		}
	}
}

func (h *Handler) registerCatalog(group *gin.RouterGroup, kind catalog.Kind) {
	group.POST("", h.CreateServiceItem(kind))
	group.GET("", h.ListServiceItems(kind))
	group.GET("/:id", h.GetServiceItem(kind))
	group.PUT("/:id", h.UpdateServiceItem(kind))
	group.DELETE("/:id", h.DeleteServiceItem(kind))
}

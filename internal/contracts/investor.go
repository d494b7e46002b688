package contracts

type InvestorRequest struct {
	Name  string `json:"name" binding:"required,max=150"`
	Phone string `json:"phone" binding:"omitempty,max=40"`
	Email string `json:"email" binding:"omitempty,email"`
	Note  string `json:"note" binding:"omitempty,max=1000"`
}

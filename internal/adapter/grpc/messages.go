package grpc

import "time"

// Wire messages of roomsync.v1.LedgerService.
// Amounts are decimal strings and periods are "YYYY-MM" keys.

type AddMemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"` // MANAGER or MEMBER, defaults to MEMBER
}

type Member struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type RecordContributionRequest struct {
	MemberID string `json:"member_id"`
	Period   string `json:"period"`
	Amount   string `json:"amount"`
	Note     string `json:"note,omitempty"`
}

type Contribution struct {
	ID              string    `json:"id"`
	MemberID        string    `json:"member_id"`
	Period          string    `json:"period"`
	Amount          string    `json:"amount"`
	IsFirstEntry    bool      `json:"is_first_entry"`
	PreviousBalance string    `json:"previous_balance,omitempty"` // Empty when the member had no history
	AdjustedAmount  string    `json:"adjusted_amount,omitempty"`  // Empty when no adjustment applies
	RecordedBy      string    `json:"recorded_by"`
	RecordedAt      time.Time `json:"recorded_at"`
	Note            string    `json:"note,omitempty"`
}

type ListContributionsRequest struct {
	Period string `json:"period"`
}

type ListContributionsResponse struct {
	Contributions []*Contribution `json:"contributions"`
}

type SubmitExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

type ReviewExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
	Approve   bool   `json:"approve"`
}

type Expense struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Amount      string     `json:"amount"`
	Date        string     `json:"date"`
	Period      string     `json:"period"`
	SubmittedBy string     `json:"submitted_by"`
	Status      string     `json:"status"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

type ListExpensesRequest struct {
	Period string `json:"period"`
	Status string `json:"status,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type RecordMealsRequest struct {
	MemberID string `json:"member_id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Count    int    `json:"count"`
}

type MealRecord struct {
	MemberID   string `json:"member_id"`
	Date       string `json:"date"`
	Period     string `json:"period"`
	Count      int    `json:"count"`
	RecordedBy string `json:"recorded_by"`
}

type ListMealsRequest struct {
	Period string `json:"period"`
}

type ListMealsResponse struct {
	Meals []*MealRecord `json:"meals"`
}

type GetFundStatusRequest struct {
	Period string `json:"period"`
}

type FundStatus struct {
	Period         string `json:"period"`
	TotalMealFund  string `json:"total_meal_fund"`
	TotalSpendings string `json:"total_spendings"`
	Remaining      string `json:"remaining"`
	Percentage     int64  `json:"percentage"`
}

type GetBillsRequest struct {
	Period string `json:"period"`
}

type Bill struct {
	MemberID        string `json:"member_id"`
	Period          string `json:"period"`
	Meals           int    `json:"meals"`
	MealRate        string `json:"meal_rate"`
	Payable         string `json:"payable"`
	Contributed     string `json:"contributed"`
	PreviousBalance string `json:"previous_balance"`
	ClosingBalance  string `json:"closing_balance"`
}

type GetBillsResponse struct {
	Bills []*Bill `json:"bills"`
}

type GetMonthOptionsRequest struct {
	Anchor string `json:"anchor,omitempty"` // YYYY-MM, defaults to the current month
}

type MonthOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type GetMonthOptionsResponse struct {
	Options []*MonthOption `json:"options"`
}

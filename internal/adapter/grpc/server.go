package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/usecase/billing"
	"github.com/roomsync/roomsync-backend/internal/usecase/contribution"
	"github.com/roomsync/roomsync-backend/internal/usecase/dashboard"
	"github.com/roomsync/roomsync-backend/internal/usecase/expense"
	"github.com/roomsync/roomsync-backend/internal/usecase/ledger"
	"github.com/roomsync/roomsync-backend/internal/usecase/meal"
	"github.com/roomsync/roomsync-backend/internal/usecase/member"
)

// ActorMetadataKey carries the ID of the member performing a call
const ActorMetadataKey = "x-member-id"

const dateLayout = "2006-01-02"

// Server implements the LedgerService gRPC server
type Server struct {
	MemberService       *member.MemberService
	ContributionService *contribution.ContributionService
	ExpenseService      *expense.ExpenseService
	MealService         *meal.MealService
	BillingService      *billing.BillingService
	DashboardService    *dashboard.DashboardService

	now func() time.Time
}

var _ LedgerServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	memberService *member.MemberService,
	contributionService *contribution.ContributionService,
	expenseService *expense.ExpenseService,
	mealService *meal.MealService,
	billingService *billing.BillingService,
	dashboardService *dashboard.DashboardService,
) *Server {
	return &Server{
		MemberService:       memberService,
		ContributionService: contributionService,
		ExpenseService:      expenseService,
		MealService:         mealService,
		BillingService:      billingService,
		DashboardService:    dashboardService,
		now:                 time.Now,
	}
}

// AddMember handles the AddMember RPC
func (s *Server) AddMember(ctx context.Context, req *AddMemberRequest) (*Member, error) {
	actor, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.MemberService.AddMember(ctx, member.AddMemberInput{
		ActorID: actor,
		Name:    req.Name,
		Email:   req.Email,
		Role:    domain.Role(strings.ToUpper(strings.TrimSpace(req.Role))),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return memberToWire(m), nil
}

// ListMembers handles the ListMembers RPC
func (s *Server) ListMembers(ctx context.Context, _ *ListMembersRequest) (*ListMembersResponse, error) {
	members, err := s.MemberService.ListMembers(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListMembersResponse{Members: make([]*Member, 0, len(members))}
	for _, m := range members {
		resp.Members = append(resp.Members, memberToWire(m))
	}
	return resp, nil
}

// RecordContribution handles the RecordContribution RPC
func (s *Server) RecordContribution(ctx context.Context, req *RecordContributionRequest) (*Contribution, error) {
	actor, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid member_id format: %v", err)
	}

	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		return nil, mapError(err)
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, mapError(err)
	}

	entry, err := s.ContributionService.RecordContribution(ctx, contribution.RecordContributionInput{
		ActorID:  actor,
		MemberID: memberID,
		Period:   period,
		Amount:   amount,
		Note:     req.Note,
	})
	if err != nil {
		return nil, mapError(err)
	}

	s.DashboardService.Invalidate(entry.Period)

	return contributionToWire(entry), nil
}

// ListContributions handles the ListContributions RPC
func (s *Server) ListContributions(ctx context.Context, req *ListContributionsRequest) (*ListContributionsResponse, error) {
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		return nil, mapError(err)
	}

	entries, err := s.ContributionService.ListContributions(ctx, period)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListContributionsResponse{Contributions: make([]*Contribution, 0, len(entries))}
	for _, e := range entries {
		resp.Contributions = append(resp.Contributions, contributionToWire(e))
	}
	return resp, nil
}

// SubmitExpense handles the SubmitExpense RPC
func (s *Server) SubmitExpense(ctx context.Context, req *SubmitExpenseRequest) (*Expense, error) {
	actor, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, mapError(err)
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse(dateLayout, req.Date)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid date format: expected YYYY-MM-DD")
		}
	}

	e, err := s.ExpenseService.SubmitExpense(ctx, expense.SubmitExpenseInput{
		ActorID:     actor,
		Description: req.Description,
		Amount:      amount,
		Date:        date,
	})
	if err != nil {
		return nil, mapError(err)
	}

	s.DashboardService.Invalidate(e.Period)

	return expenseToWire(e), nil
}

// ReviewExpense handles the ReviewExpense RPC
func (s *Server) ReviewExpense(ctx context.Context, req *ReviewExpenseRequest) (*Expense, error) {
	actor, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	expenseID, err := uuid.Parse(req.ExpenseID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid expense_id format: %v", err)
	}

	e, err := s.ExpenseService.ReviewExpense(ctx, expense.ReviewExpenseInput{
		ActorID:   actor,
		ExpenseID: expenseID,
		Approve:   req.Approve,
	})
	if err != nil {
		return nil, mapError(err)
	}

	s.DashboardService.Invalidate(e.Period)

	return expenseToWire(e), nil
}

// ListExpenses handles the ListExpenses RPC
func (s *Server) ListExpenses(ctx context.Context, req *ListExpensesRequest) (*ListExpensesResponse, error) {
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		return nil, mapError(err)
	}

	expenses, err := s.ExpenseService.ListExpenses(ctx, period, domain.ExpenseStatus(strings.ToUpper(req.Status)))
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListExpensesResponse{Expenses: make([]*Expense, 0, len(expenses))}
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, expenseToWire(e))
	}
	return resp, nil
}

// RecordMeals handles the RecordMeals RPC
func (s *Server) RecordMeals(ctx context.Context, req *RecordMealsRequest) (*MealRecord, error) {
	actor, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid member_id format: %v", err)
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid date format: expected YYYY-MM-DD")
	}

	record, err := s.MealService.RecordMeals(ctx, meal.RecordMealsInput{
		ActorID:  actor,
		MemberID: memberID,
		Date:     date,
		Count:    req.Count,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return mealToWire(record), nil
}

// ListMeals handles the ListMeals RPC
func (s *Server) ListMeals(ctx context.Context, req *ListMealsRequest) (*ListMealsResponse, error) {
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		return nil, mapError(err)
	}

	records, err := s.MealService.ListMeals(ctx, period)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListMealsResponse{Meals: make([]*MealRecord, 0, len(records))}
	for _, r := range records {
		resp.Meals = append(resp.Meals, mealToWire(r))
	}
	return resp, nil
}

// GetFundStatus handles the GetFundStatus RPC
func (s *Server) GetFundStatus(ctx context.Context, req *GetFundStatusRequest) (*FundStatus, error) {
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		return nil, mapError(err)
	}

	fund, err := s.DashboardService.GetFundStatus(ctx, period)
	if err != nil {
		return nil, mapError(err)
	}

	return &FundStatus{
		Period:         fund.Summary.Period.String(),
		TotalMealFund:  fund.Summary.TotalMealFund.String(),
		TotalSpendings: fund.Summary.TotalSpendings.String(),
		Remaining:      fund.Remaining.String(),
		Percentage:     fund.Percentage,
	}, nil
}

// GetBills handles the GetBills RPC
func (s *Server) GetBills(ctx context.Context, req *GetBillsRequest) (*GetBillsResponse, error) {
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		return nil, mapError(err)
	}

	bills, err := s.BillingService.GenerateBills(ctx, period)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &GetBillsResponse{Bills: make([]*Bill, 0, len(bills))}
	for _, b := range bills {
		resp.Bills = append(resp.Bills, &Bill{
			MemberID:        b.MemberID.String(),
			Period:          b.Period.String(),
			Meals:           b.Meals,
			MealRate:        b.MealRate.String(),
			Payable:         b.Payable.String(),
			Contributed:     b.Contributed.String(),
			PreviousBalance: b.PreviousBalance.String(),
			ClosingBalance:  b.ClosingBalance.String(),
		})
	}
	return resp, nil
}

// GetMonthOptions handles the GetMonthOptions RPC
func (s *Server) GetMonthOptions(_ context.Context, req *GetMonthOptionsRequest) (*GetMonthOptionsResponse, error) {
	anchor := s.now()
	if req.Anchor != "" {
		period, err := domain.ParsePeriod(req.Anchor)
		if err != nil {
			return nil, mapError(err)
		}
		anchor = period.Start()
	}

	options, err := s.DashboardService.MonthOptions(anchor)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &GetMonthOptionsResponse{Options: make([]*MonthOption, 0, len(options))}
	for _, o := range options {
		resp.Options = append(resp.Options, &MonthOption{Label: o.Label, Value: o.Value})
	}
	return resp, nil
}

// actorID reads the acting member from request metadata; uuid.Nil when absent
func actorID(ctx context.Context) (uuid.UUID, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, nil
	}
	values := md.Get(ActorMetadataKey)
	if len(values) == 0 || values[0] == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(values[0])
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", ActorMetadataKey, err)
	}
	return id, nil
}

func memberToWire(m *domain.Member) *Member {
	return &Member{
		ID:       m.ID.String(),
		Name:     m.Name,
		Email:    m.Email,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func contributionToWire(e *domain.ContributionEntry) *Contribution {
	return &Contribution{
		ID:              e.ID.String(),
		MemberID:        e.MemberID.String(),
		Period:          e.Period.String(),
		Amount:          e.Amount.String(),
		IsFirstEntry:    e.IsFirstEntry,
		PreviousBalance: domain.FormatOptionalAmount(e.PreviousBalance),
		AdjustedAmount:  domain.FormatOptionalAmount(e.AdjustedAmount),
		RecordedBy:      e.RecordedBy.String(),
		RecordedAt:      e.RecordedAt,
		Note:            e.Note,
	}
}

func expenseToWire(e *domain.Expense) *Expense {
	wire := &Expense{
		ID:          e.ID.String(),
		Description: e.Description,
		Amount:      e.Amount.String(),
		Date:        e.Date.Format(dateLayout),
		Period:      e.Period.String(),
		SubmittedBy: e.SubmittedBy.String(),
		Status:      string(e.Status),
		ReviewedAt:  e.ReviewedAt,
	}
	if e.ReviewedBy != nil {
		wire.ReviewedBy = e.ReviewedBy.String()
	}
	return wire
}

func mealToWire(r *domain.MealRecord) *MealRecord {
	return &MealRecord{
		MemberID:   r.MemberID.String(),
		Date:       r.Date.Format(dateLayout),
		Period:     r.Period.String(),
		Count:      r.Count,
		RecordedBy: r.RecordedBy.String(),
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, errorMsg)
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, errorMsg)
	case errors.Is(err, domain.ErrForbidden):
		return status.Error(codes.PermissionDenied, errorMsg)
	case errors.Is(err, domain.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, errorMsg)
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, ledger.ErrNegativeWindow):
		return status.Error(codes.InvalidArgument, errorMsg)
	}

	// Entity validation errors carry no sentinel
	if strings.Contains(errorMsg, "must ") ||
		strings.Contains(errorMsg, "cannot ") ||
		strings.Contains(errorMsg, "invalid") ||
		strings.Contains(errorMsg, "too long") ||
		strings.Contains(errorMsg, "is required") ||
		strings.Contains(errorMsg, "unknown") {
		return status.Error(codes.InvalidArgument, errorMsg)
	}

	return status.Error(codes.Internal, errorMsg)
}

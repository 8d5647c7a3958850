package grpc

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client is the typed client for roomsync.v1.LedgerService
type Client struct {
	cc    grpc.ClientConnInterface
	token string
}

// NewClient creates a client sending token as the authorization metadata on every call
func NewClient(cc grpc.ClientConnInterface, token string) *Client {
	return &Client{cc: cc, token: token}
}

// WithActor returns a context that performs calls on behalf of member id
func WithActor(ctx context.Context, id uuid.UUID) context.Context {
	return metadata.AppendToOutgoingContext(ctx, ActorMetadataKey, id.String())
}

func (c *Client) invoke(ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption) error {
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", c.token)
	}
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}

func (c *Client) AddMember(ctx context.Context, in *AddMemberRequest, opts ...grpc.CallOption) (*Member, error) {
	out := new(Member)
	if err := c.invoke(ctx, "AddMember", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMembers(ctx context.Context, in *ListMembersRequest, opts ...grpc.CallOption) (*ListMembersResponse, error) {
	out := new(ListMembersResponse)
	if err := c.invoke(ctx, "ListMembers", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RecordContribution(ctx context.Context, in *RecordContributionRequest, opts ...grpc.CallOption) (*Contribution, error) {
	out := new(Contribution)
	if err := c.invoke(ctx, "RecordContribution", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListContributions(ctx context.Context, in *ListContributionsRequest, opts ...grpc.CallOption) (*ListContributionsResponse, error) {
	out := new(ListContributionsResponse)
	if err := c.invoke(ctx, "ListContributions", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitExpense(ctx context.Context, in *SubmitExpenseRequest, opts ...grpc.CallOption) (*Expense, error) {
	out := new(Expense)
	if err := c.invoke(ctx, "SubmitExpense", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReviewExpense(ctx context.Context, in *ReviewExpenseRequest, opts ...grpc.CallOption) (*Expense, error) {
	out := new(Expense)
	if err := c.invoke(ctx, "ReviewExpense", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListExpenses(ctx context.Context, in *ListExpensesRequest, opts ...grpc.CallOption) (*ListExpensesResponse, error) {
	out := new(ListExpensesResponse)
	if err := c.invoke(ctx, "ListExpenses", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RecordMeals(ctx context.Context, in *RecordMealsRequest, opts ...grpc.CallOption) (*MealRecord, error) {
	out := new(MealRecord)
	if err := c.invoke(ctx, "RecordMeals", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMeals(ctx context.Context, in *ListMealsRequest, opts ...grpc.CallOption) (*ListMealsResponse, error) {
	out := new(ListMealsResponse)
	if err := c.invoke(ctx, "ListMeals", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFundStatus(ctx context.Context, in *GetFundStatusRequest, opts ...grpc.CallOption) (*FundStatus, error) {
	out := new(FundStatus)
	if err := c.invoke(ctx, "GetFundStatus", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBills(ctx context.Context, in *GetBillsRequest, opts ...grpc.CallOption) (*GetBillsResponse, error) {
	out := new(GetBillsResponse)
	if err := c.invoke(ctx, "GetBills", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMonthOptions(ctx context.Context, in *GetMonthOptionsRequest, opts ...grpc.CallOption) (*GetMonthOptionsResponse, error) {
	out := new(GetMonthOptionsResponse)
	if err := c.invoke(ctx, "GetMonthOptions", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

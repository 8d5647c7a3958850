package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "roomsync.v1.LedgerService"

// LedgerServiceServer is the server API for roomsync.v1.LedgerService
type LedgerServiceServer interface {
	AddMember(context.Context, *AddMemberRequest) (*Member, error)
	ListMembers(context.Context, *ListMembersRequest) (*ListMembersResponse, error)
	RecordContribution(context.Context, *RecordContributionRequest) (*Contribution, error)
	ListContributions(context.Context, *ListContributionsRequest) (*ListContributionsResponse, error)
	SubmitExpense(context.Context, *SubmitExpenseRequest) (*Expense, error)
	ReviewExpense(context.Context, *ReviewExpenseRequest) (*Expense, error)
	ListExpenses(context.Context, *ListExpensesRequest) (*ListExpensesResponse, error)
	RecordMeals(context.Context, *RecordMealsRequest) (*MealRecord, error)
	ListMeals(context.Context, *ListMealsRequest) (*ListMealsResponse, error)
	GetFundStatus(context.Context, *GetFundStatusRequest) (*FundStatus, error)
	GetBills(context.Context, *GetBillsRequest) (*GetBillsResponse, error)
	GetMonthOptions(context.Context, *GetMonthOptionsRequest) (*GetMonthOptionsResponse, error)
}

// RegisterLedgerServiceServer registers srv on s
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// LedgerServiceDesc describes roomsync.v1.LedgerService for grpc.Server
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AddMember", LedgerServiceServer.AddMember),
		unary("ListMembers", LedgerServiceServer.ListMembers),
		unary("RecordContribution", LedgerServiceServer.RecordContribution),
		unary("ListContributions", LedgerServiceServer.ListContributions),
		unary("SubmitExpense", LedgerServiceServer.SubmitExpense),
		unary("ReviewExpense", LedgerServiceServer.ReviewExpense),
		unary("ListExpenses", LedgerServiceServer.ListExpenses),
		unary("RecordMeals", LedgerServiceServer.RecordMeals),
		unary("ListMeals", LedgerServiceServer.ListMeals),
		unary("GetFundStatus", LedgerServiceServer.GetFundStatus),
		unary("GetBills", LedgerServiceServer.GetBills),
		unary("GetMonthOptions", LedgerServiceServer.GetMonthOptions),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "roomsync/v1/ledger.json",
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary adapts a typed LedgerServiceServer method to a grpc.MethodDesc
func unary[Req, Resp any](name string, call func(LedgerServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LedgerServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(LedgerServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

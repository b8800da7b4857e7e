package grpc

// proto.go defines the gRPC server interface derived from
// loansi/scoring/v1/scoring.proto. This file serves as a stand-in for
// buf-generated code; with the JSON codec registered the wire messages are
// the application DTOs themselves.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/loansi/scoring-engine/internal/application/dto"
)

// Wire message aliases. Once `buf generate` is run these become generated
// message types.
type (
	EvaluateRequest          = dto.EvaluateRequest
	EvaluateResponse         = dto.EvaluationResponse
	QuoteRequest             = dto.QuoteRequest
	QuoteResponse            = dto.QuoteResponse
	CommitteeDecisionRequest = dto.CommitteeDecisionRequest
	GetEvaluationRequest     = dto.GetEvaluationRequest
	CommitteeQueueRequest    = dto.CommitteeQueueRequest
	ApplicantHistoryRequest  = dto.ApplicantHistoryRequest
	EvaluationListResponse   = dto.EvaluationListResponse
	ListProductsRequest      = dto.ListProductsRequest
	ProductListResponse      = dto.ProductListResponse
)

// ScoringServiceServer is the server API for ScoringService.
// It mirrors the proto interface from loansi.scoring.v1.ScoringService.
type ScoringServiceServer interface {
	Evaluate(context.Context, *EvaluateRequest) (*EvaluateResponse, error)
	QuoteLoan(context.Context, *QuoteRequest) (*QuoteResponse, error)
	ResolveCommitteeDecision(context.Context, *CommitteeDecisionRequest) (*EvaluateResponse, error)
	GetEvaluation(context.Context, *GetEvaluationRequest) (*EvaluateResponse, error)
	ListCommitteeQueue(context.Context, *CommitteeQueueRequest) (*EvaluationListResponse, error)
	GetApplicantHistory(context.Context, *ApplicantHistoryRequest) (*EvaluationListResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ProductListResponse, error)
	mustEmbedUnimplementedScoringServiceServer()
}

// UnimplementedScoringServiceServer provides forward-compatible default implementations.
type UnimplementedScoringServiceServer struct{}

func (UnimplementedScoringServiceServer) Evaluate(context.Context, *EvaluateRequest) (*EvaluateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Evaluate not implemented")
}
func (UnimplementedScoringServiceServer) QuoteLoan(context.Context, *QuoteRequest) (*QuoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method QuoteLoan not implemented")
}
func (UnimplementedScoringServiceServer) ResolveCommitteeDecision(context.Context, *CommitteeDecisionRequest) (*EvaluateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ResolveCommitteeDecision not implemented")
}
func (UnimplementedScoringServiceServer) GetEvaluation(context.Context, *GetEvaluationRequest) (*EvaluateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetEvaluation not implemented")
}
func (UnimplementedScoringServiceServer) ListCommitteeQueue(context.Context, *CommitteeQueueRequest) (*EvaluationListResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListCommitteeQueue not implemented")
}
func (UnimplementedScoringServiceServer) GetApplicantHistory(context.Context, *ApplicantHistoryRequest) (*EvaluationListResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetApplicantHistory not implemented")
}
func (UnimplementedScoringServiceServer) ListProducts(context.Context, *ListProductsRequest) (*ProductListResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListProducts not implemented")
}
func (UnimplementedScoringServiceServer) mustEmbedUnimplementedScoringServiceServer() {}

// RegisterScoringServiceServer registers the ScoringServiceServer with the gRPC server.
func RegisterScoringServiceServer(s *grpclib.Server, srv ScoringServiceServer) {
	s.RegisterService(&_ScoringService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _ScoringService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "loansi.scoring.v1.ScoringService",
	HandlerType: (*ScoringServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Evaluate", Handler: _ScoringService_Evaluate_Handler},                                 //nolint:revive // gRPC handler registration
		{MethodName: "QuoteLoan", Handler: _ScoringService_QuoteLoan_Handler},                               //nolint:revive // gRPC handler registration
		{MethodName: "ResolveCommitteeDecision", Handler: _ScoringService_ResolveCommitteeDecision_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "GetEvaluation", Handler: _ScoringService_GetEvaluation_Handler},                       //nolint:revive // gRPC handler registration
		{MethodName: "ListCommitteeQueue", Handler: _ScoringService_ListCommitteeQueue_Handler},             //nolint:revive // gRPC handler registration
		{MethodName: "GetApplicantHistory", Handler: _ScoringService_GetApplicantHistory_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "ListProducts", Handler: _ScoringService_ListProducts_Handler},                         //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_Evaluate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(EvaluateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).Evaluate(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loansi.scoring.v1.ScoringService/Evaluate",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).Evaluate(ctx, req.(*EvaluateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_QuoteLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(QuoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).QuoteLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loansi.scoring.v1.ScoringService/QuoteLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).QuoteLoan(ctx, req.(*QuoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_ResolveCommitteeDecision_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(CommitteeDecisionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).ResolveCommitteeDecision(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loansi.scoring.v1.ScoringService/ResolveCommitteeDecision",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).ResolveCommitteeDecision(ctx, req.(*CommitteeDecisionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_GetEvaluation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetEvaluationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).GetEvaluation(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loansi.scoring.v1.ScoringService/GetEvaluation",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).GetEvaluation(ctx, req.(*GetEvaluationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_ListCommitteeQueue_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(CommitteeQueueRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).ListCommitteeQueue(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loansi.scoring.v1.ScoringService/ListCommitteeQueue",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).ListCommitteeQueue(ctx, req.(*CommitteeQueueRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_GetApplicantHistory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ApplicantHistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).GetApplicantHistory(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loansi.scoring.v1.ScoringService/GetApplicantHistory",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).GetApplicantHistory(ctx, req.(*ApplicantHistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_ListProducts_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListProductsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).ListProducts(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loansi.scoring.v1.ScoringService/ListProducts",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).ListProducts(ctx, req.(*ListProductsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

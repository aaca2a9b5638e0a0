// Package rpc exposes the tracker over gRPC as babylog.v1.TrackerService.
// Requests and responses are google.protobuf.Struct messages, so no
// generated stubs are needed on either side.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "babylog.v1.TrackerService"

const (
	MethodSetTimezone   = "SetTimezone"
	MethodStartSleep    = "StartSleep"
	MethodEndSleep      = "EndSleep"
	MethodRecordFeeding = "RecordFeeding"
	MethodDailyReport   = "DailyReport"
	MethodHistory       = "History"
	MethodStatus        = "Status"
)

// FullMethod returns the "/service/method" path of m.
func FullMethod(m string) string {
	return "/" + ServiceName + "/" + m
}

type TrackerServer interface {
	SetTimezone(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartSleep(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndSleep(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordFeeding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DailyReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Status(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type call func(TrackerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(TrackerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(TrackerServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrackerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodSetTimezone, TrackerServer.SetTimezone),
		unary(MethodStartSleep, TrackerServer.StartSleep),
		unary(MethodEndSleep, TrackerServer.EndSleep),
		unary(MethodRecordFeeding, TrackerServer.RecordFeeding),
		unary(MethodDailyReport, TrackerServer.DailyReport),
		unary(MethodHistory, TrackerServer.History),
		unary(MethodStatus, TrackerServer.Status),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "babylog/v1/tracker.proto",
}

func Register(s grpc.ServiceRegistrar, srv TrackerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

package remote

import (
	"context"

	"google.golang.org/grpc"

	"github.com/nadzzz/podcastgen/internal/request"
)

// GeneratorServer is the server side of the Generate method.
type GeneratorServer interface {
	Generate(ctx context.Context, req *request.GenerationRequest) (*GenerateReply, error)
}

// ServiceDesc describes the generator service for grpc.Server registration.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GeneratorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: generateHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterGeneratorServer registers srv on s. Clients must use the JSON
// content-subtype, which this package registers on import.
func RegisterGeneratorServer(s grpc.ServiceRegistrar, srv GeneratorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func generateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(request.GenerationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GeneratorServer).Generate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: generateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GeneratorServer).Generate(ctx, req.(*request.GenerationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

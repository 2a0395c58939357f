package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "browserdata.BrowserData"

// BrowserDataServer is the RPC surface. Requests and responses are
// google.protobuf.Struct documents, see mapping.go for their fields.
type BrowserDataServer interface {
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveToHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddTrustedSite(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IsTrustedSite(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFeatureToggle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshPrivacyConfig(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VpnStarted(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAutofillData(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProcessCredentialSelection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EmailGetAlias(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProcessEmailSignUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(BrowserDataServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + serviceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BrowserDataServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BrowserDataServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var BrowserDataServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*BrowserDataServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetHistory", BrowserDataServer.GetHistory),
		unaryHandler("SaveToHistory", BrowserDataServer.SaveToHistory),
		unaryHandler("AddTrustedSite", BrowserDataServer.AddTrustedSite),
		unaryHandler("IsTrustedSite", BrowserDataServer.IsTrustedSite),
		unaryHandler("GetFeatureToggle", BrowserDataServer.GetFeatureToggle),
		unaryHandler("RefreshPrivacyConfig", BrowserDataServer.RefreshPrivacyConfig),
		unaryHandler("VpnStarted", BrowserDataServer.VpnStarted),
		unaryHandler("GetAutofillData", BrowserDataServer.GetAutofillData),
		unaryHandler("ProcessCredentialSelection", BrowserDataServer.ProcessCredentialSelection),
		unaryHandler("EmailGetAlias", BrowserDataServer.EmailGetAlias),
		unaryHandler("ProcessEmailSignUp", BrowserDataServer.ProcessEmailSignUp),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "browserdata.proto",
}

func RegisterBrowserDataServer(s grpc.ServiceRegistrar, srv BrowserDataServer) {
	s.RegisterService(&BrowserDataServiceDesc, srv)
}

// BrowserDataClient calls BrowserData over an existing connection.
type BrowserDataClient struct {
	cc grpc.ClientConnInterface
}

func NewBrowserDataClient(cc grpc.ClientConnInterface) *BrowserDataClient {
	return &BrowserDataClient{cc: cc}
}

// Call invokes method with req, which may be nil.
func (c *BrowserDataClient) Call(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceHandler is implemented by AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

// ReceiptServiceHandler is implemented by ReceiptService.
type ReceiptServiceHandler interface {
	GenerateReceipt(context.Context, *connect.Request[GenerateReceiptRequest]) (*connect.Response[GenerateReceiptResponse], error)
	ListReceipts(context.Context, *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// NewAuthServiceHandler builds an HTTP handler for the auth procedures.
// It returns the path to mount the handler on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	register := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			register.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewReceiptServiceHandler builds an HTTP handler for the receipt procedures.
func NewReceiptServiceHandler(svc ReceiptServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	generate := connect.NewUnaryHandler(ReceiptServiceGenerateReceiptProcedure, svc.GenerateReceipt, opts...)
	list := connect.NewUnaryHandler(ReceiptServiceListReceiptsProcedure, svc.ListReceipts, opts...)
	return "/" + ReceiptServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ReceiptServiceGenerateReceiptProcedure:
			generate.ServeHTTP(w, r)
		case ReceiptServiceListReceiptsProcedure:
			list.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient calls the auth procedures.
type AuthServiceClient struct {
	register *connect.Client[RegisterRequest, RegisterResponse]
	login    *connect.Client[LoginRequest, LoginResponse]
}

// NewAuthServiceClient creates a client for the server at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AuthServiceClient{
		register: connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:    connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// ReceiptServiceClient calls the receipt procedures.
type ReceiptServiceClient struct {
	generate *connect.Client[GenerateReceiptRequest, GenerateReceiptResponse]
	list     *connect.Client[ListReceiptsRequest, ListReceiptsResponse]
}

// NewReceiptServiceClient creates a client for the server at baseURL.
func NewReceiptServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ReceiptServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ReceiptServiceClient{
		generate: connect.NewClient[GenerateReceiptRequest, GenerateReceiptResponse](httpClient, baseURL+ReceiptServiceGenerateReceiptProcedure, opts...),
		list:     connect.NewClient[ListReceiptsRequest, ListReceiptsResponse](httpClient, baseURL+ReceiptServiceListReceiptsProcedure, opts...),
	}
}

func (c *ReceiptServiceClient) GenerateReceipt(ctx context.Context, req *connect.Request[GenerateReceiptRequest]) (*connect.Response[GenerateReceiptResponse], error) {
	return c.generate.CallUnary(ctx, req)
}

func (c *ReceiptServiceClient) ListReceipts(ctx context.Context, req *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

// Package server exposes evaluation as a gRPC service. Messages are dynamic
// protobuf messages built from the embedded lamb.proto, so no generated code
// is involved.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/funvibe/lamb/internal/config"
	"github.com/funvibe/lamb/internal/diagnostics"
	"github.com/funvibe/lamb/internal/names"
	lamb "github.com/funvibe/lamb/pkg/embed"
)

// Reply is the outcome of one Evaluate call.
type Reply struct {
	RequestID     string
	Result        string
	Steps         uint64
	FreeVariables []string
	ErrorCode     string
	ErrorMessage  string
	ElapsedMs     float64
}

// Options configure a Server.
type Options struct {
	// Backend is used when a request does not name one.
	Backend string
	// Names is shared by all requests; nil uses names.Default.
	Names *names.Generator
	// Logger receives one line per request; nil discards.
	Logger *log.Logger
}

// Server evaluates programs on behalf of gRPC clients. Requests are served
// concurrently.
type Server struct {
	opts   Options
	method *desc.MethodDescriptor
	grpc   *grpc.Server
}

func New(opts Options) (*Server, error) {
	md, err := evaluateMethod()
	if err != nil {
		return nil, err
	}
	if opts.Backend == "" {
		opts.Backend = config.BackendMachine
	}
	if opts.Names == nil {
		opts.Names = names.Default
	}
	s := &Server{opts: opts, method: md, grpc: grpc.NewServer()}
	s.Register(s.grpc)
	return s, nil
}

// Register adds the Evaluator service to gs.
func (s *Server) Register(gs *grpc.Server) {
	sd := s.method.GetService()
	gs.RegisterService(&grpc.ServiceDesc{
		ServiceName: sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: s.method.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				return srv.(*Server).handleEvaluate(ctx, dec)
			},
		}},
		Streams:  []grpc.StreamDesc{},
		Metadata: sd.GetFile().GetName(),
	}, s)
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logf("listening on %s", lis.Addr())
	return s.grpc.Serve(lis)
}

// Stop waits for in-flight requests and shuts the server down.
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}

func (s *Server) handleEvaluate(ctx context.Context, dec func(interface{}) error) (interface{}, error) {
	in := dynamic.NewMessage(s.method.GetInputType())
	if err := dec(in); err != nil {
		return nil, err
	}

	reply, err := s.Evaluate(ctx, stringField(in, "source"), stringField(in, "backend"))
	if err != nil {
		return nil, err
	}

	out := dynamic.NewMessage(s.method.GetOutputType())
	fields := []struct {
		name  string
		value interface{}
	}{
		{"request_id", reply.RequestID},
		{"result", reply.Result},
		{"steps", reply.Steps},
		{"free_variables", reply.FreeVariables},
		{"error_code", reply.ErrorCode},
		{"error_message", reply.ErrorMessage},
		{"elapsed_ms", reply.ElapsedMs},
	}
	for _, f := range fields {
		if err := setField(out, f.name, f.value); err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
	}
	return out, nil
}

// Evaluate runs one program. Parse failures, cancellation and internal
// errors are returned as gRPC status errors; evaluation errors are reported
// in the reply.
func (s *Server) Evaluate(ctx context.Context, source, backend string) (*Reply, error) {
	start := time.Now()
	id := uuid.NewString()
	if backend == "" {
		backend = s.opts.Backend
	}
	reply := &Reply{RequestID: id}

	res, err := lamb.Interpret(ctx, source, lamb.WithBackend(backend), lamb.WithNames(s.opts.Names))
	reply.ElapsedMs = float64(time.Since(start).Microseconds()) / 1000

	if err == nil {
		reply.Result = res.Text
		reply.Steps = res.Steps
		reply.FreeVariables = res.FreeVars
		s.logf("request %s backend=%s steps=%d outcome=ok elapsed=%.3fms", id, backend, res.Steps, reply.ElapsedMs)
		return reply, nil
	}

	var lerr *lamb.Error
	if !errors.As(err, &lerr) {
		s.logf("request %s backend=%s outcome=rejected: %v", id, backend, err)
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	code := lerr.Code()
	s.logf("request %s backend=%s outcome=%s elapsed=%.3fms", id, backend, code, reply.ElapsedMs)

	switch {
	case code.IsParse():
		return nil, status.Error(codes.InvalidArgument, lerr.Error())
	case code == diagnostics.ErrR004:
		return nil, status.Error(codes.Canceled, lerr.Error())
	case code == diagnostics.ErrR003:
		return nil, status.Error(codes.Internal, lerr.Error())
	}
	reply.ErrorCode = string(code)
	reply.ErrorMessage = lerr.Diagnostics[0].Message
	return reply, nil
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.opts.Logger != nil {
		s.opts.Logger.Printf(format, args...)
	}
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return s.Serve(lis)
}

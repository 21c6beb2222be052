package server

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls a remote Evaluator service.
type Client struct {
	conn   grpc.ClientConnInterface
	closer func() error
	method *desc.MethodDescriptor
}

// Dial connects to the service at target without transport security.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", target, err)
	}
	c, err := NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.closer = conn.Close
	return c, nil
}

// NewClient uses an existing connection. Closing the client leaves conn open.
func NewClient(conn grpc.ClientConnInterface) (*Client, error) {
	md, err := evaluateMethod()
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, method: md}, nil
}

// Evaluate sends source to the server. An empty backend selects the
// server's default.
func (c *Client) Evaluate(ctx context.Context, source, backend string) (*Reply, error) {
	req := dynamic.NewMessage(c.method.GetInputType())
	if err := setField(req, "source", source); err != nil {
		return nil, err
	}
	if err := setField(req, "backend", backend); err != nil {
		return nil, err
	}
	resp := dynamic.NewMessage(c.method.GetOutputType())
	if err := c.conn.Invoke(ctx, fullMethod(), req, resp); err != nil {
		return nil, err
	}

	steps, _ := resp.GetFieldByName("steps").(uint64)
	elapsed, _ := resp.GetFieldByName("elapsed_ms").(float64)
	return &Reply{
		RequestID:     stringField(resp, "request_id"),
		Result:        stringField(resp, "result"),
		Steps:         steps,
		FreeVariables: stringsField(resp, "free_variables"),
		ErrorCode:     stringField(resp, "error_code"),
		ErrorMessage:  stringField(resp, "error_message"),
		ElapsedMs:     elapsed,
	}, nil
}

func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

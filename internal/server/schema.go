package server

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	protoFile   = "lamb.proto"
	ServiceName = "lamb.v1.Evaluator"
	MethodName  = "Evaluate"
)

//go:embed lamb.proto
var protoSource string

var (
	schemaOnce sync.Once
	schema     *desc.ServiceDescriptor
	schemaErr  error
)

// Service returns the parsed descriptor of the Evaluator service.
func Service() (*desc.ServiceDescriptor, error) {
	schemaOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{protoFile: protoSource}),
		}
		fds, err := parser.ParseFiles(protoFile)
		if err != nil {
			schemaErr = fmt.Errorf("parsing %s: %w", protoFile, err)
			return
		}
		schema = fds[0].FindService(ServiceName)
		if schema == nil {
			schemaErr = fmt.Errorf("service %s not found in %s", ServiceName, protoFile)
		}
	})
	return schema, schemaErr
}

func evaluateMethod() (*desc.MethodDescriptor, error) {
	sd, err := Service()
	if err != nil {
		return nil, err
	}
	md := sd.FindMethodByName(MethodName)
	if md == nil {
		return nil, fmt.Errorf("method %s not found in %s", MethodName, ServiceName)
	}
	return md, nil
}

// fullMethod is the path grpc uses for the Evaluate call.
func fullMethod() string {
	return "/" + ServiceName + "/" + MethodName
}

// setField stores v in the named field, converting it to the field's
// declared type.
func setField(msg *dynamic.Message, name string, v interface{}) error {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return fmt.Errorf("field %s not found in %s", name, msg.GetMessageDescriptor().GetFullyQualifiedName())
	}
	if fd.IsRepeated() {
		items, ok := v.([]string)
		if !ok {
			return fmt.Errorf("field %s: expected a list of strings, got %T", name, v)
		}
		slice := make([]interface{}, len(items))
		for i, item := range items {
			slice[i] = item
		}
		return msg.TrySetField(fd, slice)
	}

	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string, got %T", name, v)
		}
		return msg.TrySetField(fd, s)
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		n, ok := v.(uint64)
		if !ok {
			return fmt.Errorf("field %s: expected uint64, got %T", name, v)
		}
		return msg.TrySetField(fd, n)
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("field %s: expected float64, got %T", name, v)
		}
		return msg.TrySetField(fd, f)
	default:
		return fmt.Errorf("field %s: unsupported type %s", name, fd.GetType())
	}
}

func stringField(msg *dynamic.Message, name string) string {
	s, _ := msg.GetFieldByName(name).(string)
	return s
}

func stringsField(msg *dynamic.Message, name string) []string {
	items, _ := msg.GetFieldByName(name).([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

package docrpc

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrBadRequest is returned when a payload lacks a required key.
var ErrBadRequest = errors.New("malformed document request")

const (
	keyCollection = "collection"
	keyID         = "id"
	keyFields     = "fields"
	keyField      = "field"
	keyValue      = "value"
	keyFound      = "found"
	keyDocuments  = "documents"
)

func SetRequest(collection, id string, fields map[string]any) (*structpb.Struct, error) {
	f, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fields: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		keyCollection: structpb.NewStringValue(collection),
		keyID:         structpb.NewStringValue(id),
		keyFields:     structpb.NewStructValue(f),
	}}, nil
}

// KeyRequest addresses one document, for Get and Delete.
func KeyRequest(collection, id string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		keyCollection: structpb.NewStringValue(collection),
		keyID:         structpb.NewStringValue(id),
	}}
}

func QueryRequest(collection, field string, value any) (*structpb.Struct, error) {
	v, err := structpb.NewValue(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query value: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		keyCollection: structpb.NewStringValue(collection),
		keyField:      structpb.NewStringValue(field),
		keyValue:      v,
	}}, nil
}

func ParseSet(req *structpb.Struct) (collection, id string, fields map[string]any, err error) {
	collection, id, err = ParseKey(req)
	if err != nil {
		return "", "", nil, err
	}
	f := req.GetFields()[keyFields].GetStructValue()
	if f == nil {
		return "", "", nil, fmt.Errorf("%w: missing %s", ErrBadRequest, keyFields)
	}
	return collection, id, f.AsMap(), nil
}

func ParseKey(req *structpb.Struct) (collection, id string, err error) {
	if collection, err = stringKey(req, keyCollection); err != nil {
		return "", "", err
	}
	if id, err = stringKey(req, keyID); err != nil {
		return "", "", err
	}
	return collection, id, nil
}

func ParseQuery(req *structpb.Struct) (collection, field string, value any, err error) {
	if collection, err = stringKey(req, keyCollection); err != nil {
		return "", "", nil, err
	}
	if field, err = stringKey(req, keyField); err != nil {
		return "", "", nil, err
	}
	v, ok := req.GetFields()[keyValue]
	if !ok {
		return "", "", nil, fmt.Errorf("%w: missing %s", ErrBadRequest, keyValue)
	}
	return collection, field, v.AsInterface(), nil
}

// GetResponse encodes a Get result; nil fields means not found.
func GetResponse(fields map[string]any) (*structpb.Struct, error) {
	if fields == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{
			keyFound: structpb.NewBoolValue(false),
		}}, nil
	}
	f, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fields: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		keyFound:  structpb.NewBoolValue(true),
		keyFields: structpb.NewStructValue(f),
	}}, nil
}

func ParseGetResponse(resp *structpb.Struct) map[string]any {
	if !resp.GetFields()[keyFound].GetBoolValue() {
		return nil
	}
	f := resp.GetFields()[keyFields].GetStructValue()
	if f == nil {
		return map[string]any{}
	}
	return f.AsMap()
}

func QueryResponse(docs []map[string]any) (*structpb.Struct, error) {
	values := make([]*structpb.Value, 0, len(docs))
	for _, d := range docs {
		s, err := structpb.NewStruct(d)
		if err != nil {
			return nil, fmt.Errorf("failed to encode document: %w", err)
		}
		values = append(values, structpb.NewStructValue(s))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		keyDocuments: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}, nil
}

func ParseQueryResponse(resp *structpb.Struct) []map[string]any {
	list := resp.GetFields()[keyDocuments].GetListValue().GetValues()
	docs := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if s := v.GetStructValue(); s != nil {
			docs = append(docs, s.AsMap())
		}
	}
	return docs
}

func stringKey(req *structpb.Struct, key string) (string, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrBadRequest, key)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || s.StringValue == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrBadRequest, key)
	}
	return s.StringValue, nil
}

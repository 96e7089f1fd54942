// Package docrpc is the wire contract of the remote document store: the
// docstore.v1.DocumentStore gRPC service and the helpers that pack its
// requests and responses into protobuf Struct messages.
//
// The service is described by a hand-maintained grpc.ServiceDesc instead of
// generated stubs. Documents are schemaless field maps, so every payload is a
// google.protobuf.Struct and no .proto compilation step is needed.
//
// Request keys:
//
//	Set     {collection, id, fields}
//	Get     {collection, id}           -> {found, fields}
//	Delete  {collection, id}           -> Empty
//	Query   {collection, field, value} -> {documents}
//	Ping    Empty                      -> Empty
package docrpc

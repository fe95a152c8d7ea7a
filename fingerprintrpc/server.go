package fingerprintrpc

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/nodeid/compliance"
	"xdao.co/nodeid/fingerprint"
	"xdao.co/nodeid/trust"
)

// Request and response field names for the Struct-typed methods.
const (
	FieldFingerprint = "fingerprint"
	FieldKeyMaterial = "key_material"
	FieldRole        = "role"
)

// Server implements FingerprintsServer.
//
// Policy is optional; without it Authenticate fails with FailedPrecondition.
// Compliance applies to every fingerprint the server parses.
type Server struct {
	UnimplementedFingerprintsServer
	Policy     *trust.Policy
	Compliance compliance.ComplianceMode
}

func (s *Server) Derive(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	material := in.GetValue()
	if len(material) == 0 {
		return nil, mapErr(fmt.Errorf("%w: empty key material", ErrInvalidArgument))
	}
	return wrapperspb.String(fingerprint.FromKey(material).String()), nil
}

func (s *Server) Canonicalize(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	fp, err := fingerprint.ParseWithCompliance(in.GetValue(), s.Compliance)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(fp.String()), nil
}

func (s *Server) Verify(ctx context.Context, in *structpb.Struct) (*wrapperspb.BoolValue, error) {
	_ = ctx
	fields := in.GetFields()
	fp, err := fingerprint.ParseWithCompliance(fields[FieldFingerprint].GetStringValue(), s.Compliance)
	if err != nil {
		return nil, mapErr(err)
	}
	material, err := base64.StdEncoding.Strict().DecodeString(fields[FieldKeyMaterial].GetStringValue())
	if err != nil {
		return nil, mapErr(fmt.Errorf("%w: key_material: %v", ErrInvalidArgument, err))
	}
	return wrapperspb.Bool(fp.VerifyAgainst(material)), nil
}

func (s *Server) Authenticate(ctx context.Context, in *wrapperspb.BytesValue) (*structpb.Struct, error) {
	_ = ctx
	if s.Policy == nil {
		return nil, mapErr(ErrNoPolicy)
	}
	e, err := s.Policy.Authenticate(in.GetValue())
	if err != nil {
		return nil, mapErr(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		FieldFingerprint: e.Fingerprint.String(),
		FieldRole:        e.Role,
	})
}

package db

import "testing"

func TestJSONBScanAcceptsBytesAndStrings(t *testing.T) {
	var fromBytes JSONB
	if err := fromBytes.Scan([]byte(`{"region":"us-east-1","replicas":3}`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if fromBytes["region"] != "us-east-1" {
		t.Errorf("region = %v", fromBytes["region"])
	}

	var fromString JSONB
	if err := fromString.Scan(`{"env":"prod"}`); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if fromString["env"] != "prod" {
		t.Errorf("env = %v", fromString["env"])
	}

	var fromNil JSONB
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if fromNil == nil {
		t.Error("nil column should scan to an empty map, not nil")
	}

	var bad JSONB
	if err := bad.Scan(42); err == nil {
		t.Error("expected error for unsupported column type")
	}
}

func TestNilValuesMarshalEmpty(t *testing.T) {
	var j JSONB
	v, err := j.Value()
	if err != nil {
		t.Fatalf("JSONB value: %v", err)
	}
	if string(v.([]byte)) != "{}" {
		t.Errorf("nil JSONB = %s, want {}", v)
	}

	var l JSONList
	v, err = l.Value()
	if err != nil {
		t.Fatalf("JSONList value: %v", err)
	}
	if string(v.([]byte)) != "[]" {
		t.Errorf("nil JSONList = %s, want []", v)
	}

	var s StringSlice
	v, err = s.Value()
	if err != nil {
		t.Fatalf("StringSlice value: %v", err)
	}
	if string(v.([]byte)) != "[]" {
		t.Errorf("nil StringSlice = %s, want []", v)
	}
}

func TestStringSliceRoundTrip(t *testing.T) {
	tags := StringSlice{"payments", "tier-1"}
	v, err := tags.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var got StringSlice
	if err := got.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 2 || got[0] != "payments" || got[1] != "tier-1" {
		t.Errorf("round trip = %v", got)
	}
}

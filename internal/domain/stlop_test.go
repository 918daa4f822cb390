package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSTLOPProofSalaryTravelsAsDecimalString(t *testing.T) {
	// Above 2^53: a JSON number would silently round in float64 consumers.
	proof := STLOPProof{
		Salary:       9007199254740993,
		Timestamp:    1735128000,
		Signature:    "0xabc",
		NotaryPubkey: "0xdef",
	}

	payload, err := json.Marshal(proof)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(payload), `"salary":"9007199254740993"`) {
		t.Fatalf("salary must be a decimal string, got %s", payload)
	}

	var decoded STLOPProof
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != proof {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", proof, decoded)
	}
}

func TestSTLOPProofRejectsNonNumericSalary(t *testing.T) {
	var decoded STLOPProof
	err := json.Unmarshal([]byte(`{"salary":"lots","timestamp":1,"signature":"0x","notary_pubkey":"0x"}`), &decoded)
	if err == nil {
		t.Fatal("expected non-numeric salary to fail")
	}
}

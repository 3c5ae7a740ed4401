package identity_test

import (
	"testing"

	"oxy/internal/services/identity"
)

func TestDeriveDeterministic(t *testing.T) {
	svc := identity.New()
	a, err := svc.Derive("correct")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	b, err := svc.Derive("correct")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if a != b {
		t.Fatalf("same password gave different keypairs")
	}

	pub, err := svc.ServerPublicKey("correct")
	if err != nil {
		t.Fatalf("ServerPublicKey: %v", err)
	}
	if pub != a.Public {
		t.Fatalf("ServerPublicKey differs from Derive")
	}
}

func TestFingerprintSeparatesPasswords(t *testing.T) {
	svc := identity.New()
	good, err := svc.Fingerprint("correct")
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	bad, err := svc.Fingerprint("wrong")
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if good == bad {
		t.Fatalf("different passwords share a fingerprint")
	}
	if len(good.String()) != 20 {
		t.Fatalf("fingerprint %q has unexpected length", good)
	}
}

func TestEmptyPassword(t *testing.T) {
	svc := identity.New()
	kp, err := svc.Derive("")
	if err != nil {
		t.Fatalf("Derive(\"\"): %v", err)
	}
	var zero [32]byte
	if kp.Public == zero {
		t.Fatalf("empty password produced zero public key")
	}
}

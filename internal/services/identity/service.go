package identity

import (
	"oxy/internal/crypto"
	"oxy/internal/domain"
	"oxy/internal/util/memzero"
)

// Service derives keypairs from passwords.
type Service struct{}

var _ domain.IdentityService = (*Service)(nil)

// New returns an identity service.
func New() *Service { return &Service{} }

// Derive returns the static keypair for password. An empty password is valid.
func (s *Service) Derive(password string) (domain.StaticKeypair, error) {
	seed := crypto.DeriveSeed([]byte(password))
	defer memzero.Zero(seed.Slice())
	return crypto.KeypairFromSeed(&seed)
}

// ServerPublicKey returns only the public half, wiping the private scalar.
func (s *Service) ServerPublicKey(password string) (domain.PublicKey, error) {
	kp, err := s.Derive(password)
	if err != nil {
		return domain.PublicKey{}, err
	}
	memzero.Zero(kp.Private.Slice())
	return kp.Public, nil
}

// Fingerprint returns a short fingerprint of the public key bound to password.
func (s *Service) Fingerprint(password string) (domain.Fingerprint, error) {
	pub, err := s.ServerPublicKey(password)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(pub), nil
}

package vault

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

type CredentialType string

const (
	CredentialType_password CredentialType = "password"
	CredentialType_token    CredentialType = "token"
)

// Credential is authentication material resolved for one invocation. It is
// constructed from explicit parameters, a persisted secret or an
// interactive prompt, never mutated and dropped when the process exits.
type Credential struct {
	Type   CredentialType `json:"type,omitempty"`
	User   string         `json:"user,omitempty"`
	Secret []byte         `json:"secret,omitempty"`
}

func NewPasswordCredential(user string, password string) *Credential {
	return &Credential{
		Type:   CredentialType_password,
		User:   user,
		Secret: []byte(password),
	}
}

func NewTokenCredential(token string) *Credential {
	return &Credential{
		Type:   CredentialType_token,
		Secret: []byte(token),
	}
}

// Password returns the secret as a string
func (c *Credential) Password() string {
	if c == nil {
		return ""
	}
	return string(c.Secret)
}

// NewSecret encodes the credential so it can be stored in a vault
func NewSecret(key string, cred *Credential) (*Secret, error) {
	data, err := json.Marshal(cred)
	if err != nil {
		return nil, err
	}

	return &Secret{
		Key:   key,
		Label: "virtadm: " + key,
		Data:  data,
	}, nil
}

// Credential parses the secret data and creates a credential
func (s *Secret) Credential() (*Credential, error) {
	var cred Credential
	err := json.Unmarshal(s.Data, &cred)
	if err != nil {
		return nil, errors.Wrap(err, "unknown secret format")
	}
	return &cred, nil
}

// secrets encoded by EncodeSecret carry this marker
const encodedPrefix = "venc:"

// EncodeSecret returns the transportable encoded form of a plaintext secret
func EncodeSecret(plain string) string {
	return encodedPrefix + base64.StdEncoding.EncodeToString([]byte(plain))
}

// DecodeSecret decodes a secret that was encoded with EncodeSecret. Any
// value without the marker, or one that does not decode, is passed through
// unchanged as plaintext. No other encodings are attempted.
func DecodeSecret(s string) string {
	if !strings.HasPrefix(s, encodedPrefix) {
		return s
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, encodedPrefix))
	if err != nil {
		return s
	}
	return string(data)
}

package cipher

import (
	"strings"

	"github.com/fernet/fernet-go"

	"xchange/internal/models"
)

// Cipher performs symmetric, authenticated encryption of individual values
// using Fernet tokens. The key is the fetched secret material.
type Cipher struct {
	key *fernet.Key
}

// New builds a Cipher from raw key material (a urlsafe-base64 Fernet key).
func New(material []byte) (*Cipher, error) {
	key, err := fernet.DecodeKey(strings.TrimSpace(string(material)))
	if err != nil {
		return nil, &models.IntegrityError{Op: "decode key material", Err: err}
	}
	return &Cipher{key: key}, nil
}

// GenerateKey produces a fresh Fernet key in its textual form. Used by local
// tooling and tests; production keys live in the secret store.
func GenerateKey() (string, error) {
	key := new(fernet.Key)
	if err := key.Generate(); err != nil {
		return "", err
	}
	return key.Encode(), nil
}

// EncryptValue encrypts and signs a single value.
func (c *Cipher) EncryptValue(plain []byte) ([]byte, error) {
	return fernet.EncryptAndSign(plain, c.key)
}

// DecryptValue verifies and decrypts a single value. A token produced under a
// different key fails verification; it never yields garbage.
func (c *Cipher) DecryptValue(token []byte) ([]byte, error) {
	plain := fernet.VerifyAndDecrypt(token, 0, []*fernet.Key{c.key})
	if plain == nil {
		return nil, &models.IntegrityError{Op: "decrypt value"}
	}
	return plain, nil
}

// EncryptRecords encrypts every data cell of rendered records independently.
// The header row is not among the records and stays plaintext.
func (c *Cipher) EncryptRecords(records [][]string) ([][]string, error) {
	out := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(record))
		for j, cell := range record {
			token, err := c.EncryptValue([]byte(cell))
			if err != nil {
				return nil, err
			}
			row[j] = string(token)
		}
		out[i] = row
	}
	return out, nil
}

// DecryptRecords reverses EncryptRecords cell by cell.
func (c *Cipher) DecryptRecords(records [][]string) ([][]string, error) {
	out := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(record))
		for j, cell := range record {
			plain, err := c.DecryptValue([]byte(cell))
			if err != nil {
				return nil, err
			}
			row[j] = string(plain)
		}
		out[i] = row
	}
	return out, nil
}

// Package vault gives transparent, optionally age-encrypted access to the
// files of a data folder.
//
// Encryption is enabled once per folder with a passphrase. From then on every
// data file is written encrypted, and reading requires the vault to be
// unlocked with the same passphrase.
package vault

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"
)

const (
	// ageHeader is the prefix of age-encrypted files.
	ageHeader = "age-encryption.org"

	// markerFile indicates encryption is enabled.
	markerFile = ".encrypted"

	// verifyFile holds verifyMagic, encrypted, to check passphrases.
	verifyFile  = ".encryption-verify"
	verifyMagic = `{"magic":"savetrack-encryption-verify","version":1}`

	minPassphrase = 8
)

// ErrLocked is returned when reading encrypted data before Unlock.
var ErrLocked = errors.New("vault is locked")

// ErrPassphrase is returned for a wrong passphrase.
var ErrPassphrase = errors.New("incorrect passphrase")

// Vault reads and writes files of a single folder.
type Vault struct {
	dir string

	mu        sync.RWMutex
	encrypted bool
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
}

// Open returns the vault of dir, creating the folder if needed.
func Open(dir string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data folder %q: %w", dir, err)
	}
	v := &Vault{dir: dir}
	if _, err := os.Stat(filepath.Join(dir, markerFile)); err == nil {
		v.encrypted = true
	}
	return v, nil
}

func (v *Vault) Dir() string { return v.dir }

// IsEncrypted reports whether the folder is encrypted.
func (v *Vault) IsEncrypted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.encrypted
}

// IsUnlocked reports whether files can be read, either because the folder is
// not encrypted or because the passphrase has been given.
func (v *Vault) IsUnlocked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return !v.encrypted || v.identity != nil
}

// Unlock checks passphrase and keeps the derived keys in memory.
func (v *Vault) Unlock(passphrase string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.encrypted {
		return nil
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("cannot derive identity: %w", err)
	}
	sealed, err := os.ReadFile(filepath.Join(v.dir, verifyFile))
	if err != nil {
		return fmt.Errorf("cannot read verification file: %w", err)
	}
	plain, err := decrypt(sealed, identity)
	if err != nil || string(plain) != verifyMagic {
		return ErrPassphrase
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("cannot derive recipient: %w", err)
	}
	v.identity, v.recipient = identity, recipient
	return nil
}

// Lock forgets the keys.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.identity, v.recipient = nil, nil
}

// ReadFile reads the named file of the folder, decrypting it if needed.
// Missing files report an error matching fs.ErrNotExist.
func (v *Vault) ReadFile(name string) ([]byte, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(v.dir, name))
	if err != nil {
		return nil, err
	}
	if !isAgeEncrypted(data) {
		return data, nil
	}
	if v.identity == nil {
		return nil, fmt.Errorf("cannot read %q: %w", name, ErrLocked)
	}
	return decrypt(data, v.identity)
}

// WriteFile atomically replaces the named file, encrypting it when the
// folder is encrypted.
func (v *Vault) WriteFile(name string, data []byte) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.encrypted && !skipEncryption(name) {
		if v.recipient == nil {
			return fmt.Errorf("cannot write %q: %w", name, ErrLocked)
		}
		sealed, err := encrypt(data, v.recipient)
		if err != nil {
			return fmt.Errorf("cannot encrypt %q: %w", name, err)
		}
		data = sealed
	}
	return atomicWrite(filepath.Join(v.dir, name), data)
}

// Remove deletes the named file. Removing a missing file is not an error.
func (v *Vault) Remove(name string) error {
	err := os.Remove(filepath.Join(v.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// EnableEncryption encrypts every data file of the folder with passphrase
// and leaves the vault unlocked.
func (v *Vault) EnableEncryption(passphrase string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.encrypted {
		return errors.New("encryption is already enabled")
	}
	if len(passphrase) < minPassphrase {
		return fmt.Errorf("passphrase must be at least %d characters", minPassphrase)
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("cannot derive recipient: %w", err)
	}
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("cannot derive identity: %w", err)
	}

	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return fmt.Errorf("cannot scan data folder: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || skipEncryption(e.Name()) {
			continue
		}
		path := filepath.Join(v.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if isAgeEncrypted(data) {
			continue
		}
		sealed, err := encrypt(data, recipient)
		if err != nil {
			return fmt.Errorf("cannot encrypt %q: %w", e.Name(), err)
		}
		if err := atomicWrite(path, sealed); err != nil {
			return err
		}
	}

	sealed, err := encrypt([]byte(verifyMagic), recipient)
	if err != nil {
		return fmt.Errorf("cannot encrypt verification file: %w", err)
	}
	if err := atomicWrite(filepath.Join(v.dir, verifyFile), sealed); err != nil {
		return err
	}
	if err := atomicWrite(filepath.Join(v.dir, markerFile), []byte("encrypted")); err != nil {
		return err
	}
	v.encrypted, v.identity, v.recipient = true, identity, recipient
	return nil
}

// skipEncryption reports files that stay in clear: vault bookkeeping and
// anything that is not a JSON data file.
func skipEncryption(name string) bool {
	base := filepath.Base(name)
	if base == markerFile || base == verifyFile {
		return true
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext != ".json" && ext != ".jsonl"
}

func isAgeEncrypted(data []byte) bool { return bytes.HasPrefix(data, []byte(ageHeader)) }

// atomicWrite writes data to a temp file renamed over path.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func encrypt(data []byte, recipient *age.ScryptRecipient) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decrypt(data []byte, identity *age.ScryptIdentity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

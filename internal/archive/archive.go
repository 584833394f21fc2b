package archive

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/yeka/zip"

	"xchange/internal/models"
)

// Member is one named byte stream inside a container.
type Member struct {
	Name string
	Data []byte
}

// Pack bundles the members into one compressed, AES-256 password-protected
// zip container, entirely in memory.
func Pack(password string, members ...Member) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Encrypt(m.Name, password, zip.AES256Encryption)
		if err != nil {
			return nil, fmt.Errorf("add member %s: %w", m.Name, err)
		}
		if _, err := w.Write(m.Data); err != nil {
			return nil, fmt.Errorf("write member %s: %w", m.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close container: %w", err)
	}
	return buf.Bytes(), nil
}

// Unpack enumerates the container's members and reads each through the
// decrypting stream, without materializing the archive on disk. A wrong
// password or corrupted container is an IntegrityError.
func Unpack(data []byte, password string) ([]Member, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &models.IntegrityError{Op: "open container", Err: err}
	}
	members := make([]Member, 0, len(zr.File))
	for _, f := range zr.File {
		if f.IsEncrypted() {
			f.SetPassword(password)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &models.IntegrityError{Op: fmt.Sprintf("open member %s", f.Name), Err: err}
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &models.IntegrityError{Op: fmt.Sprintf("read member %s", f.Name), Err: err}
		}
		members = append(members, Member{Name: f.Name, Data: content})
	}
	return members, nil
}

// Filename returns the container name for a run: unique per run and sortable
// by creation time, down to microseconds.
func Filename(t time.Time) string {
	return fmt.Sprintf("orders_to_ingest-%s-%06d.zip", t.Format("2006_01_02-15_04_05"), t.Nanosecond()/1000)
}

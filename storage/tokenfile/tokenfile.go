// Package tokenfile persists the operator's session as a single JSON file
// holding the `userToken` entry. It is the durable storage behind the
// session store.
package tokenfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/omaradel/manaboard/core/session"
)

type repository struct {
	path string
}

var _ session.Repository = (*repository)(nil)

func NewRepository(path string) session.Repository {
	return &repository{path: path}
}

func (r *repository) Load() (session.Session, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) { // never logged in on this machine
			return session.Session{}, nil
		}
		return session.Session{}, errors.Wrap(err, "reading token file")
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding token file")
	}
	return sess, nil
}

// Save writes the session atomically (temp file + rename) so a crash
// mid-write never leaves a corrupt token file behind.
func (r *repository) Save(sess session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding token file")
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return errors.Wrap(err, "creating token dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".session-*")
	if err != nil {
		return errors.Wrap(err, "creating temp token file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp token file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "chmod temp token file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp token file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), r.path), "renaming token file")
}

func (r *repository) Clear() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing token file")
	}
	return nil
}

// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package state

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/linuxdeepin/go-lib/log"
	"github.com/linuxdeepin/go-lib/utils"
	"github.com/linuxdeepin/go-lib/xdg/basedir"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

var logger = log.NewLogger("daemon/state")

var errNoStore = errors.New("no configuration store")

// DefaultConfFile is where the user configuration is kept.
func DefaultConfFile() string {
	return filepath.Join(basedir.GetUserConfigDir(), "clight", "clight.yaml")
}

// FileStore keeps the configuration as a YAML document.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load decodes the stored file over conf. A missing file leaves conf
// untouched and is not an error.
func (s *FileStore) Load(conf *Conf) error {
	if !utils.IsFileExist(s.path) {
		logger.Debug("no configuration file at", s.path)
		return nil
	}
	content, err := os.ReadFile(s.path)
	if err != nil {
		return xerrors.Errorf("read %s: %w", s.path, err)
	}

	// decode into a copy so a malformed file keeps the defaults
	tmp := *conf
	err = yaml.Unmarshal(content, &tmp)
	if err != nil {
		return xerrors.Errorf("parse %s: %w", s.path, err)
	}
	*conf = tmp
	return nil
}

func (s *FileStore) Store(conf *Conf) error {
	content, err := yaml.Marshal(conf)
	if err != nil {
		return xerrors.Errorf("encode configuration: %w", err)
	}

	dir := filepath.Dir(s.path)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return xerrors.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".clight-*.yaml")
	if err != nil {
		return xerrors.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, err = tmp.Write(content)
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return xerrors.Errorf("write %s: %w", tmpName, err)
	}

	err = os.Rename(tmpName, s.path)
	if err != nil {
		return xerrors.Errorf("rename to %s: %w", s.path, err)
	}
	logger.Info("configuration stored to", s.path)
	return nil
}

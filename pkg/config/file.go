package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batteryd/batteryd/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		Listen:                ptr.To(":8080"),
		PublicDir:             ptr.To("./public"),
		CommandTimeoutSeconds: ptr.To(5),
		AllowedOrigin:         ptr.To("*"),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	Listen                *string `json:"listen,omitempty"`
	PublicDir             *string `json:"publicDir,omitempty"`
	CommandTimeoutSeconds *int    `json:"commandTimeoutSeconds,omitempty"`
	AllowedOrigin         *string `json:"allowedOrigin,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		Listen:                ptr.To(c.Listen()),
		PublicDir:             ptr.To(c.PublicDir()),
		CommandTimeoutSeconds: ptr.To(int(c.CommandTimeout() / time.Second)),
		AllowedOrigin:         ptr.To(c.AllowedOrigin()),
	}

	return rawConfig, nil
}

func (f *File) Listen() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.Listen, *defaultFileConfig.Listen)
}

func (f *File) PublicDir() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.PublicDir, *defaultFileConfig.PublicDir)
}

func (f *File) CommandTimeout() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	seconds := ptr.Deref(f.c.CommandTimeoutSeconds, *defaultFileConfig.CommandTimeoutSeconds)
	if seconds <= 0 {
		seconds = *defaultFileConfig.CommandTimeoutSeconds
	}

	return time.Duration(seconds) * time.Second
}

func (f *File) AllowedOrigin() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.AllowedOrigin, *defaultFileConfig.AllowedOrigin)
}

func (f *File) SetListen(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Listen = &s
}

func (f *File) SetPublicDir(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.PublicDir = &s
}

func (f *File) SetCommandTimeout(d time.Duration) {
	if f.c == nil {
		panic("config is nil")
	}

	if d < time.Second {
		panic("command timeout must be at least one second")
	}

	seconds := int(d / time.Second)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.CommandTimeoutSeconds = &seconds
}

func (f *File) SetAllowedOrigin(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.AllowedOrigin = &s
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.filepath == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}
	if f.filepath == "" {
		return pkgerrors.New("config has no file path")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"listen":         f.Listen(),
		"publicDir":      f.PublicDir(),
		"commandTimeout": f.CommandTimeout().String(),
		"allowedOrigin":  f.AllowedOrigin(),
	}
}

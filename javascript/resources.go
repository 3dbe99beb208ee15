package javascript

import (
	"embed"
	"io"
	"io/fs"

	"github.com/wippyai/teajs/errors"
)

// RuntimeResource is the name under which the runtime support script is
// loaded.
const RuntimeResource = "runtime.js"

//go:embed runtime.js
var embedded embed.FS

// ResourceLoader opens named support resources.
type ResourceLoader interface {
	Open(name string) (io.ReadCloser, error)
}

// FSLoader serves resources from a file system.
type FSLoader struct {
	FS fs.FS
}

// Open implements ResourceLoader.
func (l FSLoader) Open(name string) (io.ReadCloser, error) {
	f, err := l.FS.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DefaultResources returns the loader for the built-in runtime support.
func DefaultResources() ResourceLoader {
	return FSLoader{FS: embedded}
}

func loadResource(loader ResourceLoader, name string) (string, error) {
	r, err := loader.Open(name)
	if err != nil {
		return "", errors.New(errors.PhaseRender, errors.KindIO).
			Detail("open resource").
			Value(name).
			Cause(err).
			Build()
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.IO(errors.PhaseRender, "read resource "+name, err)
	}
	return string(data), nil
}
